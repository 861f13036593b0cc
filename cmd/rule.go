package cmd

import (
	"context"

	"proxysql-manager/feature/rule"

	"github.com/spf13/cobra"
)

var (
	ruleID    int
	ruleApply applyFlags
)

// ruleCmd reconciles one mysql_query_rules row.
var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Reconcile a query rule entry",
	Long: `Reconcile one row of mysql_query_rules, identified by rule id.

Examples:
  # Route SELECTs matching a pattern to the reader hostgroup
  proxysql-manager rule --rule-id 10 --match-digest '^SELECT' --destination-hostgroup 2 --active --apply

  # Cache a hot query for five seconds
  proxysql-manager rule --rule-id 20 --digest 0x9E6AEF8B7BE63A94 --cache-ttl 5000 --active

  # Remove a rule
  proxysql-manager rule --rule-id 10 --state absent`,
	RunE: runRule,
}

func init() {
	ruleCmd.Flags().IntVar(&ruleID, "rule-id", 0, "Rule id (required)")

	ruleCmd.Flags().Bool("active", false, "Whether the rule is evaluated")
	ruleCmd.Flags().String("username", "", "Match only this username")
	ruleCmd.Flags().String("schemaname", "", "Match only this schema")
	ruleCmd.Flags().Int("flag-in", 0, "Chain entry flag")
	ruleCmd.Flags().String("client-addr", "", "Match only this client address")
	ruleCmd.Flags().String("proxy-addr", "", "Match only connections to this proxy address")
	ruleCmd.Flags().Int("proxy-port", 0, "Match only connections to this proxy port")
	ruleCmd.Flags().String("digest", "", "Match this query digest")
	ruleCmd.Flags().String("match-digest", "", "Regular expression against the digest text")
	ruleCmd.Flags().String("match-pattern", "", "Regular expression against the query text")
	ruleCmd.Flags().Bool("negate-match-pattern", false, "Invert the match")
	ruleCmd.Flags().Int("flag-out", 0, "Chain continuation flag")
	ruleCmd.Flags().String("replace-pattern", "", "Rewrite matched queries with this pattern")
	ruleCmd.Flags().Int("destination-hostgroup", 0, "Route matched queries to this hostgroup")
	ruleCmd.Flags().Int("cache-ttl", 0, "Cache matched result sets for this many milliseconds")
	ruleCmd.Flags().Int("timeout-ms", 0, "Maximum execution time in milliseconds for matched queries")
	ruleCmd.Flags().Int("retries", 0, "Retries on failure for matched queries")
	ruleCmd.Flags().Int("delay", 0, "Delay matched queries by this many milliseconds")
	ruleCmd.Flags().Int("mirror-flag-out", 0, "Mirror chain continuation flag")
	ruleCmd.Flags().Int("mirror-hostgroup", 0, "Mirror matched queries to this hostgroup")
	ruleCmd.Flags().String("error-msg", "", "Block matched queries with this error message")
	ruleCmd.Flags().Bool("log", false, "Log matched queries")
	ruleCmd.Flags().Bool("apply", false, "Stop evaluating further rules on match")
	ruleCmd.Flags().String("comment", "", "Free-form comment")
	registerApplyFlags(ruleCmd, &ruleApply)

	_ = ruleCmd.MarkFlagRequired("rule-id")

	RootCmd.AddCommand(ruleCmd)
}

func runRule(cmd *cobra.Command, args []string) error {
	opts, err := ruleApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	params := rule.Params{
		RuleID: ruleID,

		Active:               boolOpt(flags, "active"),
		Username:             stringOpt(flags, "username"),
		Schemaname:           stringOpt(flags, "schemaname"),
		FlagIN:               intOpt(flags, "flag-in"),
		ClientAddr:           stringOpt(flags, "client-addr"),
		ProxyAddr:            stringOpt(flags, "proxy-addr"),
		ProxyPort:            intOpt(flags, "proxy-port"),
		Digest:               stringOpt(flags, "digest"),
		MatchDigest:          stringOpt(flags, "match-digest"),
		MatchPattern:         stringOpt(flags, "match-pattern"),
		NegateMatchPattern:   boolOpt(flags, "negate-match-pattern"),
		FlagOUT:              intOpt(flags, "flag-out"),
		ReplacePattern:       stringOpt(flags, "replace-pattern"),
		DestinationHostgroup: intOpt(flags, "destination-hostgroup"),
		CacheTTL:             intOpt(flags, "cache-ttl"),
		Timeout:              intOpt(flags, "timeout-ms"),
		Retries:              intOpt(flags, "retries"),
		Delay:                intOpt(flags, "delay"),
		MirrorFlagOUT:        intOpt(flags, "mirror-flag-out"),
		MirrorHostgroup:      intOpt(flags, "mirror-hostgroup"),
		ErrorMsg:             stringOpt(flags, "error-msg"),
		Log:                  boolOpt(flags, "log"),
		Apply:                boolOpt(flags, "apply"),
		Comment:              stringOpt(flags, "comment"),
	}

	result, err := rule.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	logResult(l, result)
	return nil
}
