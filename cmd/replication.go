package cmd

import (
	"context"

	"proxysql-manager/feature/replication"

	"github.com/spf13/cobra"
)

var (
	replicationWriter int
	replicationApply  applyFlags
)

// replicationCmd reconciles one mysql_replication_hostgroups row.
var replicationCmd = &cobra.Command{
	Use:   "replication-hostgroup",
	Short: "Reconcile a replication hostgroup pair",
	Long: `Reconcile one row of mysql_replication_hostgroups, identified by the
writer hostgroup. ProxySQL moves backends between the writer and reader
hostgroups of a pair based on their read_only state.

Examples:
  # Pair writer hostgroup 1 with reader hostgroup 2
  proxysql-manager replication-hostgroup --writer-hostgroup 1 --reader-hostgroup 2

  # Remove the pair
  proxysql-manager replication-hostgroup --writer-hostgroup 1 --state absent`,
	RunE: runReplication,
}

func init() {
	replicationCmd.Flags().IntVar(&replicationWriter, "writer-hostgroup", 0, "Writer hostgroup id (required)")

	replicationCmd.Flags().Int("reader-hostgroup", 0, "Reader hostgroup id")
	replicationCmd.Flags().String("comment", "", "Free-form comment")
	registerApplyFlags(replicationCmd, &replicationApply)

	_ = replicationCmd.MarkFlagRequired("writer-hostgroup")

	RootCmd.AddCommand(replicationCmd)
}

func runReplication(cmd *cobra.Command, args []string) error {
	opts, err := replicationApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	params := replication.Params{
		WriterHostgroup: replicationWriter,

		ReaderHostgroup: intOpt(flags, "reader-hostgroup"),
		Comment:         stringOpt(flags, "comment"),
	}

	result, err := replication.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	logResult(l, result)
	return nil
}
