package cmd

import (
	"context"

	"proxysql-manager/feature/user"

	"github.com/spf13/cobra"
)

var (
	userUsername string
	userApply    applyFlags
)

// userCmd reconciles one mysql_users row.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Reconcile a MySQL user entry",
	Long: `Reconcile one row of mysql_users, identified by username.

Examples:
  # Create an application user routed to hostgroup 1
  proxysql-manager user --username app --password secret --default-hostgroup 1

  # Disable a user without removing it
  proxysql-manager user --username app --active=false

  # Remove a user
  proxysql-manager user --username app --state absent`,
	RunE: runUser,
}

func init() {
	userCmd.Flags().StringVar(&userUsername, "username", "", "Username (required)")

	userCmd.Flags().String("password", "", "Password, cleartext or mysql_native_password hash")
	userCmd.Flags().Bool("active", false, "Whether the user is active")
	userCmd.Flags().Bool("use-ssl", false, "Require SSL for this user")
	userCmd.Flags().Int("default-hostgroup", 0, "Hostgroup queries are routed to absent matching rules")
	userCmd.Flags().String("default-schema", "", "Schema the connection defaults to")
	userCmd.Flags().Bool("transaction-persistent", false, "Keep transactions on the same backend")
	userCmd.Flags().Bool("fast-forward", false, "Bypass the query processor for this user")
	userCmd.Flags().Bool("backend", false, "User exists on the backends")
	userCmd.Flags().Bool("frontend", false, "User can connect to the proxy")
	userCmd.Flags().Int("max-connections", 0, "Maximum frontend connections for this user")
	registerApplyFlags(userCmd, &userApply)

	_ = userCmd.MarkFlagRequired("username")

	RootCmd.AddCommand(userCmd)
}

func runUser(cmd *cobra.Command, args []string) error {
	opts, err := userApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	params := user.Params{
		Username: userUsername,

		Password:              stringOpt(flags, "password"),
		Active:                boolOpt(flags, "active"),
		UseSSL:                boolOpt(flags, "use-ssl"),
		DefaultHostgroup:      intOpt(flags, "default-hostgroup"),
		DefaultSchema:         stringOpt(flags, "default-schema"),
		TransactionPersistent: boolOpt(flags, "transaction-persistent"),
		FastForward:           boolOpt(flags, "fast-forward"),
		Backend:               boolOpt(flags, "backend"),
		Frontend:              boolOpt(flags, "frontend"),
		MaxConnections:        intOpt(flags, "max-connections"),
	}

	result, err := user.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	logResult(l, result)
	return nil
}
