package cmd

import (
	"context"

	"proxysql-manager/feature/server"

	"github.com/spf13/cobra"
)

var (
	serverHostgroup int
	serverHostname  string
	serverPort      int
	serverApply     applyFlags
)

// serverCmd reconciles one backend server row in mysql_servers.
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Reconcile a backend server entry",
	Long: `Reconcile one row of mysql_servers, identified by hostgroup, hostname
and port. Optional flags left unset keep ProxySQL's defaults on insert and
leave existing values alone on update.

Examples:
  # Register a backend in hostgroup 1
  proxysql-manager server --hostname mysql01 --hostgroup 1

  # Drain a backend without removing it
  proxysql-manager server --hostname mysql01 --hostgroup 1 --status OFFLINE_SOFT

  # Remove a backend
  proxysql-manager server --hostname mysql01 --hostgroup 1 --state absent`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&serverHostgroup, "hostgroup", 0, "Hostgroup the server belongs to")
	serverCmd.Flags().StringVar(&serverHostname, "hostname", "", "Server hostname (required)")
	serverCmd.Flags().IntVar(&serverPort, "port", 3306, "Server port")

	serverCmd.Flags().String("status", "", "Server status: ONLINE, OFFLINE_SOFT or OFFLINE_HARD")
	serverCmd.Flags().Int("weight", 0, "Server weight for connection distribution")
	serverCmd.Flags().Int("compression", 0, "Compress traffic above this threshold (0-102400)")
	serverCmd.Flags().Int("max-connections", 0, "Maximum connections to this backend")
	serverCmd.Flags().Int("max-replication-lag", 0, "Shun the server when replication lag exceeds this many seconds")
	serverCmd.Flags().Bool("use-ssl", false, "Use SSL for backend connections")
	serverCmd.Flags().Int("max-latency-ms", 0, "Exclude the server when ping latency exceeds this many milliseconds")
	serverCmd.Flags().String("comment", "", "Free-form comment")
	registerApplyFlags(serverCmd, &serverApply)

	_ = serverCmd.MarkFlagRequired("hostname")

	RootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	opts, err := serverApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	params := server.Params{
		HostgroupID: serverHostgroup,
		Hostname:    serverHostname,
		Port:        serverPort,

		Status:            stringOpt(flags, "status"),
		Weight:            intOpt(flags, "weight"),
		Compression:       intOpt(flags, "compression"),
		MaxConnections:    intOpt(flags, "max-connections"),
		MaxReplicationLag: intOpt(flags, "max-replication-lag"),
		UseSSL:            boolOpt(flags, "use-ssl"),
		MaxLatencyMS:      intOpt(flags, "max-latency-ms"),
		Comment:           stringOpt(flags, "comment"),
	}

	result, err := server.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	logResult(l, result)
	return nil
}
