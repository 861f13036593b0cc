package cmd

import (
	"context"

	"proxysql-manager/feature/manage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	manageAction    string
	manageSettings  string
	manageDirection string
	manageLayer     string
)

// manageCmd issues one standalone LOAD/SAVE configuration command, useful
// after batching several changes with --load-to-runtime=false.
var manageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Issue a LOAD/SAVE configuration command",
	Long: `Issue one LOAD or SAVE command moving a configuration area between the
memory, disk, runtime and config layers. The CONFIG layer is only valid as a
source (LOAD ... FROM CONFIG).

Examples:
  # Activate pending server changes
  proxysql-manager manage --action LOAD --settings "MYSQL SERVERS" --direction TO --layer RUNTIME

  # Persist the current user configuration
  proxysql-manager manage --action SAVE --settings "MYSQL USERS" --direction TO --layer DISK`,
	RunE: runManage,
}

func init() {
	manageCmd.Flags().StringVar(&manageAction, "action", "", "LOAD or SAVE (required)")
	manageCmd.Flags().StringVar(&manageSettings, "settings", "", "Configuration area, e.g. \"MYSQL SERVERS\" (required)")
	manageCmd.Flags().StringVar(&manageDirection, "direction", "", "FROM or TO (required)")
	manageCmd.Flags().StringVar(&manageLayer, "layer", "", "MEMORY, DISK, RUNTIME or CONFIG (required)")

	_ = manageCmd.MarkFlagRequired("action")
	_ = manageCmd.MarkFlagRequired("settings")
	_ = manageCmd.MarkFlagRequired("direction")
	_ = manageCmd.MarkFlagRequired("layer")

	RootCmd.AddCommand(manageCmd)
}

func runManage(cmd *cobra.Command, args []string) error {
	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	params := manage.Params{
		Action:    manageAction,
		Settings:  manageSettings,
		Direction: manageDirection,
		Layer:     manageLayer,
	}

	changed, err := manage.NewService(db, l).Run(context.Background(), params)
	if err != nil {
		return err
	}

	l.Info("config command finished", zap.Bool("changed", changed))
	return nil
}
