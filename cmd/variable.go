package cmd

import (
	"context"

	"proxysql-manager/feature/variable"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	variableName  string
	variableValue string
	variableApply applyFlags
)

// variableCmd sets or reads one global variable. Variables only support
// update, so there is no --state flag here.
var variableCmd = &cobra.Command{
	Use:   "variable",
	Short: "Set or read a global variable",
	Long: `Set one global_variables row to the declared value, or read it when no
value is given. Variables prefixed with "admin-" are saved and loaded through
the ADMIN VARIABLES area, all others through MYSQL VARIABLES.

Examples:
  # Read the current value
  proxysql-manager variable --variable mysql-max_connections

  # Set a value
  proxysql-manager variable --variable mysql-max_connections --value 4096`,
	RunE: runVariable,
}

func init() {
	variableCmd.Flags().StringVar(&variableName, "variable", "", "Variable name (required)")
	variableCmd.Flags().StringVar(&variableValue, "value", "", "Desired value; omit to read the current value")
	variableCmd.Flags().BoolVar(&variableApply.saveToDisk, "save-to-disk", true, "Save the configuration area to disk after a change")
	variableCmd.Flags().BoolVar(&variableApply.loadToRuntime, "load-to-runtime", true, "Load the configuration area to runtime after a change")
	variableCmd.Flags().BoolVar(&variableApply.dryRun, "dry-run", false, "Report what would change without writing")

	_ = variableCmd.MarkFlagRequired("variable")

	RootCmd.AddCommand(variableCmd)
}

func runVariable(cmd *cobra.Command, args []string) error {
	variableApply.state = "present"
	opts, err := variableApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	params := variable.Params{
		Name:  variableName,
		Value: variableValue,
	}

	result, err := variable.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	if variableValue == "" {
		l.Info("current value",
			zap.String("variable", variableName),
			zap.String("value", result.Row["variable_value"]),
		)
		return nil
	}

	logResult(l, result)
	return nil
}
