package cmd

import (
	"context"

	"proxysql-manager/feature/scheduler"

	"github.com/spf13/cobra"
)

var (
	schedulerFilename string
	schedulerApply    applyFlags
)

// schedulerCmd reconciles one scheduler job row.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Reconcile a scheduler job entry",
	Long: `Reconcile one row of the scheduler table, identified by the script
filename. The scheduler runs the script every interval-ms milliseconds with
up to five arguments.

Examples:
  # Run a health-check script every ten seconds
  proxysql-manager scheduler --filename /opt/scripts/check.sh --interval-ms 10000 --active

  # Remove the job
  proxysql-manager scheduler --filename /opt/scripts/check.sh --state absent`,
	RunE: runScheduler,
}

func init() {
	schedulerCmd.Flags().StringVar(&schedulerFilename, "filename", "", "Full path of the executable to schedule (required)")

	schedulerCmd.Flags().Bool("active", false, "Whether the job runs")
	schedulerCmd.Flags().Int("interval-ms", 0, "Run interval in milliseconds (100-100000000)")
	schedulerCmd.Flags().String("arg1", "", "First argument passed to the script")
	schedulerCmd.Flags().String("arg2", "", "Second argument passed to the script")
	schedulerCmd.Flags().String("arg3", "", "Third argument passed to the script")
	schedulerCmd.Flags().String("arg4", "", "Fourth argument passed to the script")
	schedulerCmd.Flags().String("arg5", "", "Fifth argument passed to the script")
	schedulerCmd.Flags().String("comment", "", "Free-form comment")
	registerApplyFlags(schedulerCmd, &schedulerApply)

	_ = schedulerCmd.MarkFlagRequired("filename")

	RootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	opts, err := schedulerApply.options()
	if err != nil {
		return err
	}

	db, l, err := setup(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	params := scheduler.Params{
		Filename: schedulerFilename,

		Active:     boolOpt(flags, "active"),
		IntervalMS: intOpt(flags, "interval-ms"),
		Arg1:       stringOpt(flags, "arg1"),
		Arg2:       stringOpt(flags, "arg2"),
		Arg3:       stringOpt(flags, "arg3"),
		Arg4:       stringOpt(flags, "arg4"),
		Arg5:       stringOpt(flags, "arg5"),
		Comment:    stringOpt(flags, "comment"),
	}

	result, err := scheduler.NewService(db, l).Reconcile(context.Background(), params, opts)
	if err != nil {
		return err
	}

	logResult(l, result)
	return nil
}
