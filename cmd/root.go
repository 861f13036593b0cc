// Package cmd wires the reconciliation services into a cobra CLI, one
// subcommand per ProxySQL configuration resource.
package cmd

import (
	"fmt"
	"os"

	"proxysql-manager/core/admin"
	"proxysql-manager/core/config"
	"proxysql-manager/core/logger"
	"proxysql-manager/core/reconcile"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Persistent login flags, shared by every subcommand.
	loginUser       string
	loginPassword   string
	loginHost       string
	loginPort       int
	loginTimeout    int
	credentialsFile string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "proxysql-manager",
	Short: "ProxySQL Configuration Manager",
	Long: `ProxySQL Manager reconciles declared configuration against a running
ProxySQL instance through its admin interface. Each subcommand converges one
resource (servers, users, query rules, variables, replication hostgroups,
scheduler jobs) toward the desired state and reports whether anything changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&loginUser, "login-user", "", "Admin interface username")
	RootCmd.PersistentFlags().StringVar(&loginPassword, "login-password", "", "Admin interface password")
	RootCmd.PersistentFlags().StringVar(&loginHost, "login-host", "", "Admin interface host")
	RootCmd.PersistentFlags().IntVar(&loginPort, "login-port", 0, "Admin interface port")
	RootCmd.PersistentFlags().IntVar(&loginTimeout, "timeout", 0, "Connection and statement timeout in seconds")
	RootCmd.PersistentFlags().StringVar(&credentialsFile, "config-file", "", "my.cnf-style file whose [client] section supplies credentials")
}

// setup loads configuration, overlays the login flags the user actually set,
// and opens the admin connection. Login flags beat the credentials file,
// which beats environment values.
func setup(cmd *cobra.Command) (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("config-file") {
		cfg.Admin.ConfigFile = credentialsFile
	}
	if err := admin.ApplyCredentialsFile(&cfg.Admin); err != nil {
		return nil, nil, err
	}
	if flags.Changed("login-user") {
		cfg.Admin.User = loginUser
	}
	if flags.Changed("login-password") {
		cfg.Admin.Password = loginPassword
	}
	if flags.Changed("login-host") {
		cfg.Admin.Host = loginHost
	}
	if flags.Changed("login-port") {
		cfg.Admin.Port = loginPort
	}
	if flags.Changed("timeout") {
		cfg.Admin.TimeoutSeconds = loginTimeout
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := admin.Connect(cfg.Admin)
	if err != nil {
		if admin.IsAccessDenied(err) {
			return nil, nil, fmt.Errorf("unable to connect to ProxySQL admin interface, check login credentials: %w", err)
		}
		return nil, nil, fmt.Errorf("unable to connect to ProxySQL admin interface: %w", err)
	}

	return db, l, nil
}

// applyFlags are the reconciliation flags every resource subcommand carries.
type applyFlags struct {
	state         string
	saveToDisk    bool
	loadToRuntime bool
	dryRun        bool
}

func registerApplyFlags(cmd *cobra.Command, f *applyFlags) {
	cmd.Flags().StringVar(&f.state, "state", "present", "Desired state: present or absent")
	cmd.Flags().BoolVar(&f.saveToDisk, "save-to-disk", true, "Save the configuration area to disk after a change")
	cmd.Flags().BoolVar(&f.loadToRuntime, "load-to-runtime", true, "Load the configuration area to runtime after a change")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report what would change without writing")
}

func (f *applyFlags) options() (reconcile.Options, error) {
	state := reconcile.State(f.state)
	if !state.Valid() {
		return reconcile.Options{}, fmt.Errorf("invalid state %q, must be %q or %q",
			f.state, reconcile.StatePresent, reconcile.StateAbsent)
	}
	return reconcile.Options{
		State:         state,
		SaveToDisk:    f.saveToDisk,
		LoadToRuntime: f.loadToRuntime,
		DryRun:        f.dryRun,
	}, nil
}

// Optional flag helpers. A flag left at its default by the user yields nil,
// so the field never enters the reconciliation.

func stringOpt(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

func intOpt(flags *pflag.FlagSet, name string) *int {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetInt(name)
	return &v
}

func boolOpt(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetBool(name)
	return &v
}

// logResult reports the reconciliation outcome.
func logResult(l *zap.Logger, result reconcile.Result) {
	fields := []zap.Field{
		zap.Bool("changed", result.Changed),
		zap.String("action", string(result.Action)),
	}
	if len(result.Deltas) > 0 {
		fields = append(fields, zap.Any("deltas", result.Deltas))
	}
	l.Info("reconciliation finished", fields...)
}
