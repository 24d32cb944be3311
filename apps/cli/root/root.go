package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zenGate-Global/orgadmin/apps/cli/clienv"
	"github.com/zenGate-Global/orgadmin/platform/go/cliout"
	"github.com/zenGate-Global/orgadmin/platform/go/config"
	"github.com/zenGate-Global/orgadmin/platform/go/invocation"
	"github.com/zenGate-Global/orgadmin/platform/go/logging"
)

// rootCmd is the base command for the org admin CLI. Subcommands (theme, user) are attached in wire.go.
var rootCmd = &cobra.Command{
	Use:   "orgadmin",
	Short: "Org admin CLI",
	Long: "Administrative utilities that drive the sfdx host CLI (theme activation, permission set assignment).\n" +
		"Commands write short-lived metadata under the current project, call sfdx with --json and pass its result through.",
	SilenceErrors:      true,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var rootFlags struct {
	targetUsername string
	json           bool
	output         string
	logLevel       string
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.targetUsername, "targetusername", "u", "", "username or alias for the target org; overrides SFDX_DEFAULTUSERNAME")
	pf.BoolVar(&rootFlags.json, "json", false, "format output as json")
	pf.StringVar(&rootFlags.output, "output", "text", "output format (text, json, yaml)")
	pf.StringVar(&rootFlags.logLevel, "loglevel", "", "logging level (debug, info, warn, error); overrides ORGADMIN_LOG_LEVEL")
}

// shutdownSignals cancel the command context so deferred project cleanup still runs.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Execute runs the CLI. Failures are reported through the selected output format before returning.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// reported here in the selected format; callers only set the exit code
		printer().Failure(err)
	}
	return err
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}

func outputFormat() (cliout.Format, error) {
	if rootFlags.json {
		return cliout.FormatJSON, nil
	}
	return cliout.ParseFormat(rootFlags.output)
}

func printer() cliout.Printer {
	format, err := outputFormat()
	if err != nil {
		format = cliout.FormatText
	}
	return cliout.Printer{Out: rootCmd.OutOrStdout(), Err: rootCmd.ErrOrStderr(), Format: format}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Component: "orgadmin",
		Level:     cfg.LogLevel,
		Output:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	env, err := clienv.New(cfg, logger, clienv.Options{
		Out:            cmd.OutOrStdout(),
		Err:            cmd.ErrOrStderr(),
		Format:         format,
		TargetUsername: rootFlags.targetUsername,
	})
	if err != nil {
		return err
	}

	info := invocation.New(cmd.CommandPath(), env.TargetUsername, time.Now().UTC())
	env.Logger = logger.With(info.Fields()...)

	ctx := cmd.Context()
	ctx = invocation.IntoContext(ctx, info)
	ctx = logging.WithLogger(ctx, env.Logger)
	ctx = clienv.WithEnv(ctx, env)
	cmd.SetContext(ctx)

	env.Logger.Debug("command started", zap.String("project_dir", cfg.ProjectDir), zap.String("host_bin", cfg.HostBinary))
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	env, err := clienv.FromContext(cmd.Context())
	if err != nil {
		return nil
	}
	if info, ok := invocation.FromContext(cmd.Context()); ok {
		env.Logger.Debug("command finished", zap.Duration("duration", time.Since(info.StartedAt)))
	}
	_ = env.Logger.Sync()
	return nil
}
