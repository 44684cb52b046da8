package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/drewbarontini/system-runner/builder"
)

// app is the state shared by all commands of one invocation
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	settings *Settings
	logger   *slog.Logger
	registry *builder.RoutineRegistry
}

// Execute runs the CLI
func Execute(ctx context.Context, args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "routine",
		Short: "Run personal and team routines step by step",
		Long: `routine executes routines: ordered steps that read an input, share state
and produce an output. Steps without automation are printed as instructions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Print step progress")

	rootCmd.AddCommand(
		newListCmd(a),
		newDescribeCmd(a),
		newActionsCmd(a),
		newRunCmd(a),
	)

	return rootCmd
}

// setup loads settings, configures logging and loads YAML routines
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		settings.LogLevel = a.logLevel
	}

	level, err := settings.Level()
	if err != nil {
		return err
	}

	a.settings = settings
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	a.registry = builder.NewRoutineRegistry()
	if err := a.registry.LoadRoutinesFromDirectory(settings.RoutinesDir); err != nil {
		return fmt.Errorf("failed to load routines: %w", err)
	}
	a.logger.Debug("Routines loaded", "dir", settings.RoutinesDir, "count", a.registry.Count())

	return nil
}
