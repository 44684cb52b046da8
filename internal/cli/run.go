package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"charm.land/lipgloss/v2"

	pipeline "github.com/drewbarontini/system-runner"
	"github.com/drewbarontini/system-runner/routines"
	"github.com/drewbarontini/system-runner/telemetry"

	// Register the built-in actions
	_ "github.com/drewbarontini/system-runner/steps"
)

const serviceName = "system-runner"

type runOptions struct {
	inputPath string
	format    string
	timeout   time.Duration
	trace     bool
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <name|file.yaml>",
		Short: "Execute a routine and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = a.settings.Timeout
			}
			if !cmd.Flags().Changed("trace") {
				opts.trace = a.settings.Trace
			}
			return a.run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inputPath, "input", "i", "", "Input file (YAML or JSON), '-' for stdin")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "yaml", "Output format: yaml or json")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "Abort the routine after this duration (0 for no timeout)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print OpenTelemetry spans to stderr")

	return cmd
}

func (a *app) run(cmd *cobra.Command, nameOrPath string, opts *runOptions) error {
	if opts.format != "yaml" && opts.format != "json" {
		return fmt.Errorf("unsupported format '%s' (want yaml or json)", opts.format)
	}

	t, err := a.resolve(nameOrPath)
	if err != nil {
		return err
	}

	decode, err := readInput(cmd.InOrStdin(), opts.inputPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if opts.trace {
		shutdown, err := telemetry.InitTracer(serviceName, cmd.ErrOrStderr(), a.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				a.logger.Warn("Failed to flush traces", "error", err)
			}
		}()
	}

	execOpts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if a.verbose {
		execOpts = append(execOpts, pipeline.WithListener(NewConsoleListener(cmd.ErrOrStderr())))
	}

	result, err := t.run(ctx, decode, execOpts...)
	if err != nil {
		printDiagnostics(cmd.ErrOrStderr(), err)
		return err
	}

	return writeResult(cmd.OutOrStdout(), result, opts.format)
}

// readInput returns a decoder for the routine input, nil without an input file
func readInput(stdin io.Reader, path string) (routines.DecodeFunc, error) {
	if path == "" {
		return nil, nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	// JSON documents are valid YAML
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if node.Kind == 0 {
		return nil, nil
	}
	return node.Decode, nil
}

func writeResult(w io.Writer, result any, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}

// printDiagnostics shows how far a failed run got
func printDiagnostics(w io.Writer, err error) {
	var diag pipeline.Diagnostics

	var stepErr *pipeline.StepError
	var finalizeErr *pipeline.FinalizeError
	switch {
	case errors.As(err, &stepErr):
		diag = stepErr.Diagnostics
	case errors.As(err, &finalizeErr):
		diag = finalizeErr.Diagnostics
	default:
		return
	}

	lipgloss.Fprintln(w, errStyle.Render("Run "+diag.RunID+" failed: "+err.Error()))
	lipgloss.Fprintln(w, titleStyle.Render("Completed steps"))
	if len(diag.Completed) == 0 {
		lipgloss.Fprintln(w, faintStyle.Render("  none"))
	}
	for _, entry := range diag.Completed {
		lipgloss.Fprintf(w, "  - %s\n", entry.Title)
	}

	if len(diag.State) > 0 {
		lipgloss.Fprintln(w, titleStyle.Render("State"))
		out, _ := yaml.Marshal(diag.State)
		lipgloss.Fprint(w, string(out))
	}
}
