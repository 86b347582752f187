package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/testlaunch/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/testlaunch/pkg/application"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
)

// CollaboratorFactory builds the registry and runner for parsed options.
type CollaboratorFactory func(env wiring.Environment) *wiring.Collaborators

// Launcher runs one invocation: parse, dispatch to a single mode and turn
// the result into an outcome. Output is buffered and flushed once on exit.
type Launcher struct {
	parser OptionsParser
	build  CollaboratorFactory
	stdout io.Writer
	stderr io.Writer
}

// NewLauncher creates a launcher for the process streams, resolving
// configuration relative to workDir.
func NewLauncher(stdout, stderr io.Writer, workDir string) *Launcher {
	return &Launcher{
		parser: NewCommandLineParser(workDir, stdout),
		build:  wiring.BuildCollaborators,
		stdout: stdout,
		stderr: stderr,
	}
}

// Execute handles args. The error is non-nil only when the engine registry
// fails while listing engines; that fault is left to the caller.
func (l *Launcher) Execute(args []string) (launch.Outcome, error) {
	out := newLockedWriter(l.stdout)
	errOut := newLockedWriter(l.stderr)
	defer func() {
		_ = out.Flush()
		_ = errOut.Flush()
	}()

	lifecycle, err := launch.NewLifecycle(Program)
	if err != nil {
		launch.WriteDiagnostics(errOut, err)
		return launch.InternalFailure(), nil
	}

	opts, err := l.parser.Parse(args)
	if err != nil {
		fmt.Fprintln(errOut, err.Error())
		fmt.Fprintln(errOut)
		l.parser.PrintHelp(errOut, colorsDisabled(args))
		outcome, lerr := lifecycle.Rejected()
		return l.settle(outcome, lerr, nil), nil
	}

	level, _ := wiring.ParseLogLevel(opts.LogLevel)
	logger := wiring.NewLogger(errOut, level)
	logger.Debug("options parsed", "mode", opts.Mode.String(), "details", string(opts.Details))

	if err := lifecycle.Parsed(); err != nil {
		return l.settle(launch.InternalFailure(), err, logger), nil
	}

	theme := application.NewTheme(l.stdout, opts.ColorDisabled)
	collaborators := l.build(wiring.Environment{
		Options: opts,
		Out:     out,
		ErrOut:  errOut,
		Theme:   theme,
		Logger:  logger,
		Level:   level,
	})
	defer func() {
		if err := collaborators.Close(); err != nil {
			logger.Warn("failed to release engines", "error", err)
		}
	}()

	if err := lifecycle.Dispatch(opts.Mode); err != nil {
		return l.settle(launch.InternalFailure(), err, logger), nil
	}

	if opts.Mode == launch.ModeListEngines {
		if err := NewEngineReporter(collaborators.Registry).Report(out); err != nil {
			return launch.InternalFailure(), err
		}
		outcome, lerr := lifecycle.Finish(launch.Success())
		return l.settle(outcome, lerr, logger), nil
	}

	if !opts.BannerDisabled {
		printBanner(out, theme)
	}

	var outcome launch.Outcome
	switch opts.Mode {
	case launch.ModeListTests:
		summary, err := launch.Attempt(func() (*launch.DiscoverySummary, error) {
			return collaborators.Runner.Discover(opts)
		})
		outcome = launch.ClassifyDiscovery(summary, err, opts, errOut, l.parser)
	case launch.ModeShowHelp:
		l.parser.PrintHelp(out, opts.ColorDisabled)
		outcome = launch.Success()
	default:
		summary, err := launch.Attempt(func() (*launch.ExecutionSummary, error) {
			return collaborators.Runner.Execute(opts)
		})
		outcome = launch.ClassifyExecution(summary, err, opts, errOut, l.parser)
	}

	outcome, err = lifecycle.Finish(outcome)
	return l.settle(outcome, err, logger), nil
}

// colorsDisabled reports whether args ask for plain output. It is used when
// the full parse failed, so every other flag is ignored.
func colorsDisabled(args []string) bool {
	fs := pflag.NewFlagSet(Program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsAllowlist.UnknownFlags = true
	fs.BoolP("help", "h", false, "")
	disabled := fs.Bool("disable-ansi-colors", false, "")
	_ = fs.Parse(args)
	return *disabled
}

// settle logs a lifecycle violation without changing the outcome.
func (l *Launcher) settle(outcome launch.Outcome, err error, logger *slog.Logger) launch.Outcome {
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("launch lifecycle violated", "error", err, "outcome", outcome.String())
	}
	return outcome
}
