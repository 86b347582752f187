package application

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
	"github.com/google/uuid"
)

// ErrNoEngines is returned when filtering leaves no engine to run.
var ErrNoEngines = errors.New("no test engines available")

// TestExecutor runs discovery and execution across every registered engine
// and aggregates the results.
type TestExecutor struct {
	registry engine.Registry
	out      io.Writer
	theme    Theme
	logger   *slog.Logger
	now      func() time.Time
	newRunID func() string
}

var _ launch.TestRunner = (*TestExecutor)(nil)

// NewTestExecutor creates an executor printing to out.
func NewTestExecutor(registry engine.Registry, out io.Writer, theme Theme, logger *slog.Logger) *TestExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TestExecutor{
		registry: registry,
		out:      out,
		theme:    theme,
		logger:   logger,
		now:      time.Now,
		newRunID: func() string { return uuid.NewString() },
	}
}

// Discover lists the tests of every selected engine.
func (x *TestExecutor) Discover(opts *launch.Options) (*launch.DiscoverySummary, error) {
	engines, err := x.selectEngines(opts.Params)
	if err != nil {
		return nil, err
	}

	req := opts.Params.Request(x.newRunID())
	printer := NewConsolePrinter(x.out, x.theme, opts.Details)
	summary := &launch.DiscoverySummary{}

	x.logger.Debug("discovering tests", "run_id", req.RunID, "engines", len(engines))
	printer.PrintDiscoveryStart()
	for _, e := range engines {
		desc := e.Descriptor()
		report, err := e.Discover(req)
		if err != nil {
			return nil, fmt.Errorf("engine %q: discovery failed: %w", desc.ID, err)
		}
		if report == nil {
			return nil, fmt.Errorf("engine %q: discovery returned no report", desc.ID)
		}
		printer.PrintDiscovery(desc, report)
		for _, t := range report.Tests {
			if t.IsContainer() {
				summary.ContainersFound++
			} else {
				summary.TestsFound++
			}
		}
	}
	printer.PrintDiscoverySummary(summary)
	return summary, nil
}

// Execute runs the tests of every selected engine.
func (x *TestExecutor) Execute(opts *launch.Options) (*launch.ExecutionSummary, error) {
	engines, err := x.selectEngines(opts.Params)
	if err != nil {
		return nil, err
	}

	req := opts.Params.Request(x.newRunID())
	printer := NewConsolePrinter(x.out, x.theme, opts.Details)
	summary := &launch.ExecutionSummary{TimeStarted: x.now()}

	x.logger.Debug("executing tests", "run_id", req.RunID, "engines", len(engines))
	printer.PrintExecutionStart()
	for _, e := range engines {
		desc := e.Descriptor()
		report, err := e.Execute(req)
		if err != nil {
			return nil, fmt.Errorf("engine %q: execution failed: %w", desc.ID, err)
		}
		if report == nil {
			return nil, fmt.Errorf("engine %q: execution returned no report", desc.ID)
		}
		for _, r := range report.Results {
			if !r.Status.Valid() {
				return nil, fmt.Errorf("engine %q: test %q has invalid status %q", desc.ID, r.ID, r.Status)
			}
			summary.Record(r)
		}
		printer.PrintExecution(desc, report)
	}
	summary.TimeFinished = x.now()

	printer.PrintExecutionSummary(summary)
	x.logger.Debug("execution finished", "run_id", req.RunID,
		"tests", summary.TestsFound, "failures", summary.TotalFailureCount())
	return summary, nil
}

// selectEngines loads the registry and applies the include/exclude filters.
func (x *TestExecutor) selectEngines(params launch.ExecutionParameters) ([]engine.TestEngine, error) {
	if x.registry == nil {
		return nil, ErrNoEngines
	}
	all, err := x.registry.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load engines: %w", err)
	}

	include := toSet(params.IncludeEngines)
	exclude := toSet(params.ExcludeEngines)
	seen := make(map[string]bool, len(all))

	selected := make([]engine.TestEngine, 0, len(all))
	for _, e := range all {
		id := e.Descriptor().ID
		seen[id] = true
		if len(include) > 0 && !include[id] {
			continue
		}
		if exclude[id] {
			continue
		}
		selected = append(selected, e)
	}
	for _, id := range params.IncludeEngines {
		if !seen[id] {
			x.logger.Warn("included engine not found", "engine", id)
		}
	}

	if len(selected) == 0 {
		return nil, ErrNoEngines
	}
	engine.SortByID(selected)
	return selected, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
