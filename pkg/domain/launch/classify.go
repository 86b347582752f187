package launch

import (
	"errors"
	"fmt"
	"io"
)

// HelpPrinter renders help text. The classifier uses it on fault paths.
type HelpPrinter interface {
	PrintHelp(w io.Writer, colorDisabled bool)
}

// ForSummary maps a completed execution to an outcome. Failures take
// precedence; an empty run only fails under strict mode.
func ForSummary(summary *ExecutionSummary, opts *Options) Outcome {
	if summary.TotalFailureCount() > 0 {
		return TestsFailed()
	}
	if opts.FailIfNoTests && summary.TestsFound == 0 {
		return NoTestsFound()
	}
	return Success()
}

// ForDiscovery maps a completed discovery to an outcome. An empty suite is
// not an error unless strict mode asks for it.
func ForDiscovery(summary *DiscoverySummary, opts *Options) Outcome {
	if opts.FailIfNoTests && summary.TestsFound == 0 {
		return NoTestsFound()
	}
	return Success()
}

// ForFault reports a runner fault on errOut, followed by help, and returns
// the internal-error outcome. Every fault is treated the same way.
func ForFault(err error, opts *Options, errOut io.Writer, help HelpPrinter) Outcome {
	WriteDiagnostics(errOut, err)
	fmt.Fprintln(errOut)
	help.PrintHelp(errOut, opts.ColorDisabled)
	return InternalFailure()
}

// ClassifyExecution classifies the result of a delegated Execute call.
func ClassifyExecution(summary *ExecutionSummary, err error, opts *Options, errOut io.Writer, help HelpPrinter) Outcome {
	if err == nil && summary == nil {
		err = errors.New("test runner returned no execution summary")
	}
	if err != nil {
		return ForFault(err, opts, errOut, help)
	}
	return ForSummary(summary, opts)
}

// ClassifyDiscovery classifies the result of a delegated Discover call.
func ClassifyDiscovery(summary *DiscoverySummary, err error, opts *Options, errOut io.Writer, help HelpPrinter) Outcome {
	if err == nil && summary == nil {
		err = errors.New("test runner returned no discovery summary")
	}
	if err != nil {
		return ForFault(err, opts, errOut, help)
	}
	return ForDiscovery(summary, opts)
}
