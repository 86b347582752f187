package launch

// Exit codes returned by the testlaunch binary. Build systems and CI depend
// on these values; they must never be renumbered.
const (
	// ExitSuccess covers clean runs, listings and help.
	ExitSuccess = 0
	// ExitTestsFailed indicates at least one test or container failed.
	ExitTestsFailed = 1
	// ExitNoTestsFound indicates an empty selection under --fail-if-no-tests.
	ExitNoTestsFound = 2
	// ExitConfigurationError indicates malformed arguments or configuration.
	ExitConfigurationError = 3
	// ExitInternalError indicates the runner faulted.
	ExitInternalError = 4
	// ExitAbnormal is used only by the binary when an unhandled fault
	// reaches the process boundary.
	ExitAbnormal = 5
)

// Kind classifies an Outcome.
type Kind int

const (
	Succeeded Kind = iota
	FailedWithSummary
	FailedInternally
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case FailedWithSummary:
		return "failed-with-summary"
	case FailedInternally:
		return "failed-internally"
	default:
		return "unknown"
	}
}

// Outcome is the final result of one invocation. Its fields are unexported
// so a constructed value cannot change.
type Outcome struct {
	kind     Kind
	exitCode int
}

// Success is the outcome of a clean run, listing or help.
func Success() Outcome {
	return Outcome{kind: Succeeded, exitCode: ExitSuccess}
}

// TestsFailed is the outcome of a completed run that reported failures.
func TestsFailed() Outcome {
	return Outcome{kind: FailedWithSummary, exitCode: ExitTestsFailed}
}

// NoTestsFound is the outcome of an empty selection under strict mode.
func NoTestsFound() Outcome {
	return Outcome{kind: FailedWithSummary, exitCode: ExitNoTestsFound}
}

// ConfigurationFailure is the outcome of a parse or configuration error.
func ConfigurationFailure() Outcome {
	return Outcome{kind: FailedInternally, exitCode: ExitConfigurationError}
}

// InternalFailure is the outcome of a runner fault.
func InternalFailure() Outcome {
	return Outcome{kind: FailedInternally, exitCode: ExitInternalError}
}

func (o Outcome) Kind() Kind    { return o.kind }
func (o Outcome) ExitCode() int { return o.exitCode }

// IsSuccess reports whether the outcome maps to exit code 0.
func (o Outcome) IsSuccess() bool { return o.exitCode == ExitSuccess }

func (o Outcome) String() string {
	return o.kind.String()
}
