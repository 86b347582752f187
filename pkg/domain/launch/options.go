package launch

import (
	"fmt"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// Mode is the single run mode an invocation resolves to.
type Mode int

const (
	ModeExecute Mode = iota
	ModeListEngines
	ModeListTests
	ModeShowHelp
)

func (m Mode) String() string {
	switch m {
	case ModeExecute:
		return "execute"
	case ModeListEngines:
		return "list-engines"
	case ModeListTests:
		return "list-tests"
	case ModeShowHelp:
		return "show-help"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ResolveMode picks the mode for a set of independent mode flags.
// Priority is fixed: list-engines, then list-tests, then help, then execute.
func ResolveMode(listEngines, listTests, showHelp bool) Mode {
	switch {
	case listEngines:
		return ModeListEngines
	case listTests:
		return ModeListTests
	case showHelp:
		return ModeShowHelp
	default:
		return ModeExecute
	}
}

// Details controls how much per-test output the runner prints.
type Details string

const (
	DetailsNone    Details = "none"
	DetailsSummary Details = "summary"
	DetailsFlat    Details = "flat"
	DetailsTree    Details = "tree"
	DetailsVerbose Details = "verbose"
)

// ParseDetails validates a details mode name.
func ParseDetails(s string) (Details, error) {
	switch d := Details(s); d {
	case DetailsNone, DetailsSummary, DetailsFlat, DetailsTree, DetailsVerbose:
		return d, nil
	}
	return "", fmt.Errorf("invalid details mode %q (expected none, summary, flat, tree or verbose)", s)
}

// ExecutionParameters is passed through to the runner untouched.
type ExecutionParameters struct {
	Selectors      []string
	IncludeEngines []string
	ExcludeEngines []string
	IncludeTags    []string
	ExcludeTags    []string
	Config         map[string]string
	ReportsDir     string
}

// Options is the validated intent of one invocation. It is produced once by
// the parser and read-only afterwards.
type Options struct {
	Mode           Mode
	BannerDisabled bool
	ColorDisabled  bool
	FailIfNoTests  bool
	Details        Details
	LogLevel       string
	Params         ExecutionParameters
	Engines        *engine.Configs
}

// Request builds the engine request for a run.
func (p ExecutionParameters) Request(runID string) *engine.Request {
	config := make(map[string]string, len(p.Config))
	for k, v := range p.Config {
		config[k] = v
	}
	return &engine.Request{
		RunID:       runID,
		Selectors:   append([]string(nil), p.Selectors...),
		IncludeTags: append([]string(nil), p.IncludeTags...),
		ExcludeTags: append([]string(nil), p.ExcludeTags...),
		Config:      config,
		ReportsDir:  p.ReportsDir,
	}
}
