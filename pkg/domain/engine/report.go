package engine

import "time"

// TestType distinguishes containers (suites, classes) from leaf tests.
type TestType string

const (
	TypeContainer TestType = "container"
	TypeTest      TestType = "test"
)

// Status is the terminal state of a single executed test or container.
type Status string

const (
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
	StatusAborted    Status = "aborted"
	StatusSkipped    Status = "skipped"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccessful, StatusFailed, StatusAborted, StatusSkipped:
		return true
	}
	return false
}

// Request carries the execution parameters handed to every engine of a run.
type Request struct {
	RunID       string            `json:"run_id"`
	Selectors   []string          `json:"selectors,omitempty"`
	IncludeTags []string          `json:"include_tags,omitempty"`
	ExcludeTags []string          `json:"exclude_tags,omitempty"`
	Config      map[string]string `json:"config,omitempty"`
	ReportsDir  string            `json:"reports_dir,omitempty"`
}

// TestDescriptor describes one discovered node of an engine's test tree.
// A node with an empty ParentID hangs directly below the engine root.
type TestDescriptor struct {
	ID          string   `json:"id"`
	ParentID    string   `json:"parent_id,omitempty"`
	DisplayName string   `json:"display_name"`
	Type        TestType `json:"type"`
	Tags        []string `json:"tags,omitempty"`
}

// IsContainer reports whether the node groups other nodes.
func (t TestDescriptor) IsContainer() bool {
	return t.Type == TypeContainer
}

// DiscoveryReport is the read-only result of Discover.
type DiscoveryReport struct {
	EngineID string           `json:"engine_id"`
	Tests    []TestDescriptor `json:"tests"`
}

// TestResult is the outcome of a single executed node.
type TestResult struct {
	TestDescriptor
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ExecutionReport is the result of Execute.
type ExecutionReport struct {
	EngineID string       `json:"engine_id"`
	Results  []TestResult `json:"results"`
}
