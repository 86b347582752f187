package launch

import (
	"time"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// DiscoverySummary counts what a discovery found.
type DiscoverySummary struct {
	ContainersFound int
	TestsFound      int
}

// Failure records one failed test or container.
type Failure struct {
	TestID      string
	DisplayName string
	Message     string
	Container   bool
}

// ExecutionSummary aggregates the results of a run across all engines.
type ExecutionSummary struct {
	TimeStarted  time.Time
	TimeFinished time.Time

	ContainersFound     int
	ContainersSucceeded int
	ContainersFailed    int
	ContainersAborted   int
	ContainersSkipped   int

	TestsFound     int
	TestsStarted   int
	TestsSucceeded int
	TestsFailed    int
	TestsAborted   int
	TestsSkipped   int

	Failures []Failure
}

// TotalFailureCount is the number of failed tests and containers.
func (s *ExecutionSummary) TotalFailureCount() int {
	return s.TestsFailed + s.ContainersFailed
}

// Duration is the wall time of the run.
func (s *ExecutionSummary) Duration() time.Duration {
	if s.TimeFinished.Before(s.TimeStarted) {
		return 0
	}
	return s.TimeFinished.Sub(s.TimeStarted)
}

// Record folds a single engine result into the summary.
func (s *ExecutionSummary) Record(r engine.TestResult) {
	if r.IsContainer() {
		s.ContainersFound++
		switch r.Status {
		case engine.StatusSuccessful:
			s.ContainersSucceeded++
		case engine.StatusFailed:
			s.ContainersFailed++
		case engine.StatusAborted:
			s.ContainersAborted++
		case engine.StatusSkipped:
			s.ContainersSkipped++
		}
	} else {
		s.TestsFound++
		if r.Status != engine.StatusSkipped {
			s.TestsStarted++
		}
		switch r.Status {
		case engine.StatusSuccessful:
			s.TestsSucceeded++
		case engine.StatusFailed:
			s.TestsFailed++
		case engine.StatusAborted:
			s.TestsAborted++
		case engine.StatusSkipped:
			s.TestsSkipped++
		}
	}

	if r.Status == engine.StatusFailed {
		s.Failures = append(s.Failures, Failure{
			TestID:      r.ID,
			DisplayName: r.DisplayName,
			Message:     r.Message,
			Container:   r.IsContainer(),
		})
	}
}
