package launch

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

func result(id string, typ engine.TestType, status engine.Status) engine.TestResult {
	return engine.TestResult{
		TestDescriptor: engine.TestDescriptor{ID: id, DisplayName: id, Type: typ},
		Status:         status,
		Message:        "msg-" + id,
	}
}

func TestExecutionSummary_Record(t *testing.T) {
	var s ExecutionSummary
	for _, r := range []engine.TestResult{
		result("suite", engine.TypeContainer, engine.StatusSuccessful),
		result("broken-suite", engine.TypeContainer, engine.StatusFailed),
		result("a", engine.TypeTest, engine.StatusSuccessful),
		result("b", engine.TypeTest, engine.StatusFailed),
		result("c", engine.TypeTest, engine.StatusSkipped),
		result("d", engine.TypeTest, engine.StatusAborted),
	} {
		s.Record(r)
	}

	if s.ContainersFound != 2 || s.ContainersFailed != 1 || s.ContainersSucceeded != 1 {
		t.Errorf("container counts wrong: %+v", s)
	}
	if s.TestsFound != 4 || s.TestsStarted != 3 || s.TestsSkipped != 1 {
		t.Errorf("test counts wrong: %+v", s)
	}
	if s.TestsSucceeded != 1 || s.TestsFailed != 1 || s.TestsAborted != 1 {
		t.Errorf("status counts wrong: %+v", s)
	}
	if s.TotalFailureCount() != 2 {
		t.Errorf("TotalFailureCount = %d, want 2", s.TotalFailureCount())
	}
	if len(s.Failures) != 2 || !s.Failures[0].Container || s.Failures[1].Message != "msg-b" {
		t.Errorf("unexpected failures: %+v", s.Failures)
	}
}

func TestExecutionSummary_Duration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := ExecutionSummary{TimeStarted: start, TimeFinished: start.Add(1500 * time.Millisecond)}
	if s.Duration() != 1500*time.Millisecond {
		t.Errorf("Duration = %v", s.Duration())
	}
	s.TimeFinished = start.Add(-time.Second)
	if s.Duration() != 0 {
		t.Errorf("negative duration should clamp to 0, got %v", s.Duration())
	}
}
