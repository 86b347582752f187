// Package contract provides contract test assertions for testlaunch engine plugins.
package contract

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
)

// unmatchedSelector is a selector no engine is expected to resolve.
const unmatchedSelector = "contract:no-such-test-7f3d"

// Result captures the outcome of a single contract assertion.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// AssertDescriptor verifies the engine reports a usable identifier.
func AssertDescriptor(e engine.TestEngine) Result {
	id := e.Descriptor().ID
	if id == "" {
		return Result{Name: "Descriptor", Passed: false, Message: "engine reported an empty id"}
	}
	if strings.ContainsAny(id, " \t\n") {
		return Result{Name: "Descriptor", Passed: false, Message: fmt.Sprintf("engine id %q contains whitespace", id)}
	}
	return Result{Name: "Descriptor", Passed: true, Message: fmt.Sprintf("engine id %q", id)}
}

// AssertInitWithBadConfig verifies that Init rejects fail=true. Engines
// without configuration pass trivially.
func AssertInitWithBadConfig(e engine.TestEngine) Result {
	c, ok := e.(engine.Configurable)
	if !ok {
		return Result{Name: "InitWithBadConfig", Passed: true, Message: "engine takes no configuration"}
	}
	err := c.Init(map[string]string{"fail": "true"})
	if err == nil {
		return Result{Name: "InitWithBadConfig", Passed: false, Message: "expected Init to fail with fail=true config"}
	}
	// restore a usable configuration for the remaining assertions
	_ = c.Init(map[string]string{})
	return Result{Name: "InitWithBadConfig", Passed: true, Message: fmt.Sprintf("Init correctly failed: %v", err)}
}

// AssertDiscoverReportsEngine verifies Discover answers for the engine's own id.
func AssertDiscoverReportsEngine(e engine.TestEngine) Result {
	report, err := e.Discover(&engine.Request{RunID: "contract"})
	if err != nil {
		return Result{Name: "DiscoverReportsEngine", Passed: false, Message: fmt.Sprintf("Discover failed: %v", err)}
	}
	if report == nil {
		return Result{Name: "DiscoverReportsEngine", Passed: false, Message: "Discover returned nil report"}
	}
	if report.EngineID != e.Descriptor().ID {
		return Result{Name: "DiscoverReportsEngine", Passed: false, Message: fmt.Sprintf("report engine id %q does not match descriptor %q", report.EngineID, e.Descriptor().ID)}
	}
	return Result{Name: "DiscoverReportsEngine", Passed: true, Message: fmt.Sprintf("Discover found %d nodes", len(report.Tests))}
}

// AssertDiscoveryTreeConsistent verifies ids are unique and every parent is
// a discovered container.
func AssertDiscoveryTreeConsistent(e engine.TestEngine) Result {
	report, err := e.Discover(&engine.Request{RunID: "contract"})
	if err != nil || report == nil {
		return Result{Name: "DiscoveryTreeConsistent", Passed: false, Message: fmt.Sprintf("Discover failed: %v", err)}
	}

	nodes := make(map[string]engine.TestDescriptor, len(report.Tests))
	for _, t := range report.Tests {
		if _, dup := nodes[t.ID]; dup {
			return Result{Name: "DiscoveryTreeConsistent", Passed: false, Message: fmt.Sprintf("duplicate test id %q", t.ID)}
		}
		nodes[t.ID] = t
	}
	for _, t := range report.Tests {
		if t.ParentID == "" {
			continue
		}
		parent, ok := nodes[t.ParentID]
		if !ok {
			return Result{Name: "DiscoveryTreeConsistent", Passed: false, Message: fmt.Sprintf("test %q has unknown parent %q", t.ID, t.ParentID)}
		}
		if !parent.IsContainer() {
			return Result{Name: "DiscoveryTreeConsistent", Passed: false, Message: fmt.Sprintf("parent %q of %q is not a container", parent.ID, t.ID)}
		}
	}
	return Result{Name: "DiscoveryTreeConsistent", Passed: true, Message: "discovery tree is consistent"}
}

// AssertExecuteCoversDiscovery verifies every discovered test is executed
// with a known status.
func AssertExecuteCoversDiscovery(e engine.TestEngine) Result {
	discovered, err := e.Discover(&engine.Request{RunID: "contract"})
	if err != nil || discovered == nil {
		return Result{Name: "ExecuteCoversDiscovery", Passed: false, Message: fmt.Sprintf("Discover failed: %v", err)}
	}
	executed, err := e.Execute(&engine.Request{RunID: "contract"})
	if err != nil {
		return Result{Name: "ExecuteCoversDiscovery", Passed: false, Message: fmt.Sprintf("Execute failed: %v", err)}
	}
	if executed == nil {
		return Result{Name: "ExecuteCoversDiscovery", Passed: false, Message: "Execute returned nil report"}
	}

	statuses := make(map[string]engine.Status, len(executed.Results))
	for _, r := range executed.Results {
		if !r.Status.Valid() {
			return Result{Name: "ExecuteCoversDiscovery", Passed: false, Message: fmt.Sprintf("result %q has invalid status %q", r.ID, r.Status)}
		}
		statuses[r.ID] = r.Status
	}
	for _, t := range discovered.Tests {
		if _, ok := statuses[t.ID]; !ok {
			return Result{Name: "ExecuteCoversDiscovery", Passed: false, Message: fmt.Sprintf("discovered test %q was not executed", t.ID)}
		}
	}
	return Result{Name: "ExecuteCoversDiscovery", Passed: true, Message: fmt.Sprintf("Execute returned %d results", len(executed.Results))}
}

// AssertUnmatchedSelectorIsEmpty verifies a selector matching nothing
// yields an empty discovery rather than an error.
func AssertUnmatchedSelectorIsEmpty(e engine.TestEngine) Result {
	report, err := e.Discover(&engine.Request{RunID: "contract", Selectors: []string{unmatchedSelector}})
	if err != nil {
		return Result{Name: "UnmatchedSelectorIsEmpty", Passed: false, Message: fmt.Sprintf("Discover failed: %v", err)}
	}
	if report == nil {
		return Result{Name: "UnmatchedSelectorIsEmpty", Passed: false, Message: "Discover returned nil report"}
	}
	for _, t := range report.Tests {
		if !t.IsContainer() {
			return Result{Name: "UnmatchedSelectorIsEmpty", Passed: false, Message: fmt.Sprintf("unmatched selector discovered test %q", t.ID)}
		}
	}
	return Result{Name: "UnmatchedSelectorIsEmpty", Passed: true, Message: "no tests discovered for unmatched selector"}
}
