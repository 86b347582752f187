// Command testlaunch-engine-fixture is a test engine plugin that reports a
// suite declared entirely in its configuration. It is used to exercise the
// launcher end to end and as a template for real engines.
//
// Configuration keys:
//
//	id     engine id (default "fixture")
//	suite  display name of the single container (default "Fixture")
//	tests  comma-separated name=status[@tag+tag] entries, status one of
//	       pass, fail, skip, abort (default "example=pass")
//	fail   "true" makes Init fail
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	infraPlugin "github.com/felixgeelhaar/testlaunch/pkg/plugin"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// logger writes JSON to stderr so the host re-levels each line.
var logger = hclog.New(&hclog.LoggerOptions{
	Name:       "fixture",
	Level:      hclog.Debug,
	Output:     os.Stderr,
	JSONFormat: true,
})

const version = "0.1.0"

type fixtureTest struct {
	name   string
	status engine.Status
	tags   []string
}

// FixtureEngine serves a configured, static suite.
type FixtureEngine struct {
	id    string
	suite string
	tests []fixtureTest
}

func NewFixtureEngine() *FixtureEngine {
	e := &FixtureEngine{}
	if err := e.Init(map[string]string{}); err != nil {
		panic(err)
	}
	return e
}

func (e *FixtureEngine) Init(config map[string]string) error {
	if config["fail"] == "true" {
		return fmt.Errorf("fixture engine configured to fail")
	}

	e.id = valueOr(config["id"], "fixture")
	e.suite = valueOr(config["suite"], "Fixture")

	tests, err := parseTests(valueOr(config["tests"], "example=pass"))
	if err != nil {
		return err
	}
	e.tests = tests
	return nil
}

func (e *FixtureEngine) Descriptor() engine.Descriptor {
	return engine.Descriptor{
		ID:         e.id,
		GroupID:    "dev.testlaunch",
		ArtifactID: "fixture-engine",
		Version:    version,
	}
}

func (e *FixtureEngine) Discover(req *engine.Request) (*engine.DiscoveryReport, error) {
	report := &engine.DiscoveryReport{EngineID: e.id}
	report.Tests = append(report.Tests, e.container())
	for _, t := range e.selected(req) {
		report.Tests = append(report.Tests, e.descriptor(t))
	}
	return report, nil
}

func (e *FixtureEngine) Execute(req *engine.Request) (*engine.ExecutionReport, error) {
	logger.Debug("executing suite", "run_id", req.RunID, "suite", e.suite)

	report := &engine.ExecutionReport{EngineID: e.id}
	report.Results = append(report.Results, engine.TestResult{
		TestDescriptor: e.container(),
		Status:         engine.StatusSuccessful,
	})
	for _, t := range e.selected(req) {
		r := engine.TestResult{
			TestDescriptor: e.descriptor(t),
			Status:         t.status,
			Duration:       time.Millisecond,
		}
		switch t.status {
		case engine.StatusFailed:
			r.Message = fmt.Sprintf("expected %s to pass", t.name)
		case engine.StatusSkipped:
			r.Message = "skipped by fixture configuration"
		case engine.StatusAborted:
			r.Message = "aborted by fixture configuration"
		}
		report.Results = append(report.Results, r)
	}
	return report, nil
}

func (e *FixtureEngine) container() engine.TestDescriptor {
	return engine.TestDescriptor{ID: e.id + ":" + e.suite, DisplayName: e.suite, Type: engine.TypeContainer}
}

func (e *FixtureEngine) descriptor(t fixtureTest) engine.TestDescriptor {
	return engine.TestDescriptor{
		ID:          e.id + ":" + e.suite + "/" + t.name,
		ParentID:    e.id + ":" + e.suite,
		DisplayName: t.name,
		Type:        engine.TypeTest,
		Tags:        t.tags,
	}
}

// selected applies selectors (test name, optionally prefixed with the
// engine id) and tag filters.
func (e *FixtureEngine) selected(req *engine.Request) []fixtureTest {
	var out []fixtureTest
	for _, t := range e.tests {
		if len(req.Selectors) > 0 && !e.matchesSelector(t, req.Selectors) {
			continue
		}
		if len(req.IncludeTags) > 0 && !hasAny(t.tags, req.IncludeTags) {
			continue
		}
		if hasAny(t.tags, req.ExcludeTags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (e *FixtureEngine) matchesSelector(t fixtureTest, selectors []string) bool {
	for _, s := range selectors {
		if s == t.name || s == e.id+":"+t.name {
			return true
		}
	}
	return false
}

func parseTests(list string) ([]fixtureTest, error) {
	var tests []fixtureTest
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid test entry %q (expected name=status)", entry)
		}
		statusName, tagList, _ := strings.Cut(rest, "@")
		status, err := parseStatus(statusName)
		if err != nil {
			return nil, fmt.Errorf("test %q: %w", name, err)
		}
		t := fixtureTest{name: name, status: status}
		if tagList != "" {
			t.tags = strings.Split(tagList, "+")
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func parseStatus(s string) (engine.Status, error) {
	switch s {
	case "pass":
		return engine.StatusSuccessful, nil
	case "fail":
		return engine.StatusFailed, nil
	case "skip":
		return engine.StatusSkipped, nil
	case "abort":
		return engine.StatusAborted, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func hasAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: infraPlugin.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			infraPlugin.EngineKey: &engine.EnginePlugin{Impl: NewFixtureEngine()},
		},
	})
}
