package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/felixgeelhaar/testlaunch/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
)

type namedEngine struct{ desc engine.Descriptor }

func (e namedEngine) Descriptor() engine.Descriptor { return e.desc }

func (e namedEngine) Discover(*engine.Request) (*engine.DiscoveryReport, error) {
	return &engine.DiscoveryReport{EngineID: e.desc.ID}, nil
}

func (e namedEngine) Execute(*engine.Request) (*engine.ExecutionReport, error) {
	return &engine.ExecutionReport{EngineID: e.desc.ID}, nil
}

type fakeRegistry struct {
	engines   []engine.TestEngine
	err       error
	panicWith any
	closed    int
}

func (r *fakeRegistry) LoadAll() ([]engine.TestEngine, error) {
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	return r.engines, r.err
}

func (r *fakeRegistry) Close() error {
	r.closed++
	return nil
}

type fakeRunner struct {
	discovery *launch.DiscoverySummary
	execution *launch.ExecutionSummary
	err       error
	panicWith any
	output    string
	calls     int
	out       *bytes.Buffer
}

func (r *fakeRunner) Discover(*launch.Options) (*launch.DiscoverySummary, error) {
	r.calls++
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	return r.discovery, r.err
}

func (r *fakeRunner) Execute(*launch.Options) (*launch.ExecutionSummary, error) {
	r.calls++
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	return r.execution, r.err
}

// countingWriter records how many writes reached the process stream.
type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

type harness struct {
	launcher *Launcher
	stdout   *countingWriter
	stderr   *countingWriter
	registry *fakeRegistry
	runner   *fakeRunner
	built    int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		stdout:   &countingWriter{},
		stderr:   &countingWriter{},
		registry: &fakeRegistry{},
		runner:   &fakeRunner{execution: &launch.ExecutionSummary{TestsFound: 1, TestsSucceeded: 1}, discovery: &launch.DiscoverySummary{TestsFound: 1}},
	}
	parser := NewCommandLineParser(t.TempDir(), h.stdout)
	parser.getenv = func(string) string { return "" }
	h.launcher = &Launcher{
		parser: parser,
		build: func(env wiring.Environment) *wiring.Collaborators {
			h.built++
			if h.runner.output != "" {
				_, _ = env.Out.Write([]byte(h.runner.output))
			}
			return &wiring.Collaborators{Registry: h.registry, Runner: h.runner}
		},
		stdout: h.stdout,
		stderr: h.stderr,
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) launch.Outcome {
	t.Helper()
	outcome, err := h.launcher.Execute(args)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return outcome
}

func TestLauncher_ListEngines(t *testing.T) {
	h := newHarness(t)
	h.registry.engines = []engine.TestEngine{
		namedEngine{engine.Descriptor{ID: "b"}},
		namedEngine{engine.Descriptor{ID: "a", GroupID: "org.example", ArtifactID: "a-engine", Version: "1.0"}},
	}

	outcome := h.run(t, "--list-engines")

	if outcome.ExitCode() != launch.ExitSuccess || outcome.Kind() != launch.Succeeded {
		t.Errorf("unexpected outcome %v", outcome)
	}
	if got, want := h.stdout.String(), "a (org.example:a-engine:1.0)\nb\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("expected empty stderr, got %q", h.stderr.String())
	}
	if h.runner.calls != 0 {
		t.Error("runner must not be invoked when listing engines")
	}
	if h.registry.closed != 1 {
		t.Errorf("expected registry closed once, got %d", h.registry.closed)
	}
}

func TestLauncher_ListEnginesWinsOverOtherModes(t *testing.T) {
	h := newHarness(t)
	h.registry.engines = []engine.TestEngine{namedEngine{engine.Descriptor{ID: "only"}}}

	outcome := h.run(t, "--help", "--list-tests", "--list-engines")

	if outcome.ExitCode() != launch.ExitSuccess {
		t.Errorf("expected success, got %v", outcome)
	}
	if got := h.stdout.String(); got != "only\n" {
		t.Errorf("expected engine listing only, got %q", got)
	}
}

func TestLauncher_ListEnginesRegistryFault(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("registry exploded")
	h.registry.err = boom

	_, err := h.launcher.Execute([]string{"--list-engines"})

	if !errors.Is(err, boom) {
		t.Fatalf("expected registry fault to propagate, got %v", err)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("registry fault must not be reported by the launcher, got %q", h.stderr.String())
	}
}

func TestLauncher_ParseFailure(t *testing.T) {
	for _, args := range [][]string{
		{"--bogus"},
		{"stray-argument"},
		{"--config", "novalue"},
		{"--details", "loud"},
		{"--log-level", "chatty"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			h := newHarness(t)

			outcome := h.run(t, args...)

			if outcome.ExitCode() != launch.ExitConfigurationError || outcome.Kind() != launch.FailedInternally {
				t.Errorf("unexpected outcome %v", outcome)
			}
			if h.stdout.Len() != 0 {
				t.Errorf("expected empty stdout, got %q", h.stdout.String())
			}
			stderr := h.stderr.String()
			if !strings.Contains(stderr, "\n\nUsage:") {
				t.Errorf("expected message, blank line and help on stderr, got %q", stderr)
			}
			if h.built != 0 {
				t.Error("no collaborators may be built after a parse failure")
			}
		})
	}
}

func TestLauncher_ParseFailureNamesFlag(t *testing.T) {
	h := newHarness(t)
	h.run(t, "--bogus")
	if !strings.HasPrefix(h.stderr.String(), "invalid command line: unknown flag: --bogus") {
		t.Errorf("unexpected stderr %q", h.stderr.String())
	}
}

func TestLauncher_Execute(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		summary  *launch.ExecutionSummary
		wantCode int
		wantKind launch.Kind
	}{
		{
			name:     "clean run",
			summary:  &launch.ExecutionSummary{TestsFound: 3, TestsSucceeded: 3},
			wantCode: launch.ExitSuccess,
			wantKind: launch.Succeeded,
		},
		{
			name:     "failures",
			summary:  &launch.ExecutionSummary{TestsFound: 5, TestsFailed: 3},
			wantCode: launch.ExitTestsFailed,
			wantKind: launch.FailedWithSummary,
		},
		{
			name:     "container failure",
			summary:  &launch.ExecutionSummary{ContainersFailed: 1},
			wantCode: launch.ExitTestsFailed,
			wantKind: launch.FailedWithSummary,
		},
		{
			name:     "failures win over strict mode",
			args:     []string{"--fail-if-no-tests"},
			summary:  &launch.ExecutionSummary{ContainersFailed: 1},
			wantCode: launch.ExitTestsFailed,
			wantKind: launch.FailedWithSummary,
		},
		{
			name:     "empty run",
			summary:  &launch.ExecutionSummary{},
			wantCode: launch.ExitSuccess,
			wantKind: launch.Succeeded,
		},
		{
			name:     "empty run strict",
			args:     []string{"--fail-if-no-tests"},
			summary:  &launch.ExecutionSummary{},
			wantCode: launch.ExitNoTestsFound,
			wantKind: launch.FailedWithSummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.runner.execution = tt.summary

			outcome := h.run(t, tt.args...)

			if outcome.ExitCode() != tt.wantCode || outcome.Kind() != tt.wantKind {
				t.Errorf("expected %d/%v, got %v", tt.wantCode, tt.wantKind, outcome)
			}
			if h.runner.calls != 1 {
				t.Errorf("expected one runner call, got %d", h.runner.calls)
			}
			if h.stderr.Len() != 0 {
				t.Errorf("semantic failures print no diagnostics, got %q", h.stderr.String())
			}
		})
	}
}

func TestLauncher_ListTests(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		found    int
		wantCode int
	}{
		{name: "tests found", found: 4, wantCode: launch.ExitSuccess},
		{name: "empty suite", found: 0, wantCode: launch.ExitSuccess},
		{name: "empty suite strict", args: []string{"--fail-if-no-tests"}, found: 0, wantCode: launch.ExitNoTestsFound},
		{name: "tests found strict", args: []string{"--fail-if-no-tests"}, found: 1, wantCode: launch.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.runner.discovery = &launch.DiscoverySummary{TestsFound: tt.found}

			outcome := h.run(t, append([]string{"--list-tests"}, tt.args...)...)

			if outcome.ExitCode() != tt.wantCode {
				t.Errorf("expected %d, got %v", tt.wantCode, outcome)
			}
		})
	}
}

func TestLauncher_BannerPrecedesOutput(t *testing.T) {
	h := newHarness(t)
	h.launcher.build = func(env wiring.Environment) *wiring.Collaborators {
		return &wiring.Collaborators{Registry: h.registry, Runner: printingRunner{out: env.Out}}
	}

	h.run(t)

	out := h.stdout.String()
	banner := strings.Index(out, "Thanks for using testlaunch!")
	runner := strings.Index(out, "runner output")
	if banner < 0 || runner < 0 || banner > runner {
		t.Errorf("expected banner before runner output, got %q", out)
	}
}

type printingRunner struct{ out io.Writer }

func (r printingRunner) Discover(*launch.Options) (*launch.DiscoverySummary, error) {
	_, _ = r.out.Write([]byte("runner output\n"))
	return &launch.DiscoverySummary{}, nil
}

func (r printingRunner) Execute(*launch.Options) (*launch.ExecutionSummary, error) {
	_, _ = r.out.Write([]byte("runner output\n"))
	return &launch.ExecutionSummary{}, nil
}

func TestLauncher_DisableBanner(t *testing.T) {
	h := newHarness(t)
	h.run(t, "--disable-banner")
	if strings.Contains(h.stdout.String(), "Thanks for using") {
		t.Errorf("banner printed despite --disable-banner: %q", h.stdout.String())
	}
}

func TestLauncher_Help(t *testing.T) {
	h := newHarness(t)

	outcome := h.run(t, "--help")

	if outcome.ExitCode() != launch.ExitSuccess {
		t.Errorf("expected success, got %v", outcome)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "Thanks for using testlaunch!") || !strings.Contains(out, "--list-engines") {
		t.Errorf("expected banner and help on stdout, got %q", out)
	}
	if h.runner.calls != 0 {
		t.Error("runner must not be invoked for help")
	}
}

func TestLauncher_RunnerFault(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name      string
		args      []string
		err       error
		panicWith any
		want      []string
	}{
		{name: "error", err: fmt.Errorf("engine crashed: %w", cause), want: []string{"engine crashed", "  Caused by: disk on fire"}},
		{name: "joined errors", err: errors.Join(errors.New("first"), errors.New("second")), want: []string{"first", "second"}},
		{name: "panic", panicWith: "kaboom", want: []string{"kaboom", "goroutine"}},
		{name: "discovery error", args: []string{"--list-tests"}, err: cause, want: []string{"disk on fire"}},
		{name: "discovery panic", args: []string{"--list-tests"}, panicWith: cause, want: []string{"disk on fire"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.runner.execution = nil
			h.runner.discovery = nil
			h.runner.err = tt.err
			h.runner.panicWith = tt.panicWith

			outcome := h.run(t, append([]string{"--disable-banner"}, tt.args...)...)

			if outcome.ExitCode() != launch.ExitInternalError || outcome.Kind() != launch.FailedInternally {
				t.Errorf("unexpected outcome %v", outcome)
			}
			stderr := h.stderr.String()
			for _, w := range tt.want {
				if !strings.Contains(stderr, w) {
					t.Errorf("stderr missing %q:\n%s", w, stderr)
				}
			}
			if !strings.Contains(stderr, "\n\nUsage:") {
				t.Errorf("expected blank line and help after diagnostics:\n%s", stderr)
			}
		})
	}
}

func TestLauncher_FlushesOnce(t *testing.T) {
	h := newHarness(t)
	h.runner.output = "line one\nline two\n"
	h.runner.execution = &launch.ExecutionSummary{TestsFailed: 1}

	h.run(t)

	if h.stdout.writes != 1 {
		t.Errorf("expected a single flush to stdout, got %d writes", h.stdout.writes)
	}
	if h.stderr.writes != 0 {
		t.Errorf("expected nothing on stderr, got %d writes", h.stderr.writes)
	}
}

func TestLauncher_FlushesLargeOutputOnce(t *testing.T) {
	h := newHarness(t)
	h.runner.output = strings.Repeat("0123456789abcdef\n", 4096)

	h.run(t, "--disable-banner")

	if h.stdout.writes != 1 {
		t.Errorf("expected a single write of %d bytes, got %d writes", len(h.runner.output), h.stdout.writes)
	}
	if h.stdout.String() != h.runner.output {
		t.Errorf("stdout lost data: got %d bytes, want %d", h.stdout.Len(), len(h.runner.output))
	}
}

func TestLauncher_ListEnginesPanicFlushes(t *testing.T) {
	h := newHarness(t)
	h.runner.output = "partial\n"
	h.registry.panicWith = "registry exploded"

	func() {
		defer func() {
			if r := recover(); r != "registry exploded" {
				t.Errorf("expected the registry panic to escape, got %v", r)
			}
		}()
		_, _ = h.launcher.Execute([]string{"--list-engines", "--log-level", "debug"})
	}()

	if got := h.stdout.String(); got != "partial\n" {
		t.Errorf("stdout not flushed on panic, got %q", got)
	}
	if !strings.Contains(h.stderr.String(), "options parsed") {
		t.Errorf("stderr not flushed on panic, got %q", h.stderr.String())
	}
	if h.registry.closed != 1 {
		t.Errorf("expected registry closed once, got %d", h.registry.closed)
	}
}

func TestColorsDisabled(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--disable-ansi-colors"}, true},
		{[]string{"--disable-ansi-colors=true"}, true},
		{[]string{"--disable-ansi-colors=1"}, true},
		{[]string{"--disable-ansi-colors=false"}, false},
		{[]string{"--bogus", "--disable-ansi-colors"}, true},
		{[]string{"--details", "loud", "--disable-ansi-colors=true"}, true},
		{[]string{"-x", "--help", "--disable-ansi-colors"}, true},
		{[]string{"--disable-ansi-colors=maybe"}, false},
		{[]string{"--", "--disable-ansi-colors"}, false},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := colorsDisabled(tt.args); got != tt.want {
				t.Errorf("colorsDisabled(%q) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLauncher_ClosesCollaborators(t *testing.T) {
	h := newHarness(t)
	h.run(t, "--disable-banner")
	if h.registry.closed != 1 {
		t.Errorf("expected registry closed once, got %d", h.registry.closed)
	}
}
