package application

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/engine"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
)

// Status symbols used in tree and flat output.
const (
	symbolSuccessful = "✔"
	symbolFailed     = "✘"
	symbolSkipped    = "↷"
	symbolAborted    = "■"
)

// ConsolePrinter renders discovery and execution output.
type ConsolePrinter struct {
	out     io.Writer
	theme   Theme
	details launch.Details
}

func NewConsolePrinter(out io.Writer, theme Theme, details launch.Details) *ConsolePrinter {
	if details == "" {
		details = launch.DetailsTree
	}
	return &ConsolePrinter{out: out, theme: theme, details: details}
}

// node is one entry of a rendered tree.
type node struct {
	desc     engine.TestDescriptor
	result   *engine.TestResult
	children []*node
}

func buildTree(tests []engine.TestDescriptor, results map[string]*engine.TestResult) []*node {
	nodes := make(map[string]*node, len(tests))
	for _, t := range tests {
		nodes[t.ID] = &node{desc: t, result: results[t.ID]}
	}
	var roots []*node
	for _, t := range tests {
		n := nodes[t.ID]
		if parent, ok := nodes[t.ParentID]; ok && t.ParentID != "" && parent != n {
			parent.children = append(parent.children, n)
			continue
		}
		roots = append(roots, n)
	}
	return roots
}

// PrintDiscoveryStart opens the discovery tree.
func (p *ConsolePrinter) PrintDiscoveryStart() {
	if p.details != launch.DetailsNone {
		fmt.Fprintln(p.out, "╷")
	}
}

// PrintDiscovery renders the discovered tests of one engine.
func (p *ConsolePrinter) PrintDiscovery(desc engine.Descriptor, report *engine.DiscoveryReport) {
	if p.details == launch.DetailsNone {
		return
	}
	p.printEngine(desc, buildTree(report.Tests, nil))
}

// PrintDiscoverySummary renders the discovery counts.
func (p *ConsolePrinter) PrintDiscoverySummary(s *launch.DiscoverySummary) {
	if p.details != launch.DetailsNone {
		fmt.Fprintln(p.out, "└─")
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, countLine(s.ContainersFound, "containers found"))
	fmt.Fprintln(p.out, countLine(s.TestsFound, "tests found"))
	fmt.Fprintln(p.out)
}

// PrintExecutionStart opens the result tree.
func (p *ConsolePrinter) PrintExecutionStart() {
	if p.details == launch.DetailsTree || p.details == launch.DetailsVerbose {
		fmt.Fprintln(p.out, "╷")
	}
}

// PrintExecution renders the results of one engine per the details mode.
func (p *ConsolePrinter) PrintExecution(desc engine.Descriptor, report *engine.ExecutionReport) {
	switch p.details {
	case launch.DetailsFlat:
		for _, r := range report.Results {
			p.printFlat(desc, r)
		}
	case launch.DetailsTree, launch.DetailsVerbose:
		results := make(map[string]*engine.TestResult, len(report.Results))
		tests := make([]engine.TestDescriptor, 0, len(report.Results))
		for i := range report.Results {
			r := &report.Results[i]
			results[r.ID] = r
			tests = append(tests, r.TestDescriptor)
		}
		p.printEngine(desc, buildTree(tests, results))
	}
}

func (p *ConsolePrinter) printFlat(desc engine.Descriptor, r engine.TestResult) {
	line := fmt.Sprintf("%s %s %s", p.symbol(r.Status), desc.ID, r.ID)
	if r.Message != "" {
		line += " " + p.theme.Muted.Render(firstLine(r.Message))
	}
	fmt.Fprintln(p.out, line)
}

// guides closes the branch at the last sibling.
func guides(children tree.Children, i int) string {
	if i == children.Length()-1 {
		return "└─"
	}
	return "├─"
}

func guideIndent(children tree.Children, i int) string {
	if i == children.Length()-1 {
		return "  "
	}
	return "│ "
}

// openGuide keeps the engine level open; the summary closes it.
func openGuide(tree.Children, int) string { return "├─" }

func openIndent(tree.Children, int) string { return "│ " }

func (p *ConsolePrinter) guideStyle() lipgloss.Style {
	return p.theme.Muted.PaddingRight(1)
}

func (p *ConsolePrinter) printEngine(desc engine.Descriptor, roots []*node) {
	branch := tree.Root(p.theme.Engine.Render(desc.ID)).
		Enumerator(guides).
		Indenter(guideIndent).
		EnumeratorStyle(p.guideStyle())
	for _, n := range roots {
		branch.Child(p.item(n))
	}
	t := tree.New().
		Enumerator(openGuide).
		Indenter(openIndent).
		EnumeratorStyle(p.guideStyle()).
		Child(branch)
	for _, line := range strings.Split(t.String(), "\n") {
		fmt.Fprintln(p.out, strings.TrimRight(line, " "))
	}
}

// item converts n into a tree leaf, or a subtree when it has children.
func (p *ConsolePrinter) item(n *node) any {
	label := p.label(n)
	if p.details == launch.DetailsVerbose && n.result != nil && n.result.Message != "" {
		for _, line := range strings.Split(strings.TrimRight(n.result.Message, "\n"), "\n") {
			label += "\n" + p.theme.Muted.Render("=> "+line)
		}
	}
	if len(n.children) == 0 {
		return label
	}
	sub := tree.Root(label)
	for _, c := range n.children {
		sub.Child(p.item(c))
	}
	return sub
}

func (p *ConsolePrinter) label(n *node) string {
	name := n.desc.DisplayName
	if name == "" {
		name = n.desc.ID
	}
	if n.result == nil {
		return name
	}
	label := name + " " + p.symbol(n.result.Status)
	switch {
	case p.details == launch.DetailsVerbose:
		label += " " + p.theme.Muted.Render(fmt.Sprintf("(%d ms)", n.result.Duration.Milliseconds()))
	case n.result.Status == engine.StatusFailed && n.result.Message != "":
		label += " " + firstLine(n.result.Message)
	}
	return label
}

func (p *ConsolePrinter) symbol(s engine.Status) string {
	switch s {
	case engine.StatusSuccessful:
		return p.theme.Success.Render(symbolSuccessful)
	case engine.StatusFailed:
		return p.theme.Failure.Render(symbolFailed)
	case engine.StatusSkipped:
		return p.theme.Skipped.Render(symbolSkipped)
	case engine.StatusAborted:
		return p.theme.Aborted.Render(symbolAborted)
	default:
		return "?"
	}
}

// PrintExecutionSummary renders failures and the count table. Failures are
// listed unless they were already printed inline.
func (p *ConsolePrinter) PrintExecutionSummary(s *launch.ExecutionSummary) {
	if p.details == launch.DetailsTree || p.details == launch.DetailsVerbose {
		fmt.Fprintln(p.out, "└─")
	}

	if p.details != launch.DetailsFlat && p.details != launch.DetailsVerbose {
		p.printFailures(s.Failures)
	}
	if p.details == launch.DetailsNone {
		return
	}

	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Test run finished after %d ms\n", s.Duration().Milliseconds())
	rows := []struct {
		n     int
		label string
		style bool
	}{
		{s.ContainersFound, "containers found", false},
		{s.ContainersSkipped, "containers skipped", false},
		{s.ContainersFound - s.ContainersSkipped, "containers started", false},
		{s.ContainersAborted, "containers aborted", false},
		{s.ContainersSucceeded, "containers successful", false},
		{s.ContainersFailed, "containers failed", true},
		{s.TestsFound, "tests found", false},
		{s.TestsSkipped, "tests skipped", false},
		{s.TestsStarted, "tests started", false},
		{s.TestsAborted, "tests aborted", false},
		{s.TestsSucceeded, "tests successful", false},
		{s.TestsFailed, "tests failed", true},
	}
	for _, row := range rows {
		line := countLine(row.n, row.label)
		if row.style && row.n > 0 {
			line = p.theme.Failure.Render(line)
		}
		fmt.Fprintln(p.out, line)
	}
	fmt.Fprintln(p.out)
}

func (p *ConsolePrinter) printFailures(failures []launch.Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.theme.Failure.Render(fmt.Sprintf("Failures (%d):", len(failures))))
	for _, f := range failures {
		fmt.Fprintf(p.out, "  %s\n", f.TestID)
		if f.Message != "" {
			for _, line := range strings.Split(strings.TrimRight(f.Message, "\n"), "\n") {
				fmt.Fprintf(p.out, "    => %s\n", line)
			}
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func countLine(n int, label string) string {
	return fmt.Sprintf("[%10d %-21s]", n, label)
}
