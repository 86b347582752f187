package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/testlaunch/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/testlaunch/pkg/application"
	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
	"github.com/felixgeelhaar/testlaunch/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OptionsParser turns raw arguments into validated options and renders help.
type OptionsParser interface {
	Parse(args []string) (*launch.Options, error)
	launch.HelpPrinter
}

// CommandLineParser parses testlaunch flags with cobra and merges the
// defaults from the launcher configuration file.
type CommandLineParser struct {
	workDir  string
	terminal io.Writer
	getenv   func(string) string
}

var _ OptionsParser = (*CommandLineParser)(nil)

// NewCommandLineParser creates a parser resolving relative paths against
// workDir. terminal is used only to detect color support for help output.
func NewCommandLineParser(workDir string, terminal io.Writer) *CommandLineParser {
	return &CommandLineParser{workDir: workDir, terminal: terminal, getenv: os.Getenv}
}

type flagValues struct {
	help          bool
	listEngines   bool
	listTests     bool
	disableBanner bool
	disableColors bool
	failIfNoTests bool

	details    string
	logLevel   string
	configFile string
	reportsDir string

	selectors      []string
	includeEngines []string
	excludeEngines []string
	includeTags    []string
	excludeTags    []string
	config         []string
}

// newCommand builds a fresh command so no flag state survives between parses.
func newCommand(v *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   Program,
		Short: "Discover and run tests across pluggable test engines",
		Long: `testlaunch discovers and executes tests through test engine plugins
declared in .testlaunch/config.yaml and reports the result as a stable
exit code for build tools and CI.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	f := cmd.Flags()
	f.SortFlags = false
	f.BoolVarP(&v.help, "help", "h", false, "Display help information")
	f.BoolVar(&v.listEngines, "list-engines", false, "List all registered test engines and exit")
	f.BoolVar(&v.listTests, "list-tests", false, "Discover tests and list them without running")
	f.BoolVar(&v.disableBanner, "disable-banner", false, "Do not print the welcome banner")
	f.BoolVar(&v.disableColors, "disable-ansi-colors", false, "Disable colored output")
	f.BoolVar(&v.failIfNoTests, "fail-if-no-tests", false, "Fail and return exit code 2 if no tests are found")
	f.StringVar(&v.details, "details", string(launch.DetailsTree), "Output mode: none, summary, flat, tree or verbose")
	f.StringSliceVarP(&v.selectors, "select", "s", nil, "Select tests by name or id (repeatable)")
	f.StringSliceVarP(&v.includeEngines, "include-engine", "e", nil, "Only run engines with these ids (repeatable)")
	f.StringSliceVarP(&v.excludeEngines, "exclude-engine", "E", nil, "Skip engines with these ids (repeatable)")
	f.StringSliceVarP(&v.includeTags, "include-tag", "t", nil, "Only run tests with these tags (repeatable)")
	f.StringSliceVarP(&v.excludeTags, "exclude-tag", "T", nil, "Skip tests with these tags (repeatable)")
	f.StringArrayVar(&v.config, "config", nil, "Engine configuration parameter as key=value (repeatable)")
	f.StringVar(&v.reportsDir, "reports-dir", "", "Directory engines write reports to")
	f.StringVar(&v.configFile, "config-file", "", "Launcher configuration file (default .testlaunch/config.yaml, env "+storage.ConfigEnv+")")
	f.StringVar(&v.logLevel, "log-level", wiring.DefaultLogLevel, "Log level: debug, info, warn or error")
	return cmd
}

// Parse validates args and returns the options for one invocation. Every
// failure is a *ConfigurationError.
func (p *CommandLineParser) Parse(args []string) (*launch.Options, error) {
	var v flagValues
	flags := newCommand(&v).Flags()
	if err := flags.Parse(args); err != nil {
		return nil, &ConfigurationError{Message: "invalid command line", Hint: "see --help", Err: err}
	}
	if rest := flags.Args(); len(rest) > 0 {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(rest, " ")),
			Hint:    "use --select to choose tests",
		}
	}

	configFile := v.configFile
	if configFile == "" {
		configFile = p.getenv(storage.ConfigEnv)
	}
	cfg, err := wiring.NewWorkspace(p.workDir).LoadConfig(configFile)
	if err != nil {
		return nil, configError("failed to load configuration", err)
	}
	applyDefaults(flags, &v, cfg.Defaults)

	details, err := launch.ParseDetails(v.details)
	if err != nil {
		return nil, configError("invalid --details", err)
	}
	if _, err := wiring.ParseLogLevel(v.logLevel); err != nil {
		return nil, configError("invalid --log-level", err)
	}
	params, err := parseConfigParams(v.config)
	if err != nil {
		return nil, err
	}

	return &launch.Options{
		Mode:           launch.ResolveMode(v.listEngines, v.listTests, v.help),
		BannerDisabled: v.disableBanner,
		ColorDisabled:  v.disableColors,
		FailIfNoTests:  v.failIfNoTests,
		Details:        details,
		LogLevel:       v.logLevel,
		Params: launch.ExecutionParameters{
			Selectors:      v.selectors,
			IncludeEngines: v.includeEngines,
			ExcludeEngines: v.excludeEngines,
			IncludeTags:    v.includeTags,
			ExcludeTags:    v.excludeTags,
			Config:         params,
			ReportsDir:     v.reportsDir,
		},
		Engines: cfg.EngineConfigs(),
	}, nil
}

// applyDefaults fills in configuration file defaults for flags that were
// not given on the command line.
func applyDefaults(flags *pflag.FlagSet, v *flagValues, d storage.Defaults) {
	if !flags.Changed("fail-if-no-tests") {
		v.failIfNoTests = d.FailIfNoTests
	}
	if !flags.Changed("disable-banner") {
		v.disableBanner = d.DisableBanner
	}
	if !flags.Changed("disable-ansi-colors") {
		v.disableColors = d.DisableANSIColors
	}
	if !flags.Changed("details") && d.Details != "" {
		v.details = d.Details
	}
	if !flags.Changed("log-level") && d.LogLevel != "" {
		v.logLevel = d.LogLevel
	}
}

func parseConfigParams(entries []string) (map[string]string, error) {
	params := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("invalid --config entry %q", entry),
				Hint:    "expected key=value",
			}
		}
		params[key] = value
	}
	return params, nil
}

// PrintHelp writes usage and flag documentation to w.
func (p *CommandLineParser) PrintHelp(w io.Writer, colorDisabled bool) {
	terminal := p.terminal
	if terminal == nil {
		terminal = w
	}
	theme := application.NewTheme(terminal, colorDisabled)
	cmd := newCommand(&flagValues{})

	fmt.Fprintf(w, "%s %s\n\n", theme.Highlight.Render("Usage:"), cmd.UseLine())
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Highlight.Render("Flags:"))
	fmt.Fprint(w, cmd.Flags().FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Highlight.Render("Exit codes:"))
	fmt.Fprintf(w, "  %d  success\n", launch.ExitSuccess)
	fmt.Fprintf(w, "  %d  tests failed\n", launch.ExitTestsFailed)
	fmt.Fprintf(w, "  %d  no tests found (with --fail-if-no-tests)\n", launch.ExitNoTestsFound)
	fmt.Fprintf(w, "  %d  configuration error\n", launch.ExitConfigurationError)
	fmt.Fprintf(w, "  %d  internal error\n", launch.ExitInternalError)
}
