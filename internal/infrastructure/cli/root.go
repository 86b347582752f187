package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/testlaunch/pkg/domain/launch"
)

// Program is the name of the binary.
const Program = "testlaunch"

// Version is set at build time.
var Version = "dev"

// Main runs one invocation in the current directory and returns the exit
// code. It is the only place that turns an unhandled fault into a code.
func Main(args []string, stdout, stderr io.Writer) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "failed to determine working directory: %v\n", err)
		return launch.ExitInternalError
	}

	outcome, err := NewLauncher(stdout, stderr, wd).Execute(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return launch.ExitAbnormal
	}
	return outcome.ExitCode()
}
