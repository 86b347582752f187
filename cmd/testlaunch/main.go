package main

import (
	"os"

	"github.com/felixgeelhaar/testlaunch/internal/infrastructure/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
