// Command shocktest runs the built-in demonstration suite and the harness
// self-check.
package main

import (
	"os"

	"github.com/roach88/shocktest/internal/cli"
	"github.com/roach88/shocktest/internal/suite"
	"github.com/roach88/shocktest/pkg/shocktest"
)

func main() {
	suite.Register(shocktest.Default())

	err := cli.NewRootCommand(shocktest.Default()).Execute()
	os.Exit(cli.GetExitCode(err))
}
