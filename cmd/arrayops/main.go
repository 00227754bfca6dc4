// Package main provides the arrayops CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/arrayops/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
