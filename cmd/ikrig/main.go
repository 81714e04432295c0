// Command ikrig classifies joint chains, builds IK handles on a persistent
// scene and solves 2-bone chains analytically.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ikrig/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
