// Command drawsync keeps a local copy of the 七星彩 draw history in sync
// with the public history endpoint.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/drawsync/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
