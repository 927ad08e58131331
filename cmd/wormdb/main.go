// Command wormdb queries and imports the worm genetics records database.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/worm-world/worm-world-sub000/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
