// Command reactpage runs the reaction-driven pagination engine from the
// terminal: a local demo over an in-memory transport, or a live session in a
// Discord channel.
package main

import (
	"fmt"
	"os"

	"github.com/rshade/reactpage/internal/cli"
	"github.com/rshade/reactpage/pkg/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}
