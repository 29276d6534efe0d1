// Package main provides the takeline CLI entrypoint.
package main

import (
	"os"

	"github.com/takeline-labs/takeline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
