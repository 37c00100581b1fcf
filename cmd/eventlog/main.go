// Package main is the entry point for the eventlog CLI.
package main

import (
	"os"

	"github.com/lixenwraith/eventlog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
