// Package main is the entry point of the riskcc command.
package main

import (
	"os"

	"github.com/leapstack-labs/riskcc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
