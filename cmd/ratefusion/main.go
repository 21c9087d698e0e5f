// Package main provides the ratefusion CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/ratefusion/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
