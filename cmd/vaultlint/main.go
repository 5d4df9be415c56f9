// Package main is the entry point for the vaultlint CLI tool.
package main

import (
	"os"

	"github.com/vaultlint/vaultlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
