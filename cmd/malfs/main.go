// Package main provides the entry point for the malfs CLI.
package main

import (
	"os"

	"github.com/DrMatrix007/matrix-alfs/cmd/malfs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
