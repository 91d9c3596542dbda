// Package main provides the entry point for the audparity CLI.
package main

import (
	"os"

	"github.com/audlab/audparity/cmd/audparity/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
