// Package main provides the CLI entrypoint for proxy-generator.
//
// proxy-generator reads entity metadata (a YAML manifest and/or Go packages
// with proxy-tagged structs), decides which client-side mirror types and
// members must be generated, and writes the resulting declaration plan as
// YAML for an emission backend.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(1)
	}
}
