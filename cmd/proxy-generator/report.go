package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"proxy-generator/internal/diagnostic"
)

// printDiagnostics writes errors and warnings, and messages when verbose is
// set, followed by a one-line summary.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics, verbose bool) {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	infoColor := color.New(color.FgCyan)

	for _, e := range d.Errors {
		errColor.Fprint(w, "error: ")
		fmt.Fprintln(w, e.String())
	}

	for _, e := range d.Warnings {
		warnColor.Fprint(w, "warning: ")
		fmt.Fprintln(w, e.String())
	}

	if verbose {
		for _, e := range d.Infos {
			infoColor.Fprint(w, "info: ")
			fmt.Fprintln(w, e.String())
		}
	}

	summary := color.New(color.FgGreen)
	if d.HasErrors() {
		summary = errColor
	}

	summary.Fprintf(w, "%d error(s), %d warning(s)\n", len(d.Errors), len(d.Warnings))
}
