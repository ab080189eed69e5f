package cmd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ANSI Colors
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
)

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printError(w io.Writer, label, detail string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "  %s✘%s %-15s %s%s\n", colorRed, colorReset, label, colorRed, detail+colorReset)
		return
	}
	fmt.Fprintf(w, "  ✘ %-15s %s\n", label, detail)
}
