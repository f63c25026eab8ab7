package cli

import "github.com/fatih/color"

// Status markers for per-item report lines. color degrades to plain text
// when stdout is not a terminal.

func warnTag() string {
	return color.New(color.FgYellow).Sprint("WARN")
}

func movedTag() string {
	return color.New(color.FgGreen).Sprint("MOVED")
}

func mergedTag() string {
	return color.New(color.FgCyan).Sprint("MERGED")
}

func updatedTag() string {
	return color.New(color.FgGreen).Sprint("UPDATED")
}
