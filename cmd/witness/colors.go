package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	satColor   = color.New(color.FgGreen, color.Bold)
	unsatColor = color.New(color.FgRed, color.Bold)
)

// verdictPrinter colors directive verdict lines when the output is a
// terminal or color is forced.
func verdictPrinter(cfg *MainConfig, w io.Writer) func(line string) {
	colored := cfg.Color
	if !colored {
		if f, ok := w.(*os.File); ok {
			colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	if !colored {
		return func(line string) { fmt.Fprintln(w, line) }
	}
	return func(line string) {
		switch {
		case strings.Contains(line, "UNSATISFIABLE"):
			unsatColor.Fprintln(w, line)
		case strings.Contains(line, "SATISFIABLE"):
			satColor.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}
