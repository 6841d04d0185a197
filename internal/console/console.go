// Package console is the colored log formatter spec.md §1 keeps external to
// the core engine. It is used only by cmd/meshsync to report rejected
// location specs and startup / shutdown status lines to the terminal, in the style of
// nabbar-golib's console package (github.com/fatih/color over an
// auto-detected, Windows-safe writer from github.com/mattn/go-colorable).
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// Reporter prints colored status lines to a terminal (or a plain writer in
// tests).
type Reporter struct {
	out io.Writer

	errColor  *color.Color
	okColor   *color.Color
	infoColor *color.Color
}

// NewStdout builds a Reporter writing to os.Stdout through go-colorable, so
// ANSI codes render correctly on Windows consoles too.
func NewStdout() *Reporter {
	return New(colorable.NewColorable(os.Stdout))
}

// New builds a Reporter writing to an arbitrary writer.
func New(out io.Writer) *Reporter {
	return &Reporter{
		out:       out,
		errColor:  color.New(color.FgRed, color.Bold),
		okColor:   color.New(color.FgGreen),
		infoColor: color.New(color.FgCyan),
	}
}

// Error prints a rejected-spec or adapter-error message in red.
func (r *Reporter) Error(format string, args ...any) {
	r.errColor.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Info prints a neutral status line in cyan.
func (r *Reporter) Info(format string, args ...any) {
	r.infoColor.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Success prints a positive status line in green.
func (r *Reporter) Success(format string, args ...any) {
	r.okColor.Fprintln(r.out, fmt.Sprintf(format, args...))
}
