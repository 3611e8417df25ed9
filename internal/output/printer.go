// Package output renders dashboard views for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"screentime-go/internal/model"
)

// ResolveColors decides whether to color output written to f.
// NO_COLOR (any value) and TERM=dumb disable colors, as does a non-terminal f.
func ResolveColors(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes formatted messages and views to a terminal.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a Printer writing to out and err.
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// NewStdPrinter creates a Printer on stdout/stderr with colors resolved from
// the environment.
func NewStdPrinter() *Printer {
	return NewPrinter(os.Stdout, os.Stderr, ResolveColors(os.Stdout))
}

func (p *Printer) paint(text string, attrs ...color.Attribute) string {
	if !p.useColors {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Print prints a plain line.
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		fmt.Fprintln(p.out, p.paint("✓ "+fmt.Sprintf(format, args...), color.FgGreen))
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Error prints an error line to the error stream.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		fmt.Fprintln(p.err, p.paint("✗ "+fmt.Sprintf(format, args...), color.FgRed))
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// Header prints a section header underlined to its width.
func (p *Printer) Header(title string) {
	underline := repeatChar('-', len([]rune(title)))
	fmt.Fprintf(p.out, "\n%s\n%s\n", p.paint(title, color.Bold), underline)
}

// Status renders a status label in the status color.
func (p *Printer) Status(s model.Status, label string) string {
	switch s {
	case model.StatusOK:
		return p.paint(label, color.FgGreen)
	case model.StatusWarning:
		return p.paint(label, color.FgYellow)
	case model.StatusLocked:
		return p.paint(label, color.FgRed)
	default:
		return p.paint(label, color.Faint)
	}
}

// Dim renders secondary text.
func (p *Printer) Dim(text string) string {
	return p.paint(text, color.Faint)
}

// Bold renders emphasised text.
func (p *Printer) Bold(text string) string {
	return p.paint(text, color.Bold)
}

func repeatChar(char rune, count int) string {
	if count < 0 {
		count = 0
	}
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
