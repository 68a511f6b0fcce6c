// Package ui provides styled terminal output for the toon CLI using
// lipgloss.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10b981")
	colorWarning = lipgloss.Color("#f59e0b")
	colorError   = lipgloss.Color("#ef4444")
	colorMuted   = lipgloss.Color("#6b7280")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// Output handles styled terminal output. Messages go to the error writer so
// document output on stdout stays pipeable.
type Output struct {
	writer    io.Writer
	errWriter io.Writer
	verbose   bool
}

// NewOutput creates an Output with default writers.
func NewOutput() *Output {
	return &Output{
		writer:    os.Stdout,
		errWriter: os.Stderr,
	}
}

// WithVerbose enables verbose output.
func (o *Output) WithVerbose(verbose bool) *Output {
	o.verbose = verbose
	return o
}

// WithWriter sets the output writer.
func (o *Output) WithWriter(w io.Writer) *Output {
	o.writer = w
	return o
}

// WithErrWriter sets the error writer.
func (o *Output) WithErrWriter(w io.Writer) *Output {
	o.errWriter = w
	return o
}

// Success prints a success message with a checkmark.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errWriter, successStyle.Render("✓ "+msg))
}

// Warning prints a warning message.
func (o *Output) Warning(msg string) {
	fmt.Fprintln(o.errWriter, warningStyle.Render("⚠ "+msg))
}

// Error prints an error message.
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.errWriter, errorStyle.Render("✗ "+msg))
}

// Verbose prints a muted message only when verbose mode is on.
func (o *Output) Verbose(msg string) {
	if o.verbose {
		fmt.Fprintln(o.errWriter, mutedStyle.Render(msg))
	}
}

// Print writes plain document output.
func (o *Output) Print(msg string) {
	fmt.Fprintln(o.writer, msg)
}
