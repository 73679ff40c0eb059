// FILE: src/cmd/hxlogin/output.go
package main

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// OutputHandler splits command output into results, which always print,
// and diagnostics, which quiet mode drops.
type OutputHandler struct {
	quiet  bool
	mu     sync.RWMutex
	stdout io.Writer
	stderr io.Writer
}

var output *OutputHandler

// InitOutputHandler installs the process-wide handler on the real streams
func InitOutputHandler(quiet bool) {
	output = newOutputHandler(quiet, os.Stdout, os.Stderr)
}

func newOutputHandler(quiet bool, stdout, stderr io.Writer) *OutputHandler {
	return &OutputHandler{
		quiet:  quiet,
		stdout: stdout,
		stderr: stderr,
	}
}

// Results is where command results go, quiet or not
func (o *OutputHandler) Results() io.Writer {
	return o.stdout
}

// Diagnostics is where progress, status and failure lines go
func (o *OutputHandler) Diagnostics() io.Writer {
	return diagnosticWriter{o}
}

type diagnosticWriter struct {
	o *OutputHandler
}

func (w diagnosticWriter) Write(p []byte) (int, error) {
	w.o.mu.RLock()
	defer w.o.mu.RUnlock()

	if w.o.quiet {
		return len(p), nil
	}
	return w.o.stderr.Write(p)
}

// Error writes a diagnostic line unless quiet
func (o *OutputHandler) Error(format string, args ...any) {
	fmt.Fprintf(o.Diagnostics(), format, args...)
}

// FatalError writes a diagnostic line unless quiet, then exits
func (o *OutputHandler) FatalError(code int, format string, args ...any) {
	o.Error(format, args...)
	os.Exit(code)
}

func (o *OutputHandler) IsQuiet() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.quiet
}

func Error(format string, args ...any) {
	if output != nil {
		output.Error(format, args...)
	}
}

func FatalError(code int, format string, args ...any) {
	if output != nil {
		output.FatalError(code, format, args...)
	} else {
		fmt.Fprintf(os.Stderr, format, args...)
		os.Exit(code)
	}
}
