// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"os"
)

type TTYOpts struct {
	// Debug enables Debugf and DebugWriter output.
	Debug bool
	// Quiet suppresses warnings.
	Quiet bool
}

// TTY writes results to stdout and diagnostics to stderr.
type TTY struct {
	opts   TTYOpts
	stdout io.Writer
	stderr io.Writer
}

var _ UI = TTY{}

func NewTTY(debug bool) TTY {
	return NewTTYWithOpts(TTYOpts{Debug: debug})
}

func NewTTYWithOpts(opts TTYOpts) TTY {
	return TTY{opts, os.Stdout, os.Stderr}
}

// NewCustomWriterTTY writes to the given writers; nil falls back to the
// process' stdout and stderr.
func NewCustomWriterTTY(debug bool, stdout, stderr io.Writer) TTY {
	return NewTTY(debug).WithWriters(stdout, stderr)
}

func (t TTY) WithWriters(stdout, stderr io.Writer) TTY {
	if stdout != nil {
		t.stdout = stdout
	}
	if stderr != nil {
		t.stderr = stderr
	}
	return t
}

func (t TTY) WithQuiet(quiet bool) TTY {
	t.opts.Quiet = quiet
	return t
}

func (t TTY) Printf(str string, args ...interface{}) {
	fmt.Fprintf(t.stdout, str, args...)
}

func (t TTY) Warnf(str string, args ...interface{}) {
	if !t.opts.Quiet {
		fmt.Fprintf(t.stderr, str, args...)
	}
}

func (t TTY) Debugf(str string, args ...interface{}) {
	if t.opts.Debug {
		fmt.Fprintf(t.stderr, str, args...)
	}
}

func (t TTY) DebugWriter() io.Writer {
	if t.opts.Debug {
		return t.stderr
	}
	return io.Discard
}
