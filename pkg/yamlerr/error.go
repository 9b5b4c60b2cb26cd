// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlerr

import (
	"errors"
	"fmt"

	"carvel.dev/yamlcodec/pkg/filepos"
)

// Kind identifies the stage that produced an Error.
type Kind int

const (
	Scan Kind = iota + 1
	Parse
	Resolution
	Emit
	Configuration
	Custom
)

func (k Kind) String() string {
	switch k {
	case Scan:
		return "scan"
	case Parse:
		return "parse"
	case Resolution:
		return "resolution"
	case Emit:
		return "emit"
	case Configuration:
		return "configuration"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Error struct {
	Kind     Kind
	Message  string
	Position *filepos.Position
	Err      error
}

var _ error = &Error{}

func New(kind Kind, pos *filepos.Position, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(msg, args...), Position: pos}
}

// Wrap attaches kind and position to err. An err that already is an *Error
// with a known position is returned unchanged so that the innermost
// (most precise) location wins.
func Wrap(kind Kind, pos *filepos.Position, err error) error {
	if err == nil {
		return nil
	}
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		if !yamlErr.Position.IsKnown() && pos.IsKnown() {
			yamlErr.Position = pos
		}
		return yamlErr
	}
	return &Error{Kind: kind, Message: err.Error(), Position: pos, Err: err}
}

func (e *Error) Error() string {
	if e.Position.IsKnown() {
		prefix := "yaml: "
		if file := e.Position.GetFile(); len(file) > 0 {
			prefix += file + ": "
		}
		if col := e.Position.Column(); col > 0 {
			return fmt.Sprintf("%sline %d, column %d: %s", prefix, e.Position.LineNum(), col, e.Message)
		}
		return fmt.Sprintf("%sline %d: %s", prefix, e.Position.LineNum(), e.Message)
	}
	return "yaml: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Line returns the 1 based line of the error or 0 if unknown.
func (e *Error) Line() int {
	if !e.Position.IsKnown() {
		return 0
	}
	return e.Position.LineNum()
}

// Column returns the 1 based column of the error or 0 if unknown.
func (e *Error) Column() int { return e.Position.Column() }

// IsKind reports whether err (or anything it wraps) is an *Error of kind.
func IsKind(err error, kind Kind) bool {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		return yamlErr.Kind == kind
	}
	return false
}

// KindOf returns the Kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		return yamlErr.Kind
	}
	return 0
}
