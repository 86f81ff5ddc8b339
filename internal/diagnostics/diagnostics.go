// Package diagnostics defines the typed error values the analyser and
// parser report. Nothing in this module panics for an expected condition;
// every user-facing failure is a *DiagnosticError carrying a stable
// ErrorCode.
package diagnostics

import (
	"fmt"

	"github.com/asyncscript/asyncscript/internal/token"
)

// ErrorCode namespaces diagnostics by the phase that raises them: P for
// parser, S for the async-propagation analyser.
type ErrorCode string

const (
	// ErrP001 is a generic syntax error raised by the parser.
	ErrP001 ErrorCode = "P001"

	// ErrS001 fires when a toString method (or any method reachable from
	// it) is found to suspend — stringification must never suspend.
	ErrS001 ErrorCode = "S001"

	// ErrS002 marks an internal invariant violation: the analyser reached
	// a state its own design rules say is unreachable. It is
	// reported as a diagnostic, not a panic, so a host embedding the
	// analyser always gets a typed error back.
	ErrS002 ErrorCode = "S002"
)

// DiagnosticError is a single compiler diagnostic tied to a source
// position.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     token.Token
	Message string
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Pos.Pos(), e.Code, e.Message)
}

// NewError builds a DiagnosticError, formatting Message with fmt.Sprintf
// when args are supplied.
func NewError(code ErrorCode, pos token.Token, format string, args ...interface{}) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Pos: pos, Message: msg}
}

// InternalError reports an ErrS002 invariant violation — used at every
// "this switch case is unreachable by construction" default the analyser
// hits.
func InternalError(pos token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(ErrS002, pos, format, args...)
}

// Dedup removes exact duplicate diagnostics (same Code and Pos) and sorts
// the remainder by source position, so repeated analyser passes over the
// same program never report the same finding twice.
func Dedup(errs []*DiagnosticError) []*DiagnosticError {
	type key struct {
		code ErrorCode
		pos  string
	}
	seen := make(map[key]struct{}, len(errs))
	out := make([]*DiagnosticError, 0, len(errs))
	for _, e := range errs {
		k := key{e.Code, e.Pos.Pos()}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	sortByPos(out)
	return out
}

func sortByPos(errs []*DiagnosticError) {
	for i := 1; i < len(errs); i++ {
		for j := i; j > 0 && less(errs[j], errs[j-1]); j-- {
			errs[j], errs[j-1] = errs[j-1], errs[j]
		}
	}
}

func less(a, b *DiagnosticError) bool {
	if a.Pos.Line != b.Pos.Line {
		return a.Pos.Line < b.Pos.Line
	}
	return a.Pos.Column < b.Pos.Column
}
