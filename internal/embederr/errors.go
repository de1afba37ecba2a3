// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

// Package embederr classifies failures of the embed pipeline into a small,
// closed set of kinds so callers can map them to exit codes or HTTP statuses.
package embederr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of an embed failure.
type Kind string

const (
	// KindParse covers malformed CSV, JSON, templates or URLs.
	KindParse Kind = "parse"
	// KindSchema covers structurally invalid settings trees.
	KindSchema Kind = "schema"
	// KindSerialization covers payloads that cannot be embedded safely.
	KindSerialization Kind = "serialization"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrParse         = &Error{Kind: KindParse}
	ErrSchema        = &Error{Kind: KindSchema}
	ErrSerialization = &Error{Kind: KindSerialization}
)

// Error is a classified embed failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind) + " error"
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Parsef builds a parse error from a format string.
func Parsef(format string, args ...any) *Error {
	return New(KindParse, fmt.Errorf(format, args...))
}

// Schemaf builds a schema error from a format string.
func Schemaf(format string, args ...any) *Error {
	return New(KindSchema, fmt.Errorf(format, args...))
}

// Serializationf builds a serialization error from a format string.
func Serializationf(format string, args ...any) *Error {
	return New(KindSerialization, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
