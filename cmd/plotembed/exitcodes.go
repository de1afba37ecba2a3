package main

import (
	"errors"
	"fmt"

	"github.com/plotset/plotembed/internal/embederr"
)

// Exit codes for the plotembed CLI.
const (
	ExitOK          = 0 // Success.
	ExitInvalidArgs = 1 // Invalid arguments, unreadable files, or lint problems.
	ExitInputError  = 2 // Malformed CSV, JSON or settings tree.
	ExitFailure     = 3 // Serialization or other failure; no output produced.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
	err  error
}

func (e *exitCodeError) Error() string { return e.msg }

func (e *exitCodeError) Unwrap() error { return e.err }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitInputError:
			msg = "plotembed: invalid input"
		case ExitFailure:
			msg = "plotembed: no output produced"
		default:
			msg = "plotembed: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// exitFor classifies err by its embed error kind. Parse and schema errors
// are input errors; everything else is a failure.
func exitFor(err error) error {
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return err
	}
	code := ExitFailure
	switch embederr.KindOf(err) {
	case embederr.KindParse, embederr.KindSchema:
		code = ExitInputError
	}
	e := exitError(code, "plotembed: %v", err)
	e.err = err
	return e
}
