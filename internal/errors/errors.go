// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrBadArchive     = errors.New("bad ZIP")
	ErrNothingToMerge = errors.New("no data downloaded, nothing to save")
	ErrInvalidRange   = errors.New("start date is after end date")
)

// TodayUnavailableError signals that a same-day request found no published
// data yet. It is fatal only for today-mode runs; the caller should retry
// after the exchange publishes, typically 4-5 PM IST.
type TodayUnavailableError struct {
	Date   string
	Reason string
}

func (e *TodayUnavailableError) Error() string {
	return fmt.Sprintf("no bhav copy for today (%s): %s; EOD data is usually published after 4-5 PM IST, try again later", e.Date, e.Reason)
}

// NewTodayUnavailableError creates a new TodayUnavailableError.
func NewTodayUnavailableError(date, reason string) *TodayUnavailableError {
	return &TodayUnavailableError{Date: date, Reason: reason}
}

// LoadError represents a failure while loading one artifact. The batch
// loader records it and continues with the remaining files.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error [%s]: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
