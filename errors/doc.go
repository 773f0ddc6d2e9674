// Package errors provides standardized error handling patterns for the
// dataflow engine.
//
// # Overview
//
// The package implements a three-class error classification system:
// Transient (temporary, retryable), Invalid (bad input, non-retryable),
// and Fatal (unrecoverable, stop processing).
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Component", "Method", "action")
//	errors.WrapInvalid(err, "Component", "Method", "action")
//	errors.WrapFatal(err, "Component", "Method", "action")
//
// The generic Wrap() function adds context without assigning a class.
//
// # Standard Error Variables
//
// Pre-defined error variables cover common conditions: load-time failures
// (ErrTypeNotFound, ErrInvalidGraph), execution faults (ErrMissingInput,
// ErrIterationExceeded), and configuration problems (ErrInvalidConfig,
// ErrMissingConfig). Use these instead of ad-hoc error strings so callers
// can match with errors.Is.
//
// All error types support errors.Is, errors.As and error wrapping chains.
// Context errors (context.DeadlineExceeded, context.Canceled) are
// classified as Transient.
package errors
