package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"storage unavailable", ErrStorageUnavailable, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"invalid graph", ErrInvalidGraph, false},
		{"timeout in message", fmt.Errorf("operation timeout occurred"), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"type not found", ErrTypeNotFound, true},
		{"missing input", ErrMissingInput, true},
		{"invalid config", ErrInvalidConfig, true},
		{"iteration exceeded", ErrIterationExceeded, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(ErrIterationExceeded) {
		t.Error("expected ErrIterationExceeded to be fatal")
	}
	if IsFatal(ErrTypeNotFound) {
		t.Error("expected ErrTypeNotFound to not be fatal")
	}
	if IsFatal(nil) {
		t.Error("expected nil to not be fatal")
	}
}

func TestClassify(t *testing.T) {
	if got := Classify(ErrIterationExceeded); got != ErrorFatal {
		t.Errorf("expected fatal, got %s", got)
	}
	if got := Classify(ErrTypeNotFound); got != ErrorInvalid {
		t.Errorf("expected invalid, got %s", got)
	}
	if got := Classify(fmt.Errorf("some opaque failure")); got != ErrorTransient {
		t.Errorf("expected transient default, got %s", got)
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("boom")
	wrapped := Wrap(base, "Router", "AddConnection", "node lookup")

	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base via errors.Is")
	}
	expected := "Router.AddConnection: node lookup failed: boom"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if Wrap(nil, "a", "b", "c") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := fmt.Errorf("boom")

	wrapped := WrapInvalid(base, "Engine", "Build", "type resolution")
	if !IsInvalid(wrapped) {
		t.Error("WrapInvalid result should classify as invalid")
	}

	var ce *ClassifiedError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected a ClassifiedError in the chain")
	}
	if ce.Component != "Engine" || ce.Operation != "Build" {
		t.Errorf("unexpected component/operation: %s/%s", ce.Component, ce.Operation)
	}
	if !strings.Contains(ce.Error(), "type resolution failed") {
		t.Errorf("unexpected message: %s", ce.Error())
	}

	if !IsFatal(WrapFatal(base, "Engine", "Run", "pass loop")) {
		t.Error("WrapFatal result should classify as fatal")
	}
	if !IsTransient(WrapTransient(base, "Store", "Get", "kv read")) {
		t.Error("WrapTransient result should classify as transient")
	}
}
