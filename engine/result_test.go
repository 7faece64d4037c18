// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"testing"
)

// TestResultErr tests conversion of ABI result codes to errors.
func TestResultErr(t *testing.T) {
	if err := ResultSuccess.Err(); err != nil {
		t.Errorf("ResultSuccess.Err() = %v, want nil", err)
	}
	if err := ResultInvalidLibraryVersion.Err(); !errors.Is(err, ErrInvalidLibraryVersion) {
		t.Errorf("ResultInvalidLibraryVersion.Err() = %v, want ErrInvalidLibraryVersion", err)
	}
	if err := ResultInvalidArguments.Err(); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("ResultInvalidArguments.Err() = %v, want ErrInvalidArguments", err)
	}
	if err := ResultInternalInconsistency.Err(); !errors.Is(err, ErrInternalInconsistency) {
		t.Errorf("ResultInternalInconsistency.Err() = %v, want ErrInternalInconsistency", err)
	}
}

// TestResultErrUnknown tests that unrecognized codes become typed errors.
func TestResultErrUnknown(t *testing.T) {
	err := Result(42).Err()
	var unknown *UnknownResultError
	if !errors.As(err, &unknown) {
		t.Fatalf("Result(42).Err() = %T, want *UnknownResultError", err)
	}
	if unknown.Code != 42 {
		t.Errorf("Code = %d, want 42", unknown.Code)
	}
}

// TestIsFatal tests the session-fatality classification.
func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("IsFatal(nil) = true, want false")
	}
	if IsFatal(ErrInvalidArguments) {
		t.Error("IsFatal(ErrInvalidArguments) = true, want false")
	}
	if !IsFatal(ErrInvalidLibraryVersion) {
		t.Error("IsFatal(ErrInvalidLibraryVersion) = false, want true")
	}
	if !IsFatal(ErrInternalInconsistency) {
		t.Error("IsFatal(ErrInternalInconsistency) = false, want true")
	}
	if !IsFatal(&UnknownResultError{Code: 9}) {
		t.Error("IsFatal(UnknownResultError) = false, want true")
	}
}

// TestRegistrySelection tests priority-ordered binding selection.
func TestRegistrySelection(t *testing.T) {
	r := &Registry{}

	r.Register("low", 10, func(Config) (Engine, error) { return nil, errors.New("low failed") }, nil)
	r.Register("high", 100, func(Config) (Engine, error) { return nil, errors.New("high failed") }, nil)
	r.Register("off", 50, nil, func() bool { return false })

	names := r.Available()
	if len(names) != 2 {
		t.Fatalf("Available() = %v, want 2 entries", names)
	}
	if names[0] != "high" || names[1] != "low" {
		t.Errorf("Available() = %v, want [high low]", names)
	}

	// New tries bindings in priority order; with all factories failing the
	// last error is surfaced.
	_, err := r.New(Config{})
	if err == nil {
		t.Fatal("New() succeeded, want error")
	}

	_, err = r.NewByName("missing", Config{})
	var notFound *BindingNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("NewByName(missing) error = %T, want *BindingNotFoundError", err)
	}

	_, err = r.NewByName("off", Config{})
	var unavailable *BindingUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("NewByName(off) error = %T, want *BindingUnavailableError", err)
	}
}

// TestRegistryEmpty tests that an empty registry reports no bindings.
func TestRegistryEmpty(t *testing.T) {
	r := &Registry{}
	_, err := r.New(Config{})
	if !errors.Is(err, ErrNoBindingAvailable) {
		t.Errorf("New() error = %v, want ErrNoBindingAvailable", err)
	}
}
