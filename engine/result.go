// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"errors"
	"strconv"
)

// Result is an engine ABI result code.
type Result uint32

// Result codes defined by the engine ABI.
const (
	ResultSuccess Result = iota
	ResultInvalidLibraryVersion
	ResultInvalidArguments
	ResultInternalInconsistency
)

// Errors corresponding to engine result codes. Every native-call boundary
// surfaces one of these (or an UnknownResultError) instead of a raw code.
var (
	// ErrInvalidLibraryVersion indicates the binding was built against an
	// incompatible engine version.
	ErrInvalidLibraryVersion = errors.New("engine: invalid library version")

	// ErrInvalidArguments indicates the engine rejected a call's arguments.
	ErrInvalidArguments = errors.New("engine: invalid arguments")

	// ErrInternalInconsistency indicates the engine or the embedder
	// detected corrupted internal state, including ABI struct-size
	// mismatches.
	ErrInternalInconsistency = errors.New("engine: internal inconsistency")
)

// UnknownResultError wraps a result code this package does not recognize.
type UnknownResultError struct {
	Code Result
}

func (e *UnknownResultError) Error() string {
	return "engine: unknown result code " + strconv.FormatUint(uint64(e.Code), 10)
}

// Err converts a result code to an error, nil for ResultSuccess.
func (r Result) Err() error {
	switch r {
	case ResultSuccess:
		return nil
	case ResultInvalidLibraryVersion:
		return ErrInvalidLibraryVersion
	case ResultInvalidArguments:
		return ErrInvalidArguments
	case ResultInternalInconsistency:
		return ErrInternalInconsistency
	default:
		return &UnknownResultError{Code: r}
	}
}

// IsFatal reports whether err ends the embedding session. Invalid
// arguments on a single task is recoverable; a version mismatch, internal
// inconsistency or an unrecognized code is not.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidArguments) {
		return false
	}
	return true
}
