package parser

import (
	"errors"
	"fmt"
	"io/fs"
)

// IOErrorKind classifies why a file could not be opened or read.
type IOErrorKind string

const (
	KindNotFound         IOErrorKind = "file-not-found"
	KindPermissionDenied IOErrorKind = "permission-denied"
	KindOther            IOErrorKind = "other"
)

// IOError reports a failure to open or read the readings file.
type IOError struct {
	Op   string // "open" or "read"
	Path string
	Kind IOErrorKind
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s readings (%s): %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func newIOError(op, path string, err error) *IOError {
	kind := KindOther
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermissionDenied
	}
	return &IOError{Op: op, Path: path, Kind: kind, Err: err}
}

// ParseError reports a line that could not be turned into a valid Reading.
type ParseError struct {
	LineNo int    // 1-based; 0 when the line was parsed outside a file
	Line   string // the offending line, trimmed
	Field  string // "date", "bloodIron" or "" for a structural problem
	Value  string // the offending field text
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	prefix := "parse error"
	if e.LineNo > 0 {
		prefix = fmt.Sprintf("parse error on line %d", e.LineNo)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %q", prefix, e.Reason, e.Line)
	}
	return fmt.Sprintf("%s: field %s %q: %s", prefix, e.Field, e.Value, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CapacityExceededError is returned when a collection is full.
type CapacityExceededError struct {
	Capacity int
	LineNo   int
}

func (e *CapacityExceededError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("capacity of %d readings exceeded at line %d", e.Capacity, e.LineNo)
	}
	return fmt.Sprintf("capacity of %d readings exceeded", e.Capacity)
}
