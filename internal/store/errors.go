package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Update when no row has the given key.
	ErrNotFound = errors.New("store: no matching row")

	// ErrUnfilteredDelete is returned by Delete for a match-all filter.
	ErrUnfilteredDelete = errors.New("store: refusing to delete without a filter")

	// ErrUnknownEntity is returned by Store.Entity.
	ErrUnknownEntity = errors.New("store: unknown entity")
)

// QueryError wraps a failed read.
type QueryError struct {
	Entity string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Entity, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// WriteError wraps a failed insert, update, delete or import.
type WriteError struct {
	Op     string
	Entity string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
