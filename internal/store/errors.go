package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNoStore           = errors.New("template store does not exist")
	ErrProtectedCategory = errors.New("the Unassigned category cannot be removed")
)

// IntegrityError wraps storage-engine failures raised while creating the
// schema or inserting seed data.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

type notFoundError struct {
	kind string
	id   any
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %v", e.kind, e.id)
}

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

func errNotFound(kind string, id any) error {
	return notFoundError{kind: kind, id: id}
}
