package ops

import "errors"

// Validation errors. Every rejected operation leaves the document
// untouched; callers surface these as notices.
var (
	ErrNotFound     = errors.New("no such node")
	ErrKindMismatch = errors.New("node kind mismatch")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrEmptyKey     = errors.New("empty key")
	ErrBadNumber    = errors.New("not a finite number")
	ErrAtBoundary   = errors.New("at array boundary")
)
