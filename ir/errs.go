package ir

import "errors"

var (
	ErrInvalidDoc = errors.New("invalid document")
	ErrNoPath     = errors.New("no such path")
)
