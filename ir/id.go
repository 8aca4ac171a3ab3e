package ir

import "github.com/google/uuid"

// ID identifies one node in a Document. IDs are stable: a node keeps its
// ID across mutations to other nodes, and only deletion retires it.
type ID string

const NoID ID = ""

func NewID() ID {
	return ID(uuid.NewString())
}
