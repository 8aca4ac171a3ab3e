// Package ops implements the structural operation set over ir.Document.
//
// Every operation clones the input document, applies the change to the
// clone, validates it, and returns the clone together with the id the
// caller should focus. Operations never partially apply: on any error the
// input document is returned unchanged.
package ops

import (
	"fmt"
	"math"
	"strings"

	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/ir"
)

// Edit replaces a scalar node's payload, and optionally its type, in
// place. Node identity is preserved. Numeric payloads must be finite.
func Edit(doc *ir.Document, id ir.ID, typ ir.Type, value any) (*ir.Document, ir.ID, error) {
	n := doc.Node(id)
	if n == nil {
		return doc, ir.NoID, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !n.Type.IsLeaf() {
		return doc, ir.NoID, fmt.Errorf("%w: edit of %s node", ErrKindMismatch, n.Type)
	}
	if !typ.IsLeaf() {
		return doc, ir.NoID, fmt.Errorf("%w: edit primitive with %s", ErrKindMismatch, typ)
	}
	if debug.Ops() {
		debug.Logf("edit %s -> %s %v\n", doc.PathOf(id), typ, value)
	}
	res := doc.Clone()
	rn := res.Node(id)
	rn.Keys, rn.Children = nil, nil
	rn.String, rn.Number, rn.Bool = "", 0, false
	rn.Type = typ
	switch typ {
	case ir.StringType:
		s, ok := value.(string)
		if !ok {
			return doc, ir.NoID, fmt.Errorf("%w: string edit with %T", ErrKindMismatch, value)
		}
		rn.String = s
	case ir.NumberType:
		f, ok := value.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return doc, ir.NoID, fmt.Errorf("%w: %v", ErrBadNumber, value)
		}
		rn.Number = f
	case ir.BoolType:
		b, ok := value.(bool)
		if !ok {
			return doc, ir.NoID, fmt.Errorf("%w: bool edit with %T", ErrKindMismatch, value)
		}
		rn.Bool = b
	case ir.NullType:
	}
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, id, nil
}

// RenameKey renames the object entry in parent that points at child.
// The new key must be non-blank and unused within the object; the child
// node is untouched.
func RenameKey(doc *ir.Document, parent, child ir.ID, newKey string) (*ir.Document, ir.ID, error) {
	p := doc.Node(parent)
	if p == nil {
		return doc, ir.NoID, fmt.Errorf("%w: parent %s", ErrNotFound, parent)
	}
	if p.Type != ir.ObjectType {
		return doc, ir.NoID, fmt.Errorf("%w: rename in %s", ErrKindMismatch, p.Type)
	}
	i := p.ChildIndex(child)
	if i == -1 {
		return doc, ir.NoID, fmt.Errorf("%w: child %s not in %s", ErrNotFound, child, parent)
	}
	if strings.TrimSpace(newKey) == "" {
		return doc, ir.NoID, ErrEmptyKey
	}
	if j := p.KeyIndex(newKey); j != -1 && j != i {
		return doc, ir.NoID, fmt.Errorf("%w: %q", ErrDuplicateKey, newKey)
	}
	if debug.Ops() {
		debug.Logf("rename %s %q -> %q\n", doc.PathOf(parent), p.Keys[i], newKey)
	}
	res := doc.Clone()
	res.Node(parent).Keys[i] = newKey
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, child, nil
}

// Add allocates a fresh node of typ with its zero payload and appends it
// to parent: under a unique non-blank key for objects, at the end for
// arrays.
func Add(doc *ir.Document, parent ir.ID, key string, typ ir.Type) (*ir.Document, ir.ID, error) {
	p := doc.Node(parent)
	if p == nil {
		return doc, ir.NoID, fmt.Errorf("%w: parent %s", ErrNotFound, parent)
	}
	switch p.Type {
	case ir.ObjectType:
		if strings.TrimSpace(key) == "" {
			return doc, ir.NoID, ErrEmptyKey
		}
		if p.KeyIndex(key) != -1 {
			return doc, ir.NoID, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	case ir.ArrayType:
	default:
		return doc, ir.NoID, fmt.Errorf("%w: add to %s", ErrKindMismatch, p.Type)
	}
	if debug.Ops() {
		debug.Logf("add %s under %s key %q\n", typ, doc.PathOf(parent), key)
	}
	res := doc.Clone()
	n := &ir.Node{ID: ir.NewID(), Type: typ}
	res.Nodes[n.ID] = n
	rp := res.Node(parent)
	rp.Children = append(rp.Children, n.ID)
	if rp.Type == ir.ObjectType {
		rp.Keys = append(rp.Keys, key)
	}
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, n.ID, nil
}

// Delete removes the entry for child from parent's sequence and the whole
// subtree rooted at child from the arena, so no dangling ids remain. The
// returned focus is the parent.
func Delete(doc *ir.Document, parent, child ir.ID) (*ir.Document, ir.ID, error) {
	p := doc.Node(parent)
	if p == nil {
		return doc, ir.NoID, fmt.Errorf("%w: parent %s", ErrNotFound, parent)
	}
	i := p.ChildIndex(child)
	if i == -1 {
		return doc, ir.NoID, fmt.Errorf("%w: child %s not in %s", ErrNotFound, child, parent)
	}
	if debug.Ops() {
		debug.Logf("delete %s\n", doc.PathOf(child))
	}
	res := doc.Clone()
	rp := res.Node(parent)
	rp.Children = append(rp.Children[:i:i], rp.Children[i+1:]...)
	if rp.Type == ir.ObjectType {
		rp.Keys = append(rp.Keys[:i:i], rp.Keys[i+1:]...)
	}
	res.Visit(child, func(n *ir.Node, isPost bool) bool {
		if isPost {
			delete(res.Nodes, n.ID)
		}
		return true
	})
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, parent, nil
}

// MoveItem swaps the array element child with its neighbor in direction
// (-1 up, +1 down). Moves past either end report ErrAtBoundary; callers
// treat that as a no-op.
func MoveItem(doc *ir.Document, parent, child ir.ID, direction int) (*ir.Document, ir.ID, error) {
	p := doc.Node(parent)
	if p == nil {
		return doc, ir.NoID, fmt.Errorf("%w: parent %s", ErrNotFound, parent)
	}
	if p.Type != ir.ArrayType {
		return doc, ir.NoID, fmt.Errorf("%w: move in %s", ErrKindMismatch, p.Type)
	}
	if direction != -1 && direction != 1 {
		return doc, ir.NoID, fmt.Errorf("%w: direction %d", ErrKindMismatch, direction)
	}
	i := p.ChildIndex(child)
	if i == -1 {
		return doc, ir.NoID, fmt.Errorf("%w: child %s not in %s", ErrNotFound, child, parent)
	}
	j := i + direction
	if j < 0 || j >= len(p.Children) {
		return doc, ir.NoID, ErrAtBoundary
	}
	if debug.Ops() {
		debug.Logf("move %s %+d\n", doc.PathOf(child), direction)
	}
	res := doc.Clone()
	rp := res.Node(parent)
	rp.Children[i], rp.Children[j] = rp.Children[j], rp.Children[i]
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, child, nil
}
