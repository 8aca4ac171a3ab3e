// Package anchor tracks the viewport root: the id path from the document
// root to a focused node. Bulk expand/collapse and search are scoped to
// the anchored subtree.
package anchor

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/ir"
)

// PathTo computes the root-to-id path. Anchoring to an id not in the
// document is rejected and the caller keeps its current anchor.
func PathTo(doc *ir.Document, id ir.ID) ([]ir.ID, error) {
	if !doc.Has(id) {
		return nil, fmt.Errorf("%w: %s", ir.ErrNoPath, id)
	}
	parents := doc.Parents()
	rev := []ir.ID{id}
	for {
		p, ok := parents[id]
		if !ok {
			break
		}
		rev = append(rev, p)
		id = p
	}
	slices.Reverse(rev)
	if rev[0] != doc.Root {
		return nil, fmt.Errorf("%w: %s detached from root", ir.ErrNoPath, id)
	}
	return rev, nil
}

// Focus returns the focused node of a path: its last element.
func Focus(path []ir.ID) ir.ID {
	if len(path) == 0 {
		return ir.NoID
	}
	return path[len(path)-1]
}

// Revalidate recomputes an anchor path against a mutated document. While
// the focused node survives, its path is recomputed (intermediate nodes
// may have moved). When it is gone, the anchor collapses to the document
// root and focus falls back to the nearest surviving ancestor from the old
// path, or the root when nothing else survives.
func Revalidate(doc *ir.Document, old []ir.ID) (path []ir.ID, focus ir.ID) {
	if f := Focus(old); f != ir.NoID && doc.Has(f) {
		if p, err := PathTo(doc, f); err == nil {
			return p, f
		}
	}
	focus = doc.Root
	for i := len(old) - 1; i >= 0; i-- {
		if doc.Has(old[i]) {
			focus = old[i]
			break
		}
	}
	if debug.Anchor() {
		debug.Logf("anchor collapsed to root, focus %s\n", doc.PathOf(focus))
	}
	return []ir.ID{doc.Root}, focus
}

// Crumb is one breadcrumb segment of an anchor path.
type Crumb struct {
	ID ir.ID
	// Label is the object key or "[i]" index leading to the node; the
	// root is labeled "$".
	Label string
}

// Breadcrumbs resolves an anchor path into display segments.
func Breadcrumbs(doc *ir.Document, path []ir.ID) []Crumb {
	res := make([]Crumb, 0, len(path))
	for i, id := range path {
		c := Crumb{ID: id, Label: "$"}
		if i > 0 {
			p := doc.Node(path[i-1])
			if p == nil {
				break
			}
			j := p.ChildIndex(id)
			if j == -1 {
				break
			}
			switch p.Type {
			case ir.ObjectType:
				c.Label = p.Keys[j]
			case ir.ArrayType:
				c.Label = "[" + strconv.Itoa(j) + "]"
			}
		}
		res = append(res, c)
	}
	return res
}
