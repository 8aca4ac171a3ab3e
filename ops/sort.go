package ops

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/ir"
)

// collator gives the locale-aware total order used for key sorting. The
// engine is single threaded (see the concurrency model), so one shared
// collator is fine.
var collator = collate.New(language.Und)

// keyLess is the total order on object keys: collated, with an exact
// string compare as tiebreak so equal-collating keys still order
// deterministically.
func keyLess(a, b string) bool {
	switch collator.CompareString(a, b) {
	case -1:
		return true
	case 1:
		return false
	default:
		return a < b
	}
}

// SortKeys reorders every object's entry sequence by key, recursively,
// within the subtree rooted at id. Array order is untouched. Sorting is
// idempotent: a second pass over sorted output changes nothing.
func SortKeys(doc *ir.Document, id ir.ID) (*ir.Document, ir.ID, error) {
	if !doc.Has(id) {
		return doc, ir.NoID, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if debug.Ops() {
		debug.Logf("sort keys at %s\n", doc.PathOf(id))
	}
	res := doc.Clone()
	res.Visit(id, func(n *ir.Node, isPost bool) bool {
		if isPost || n.Type != ir.ObjectType {
			return true
		}
		order := make([]int, len(n.Keys))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return keyLess(n.Keys[order[a]], n.Keys[order[b]])
		})
		keys := make([]string, len(n.Keys))
		children := make([]ir.ID, len(n.Children))
		for i, o := range order {
			keys[i] = n.Keys[o]
			children[i] = n.Children[o]
		}
		n.Keys, n.Children = keys, children
		return true
	})
	if err := res.Validate(); err != nil {
		return doc, ir.NoID, err
	}
	return res, id, nil
}

// SortKeysAll sorts the whole document.
func SortKeysAll(doc *ir.Document) (*ir.Document, ir.ID, error) {
	return SortKeys(doc, doc.Root)
}
