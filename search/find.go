// Package search implements the substring search and match tracking layer
// over a document, plus the ancestor expansion and filter-mode visibility
// sets that keep matches reachable.
package search

import (
	"strings"

	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/ir"
)

// Find returns the ids matching query under root, in depth first order
// (object entries in sequence order, then array order). An object entry
// whose key matches records the child id, before descending into it; a
// scalar matches on its stringified value. Matching is case-insensitive
// substring. Blank queries yield no matches.
func Find(doc *ir.Document, root ir.ID, query string) []ir.ID {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if !doc.Has(root) {
		return nil
	}
	if debug.Search() {
		debug.Logf("find %q under %s\n", q, doc.PathOf(root))
	}
	var res []ir.ID
	var walk func(id ir.ID, keyMatched bool)
	walk = func(id ir.ID, keyMatched bool) {
		n := doc.Node(id)
		matched := keyMatched
		if !matched && n.Type.IsLeaf() {
			matched = strings.Contains(strings.ToLower(n.ScalarString()), q)
		}
		if matched {
			res = append(res, id)
		}
		switch n.Type {
		case ir.ObjectType:
			for i, c := range n.Children {
				walk(c, strings.Contains(strings.ToLower(n.Keys[i]), q))
			}
		case ir.ArrayType:
			for _, c := range n.Children {
				walk(c, false)
			}
		}
	}
	walk(root, false)
	return res
}

// Ancestors returns the chain of ids from the document root down to id's
// parent. The id itself is not included; a missing id yields nil.
func Ancestors(doc *ir.Document, id ir.ID) []ir.ID {
	if !doc.Has(id) {
		return nil
	}
	parents := doc.Parents()
	var rev []ir.ID
	for {
		p, ok := parents[id]
		if !ok {
			break
		}
		rev = append(rev, p)
		id = p
	}
	res := make([]ir.ID, len(rev))
	for i := range rev {
		res[i] = rev[len(rev)-1-i]
	}
	return res
}

// ExpandTo adds every ancestor of id to the expansion set, so the node is
// reachable without manual expansion.
func ExpandTo(expanded map[ir.ID]bool, doc *ir.Document, id ir.ID) {
	for _, a := range Ancestors(doc, id) {
		expanded[a] = true
	}
}

// Visible computes the filter-mode visibility set: the anchor path plus,
// for each match, its full ancestor chain and the match itself. The set is
// advisory to presentation layers.
func Visible(doc *ir.Document, anchorPath []ir.ID, matches []ir.ID) map[ir.ID]bool {
	res := make(map[ir.ID]bool, len(anchorPath)+2*len(matches))
	for _, id := range anchorPath {
		res[id] = true
	}
	for _, m := range matches {
		res[m] = true
		for _, a := range Ancestors(doc, m) {
			res[a] = true
		}
	}
	return res
}
