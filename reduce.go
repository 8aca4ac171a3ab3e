package jsontree

import (
	"errors"
	"fmt"

	"github.com/signadot/jsontree/anchor"
	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/ops"
	"github.com/signadot/jsontree/parse"
	"github.com/signadot/jsontree/search"
)

// Apply is the engine's single transition function. It resolves cmd
// against s and returns the next state plus an optional notice. The input
// state's document and view fields are never modified, and a rejected
// command returns it unchanged; History is the one component shared by
// all states derived from the same engine and is updated in place.
func Apply(s *State, cmd Command) (*State, *Notice) {
	if debug.Reduce() {
		debug.Logf("apply %T\n", cmd)
	}
	switch c := cmd.(type) {
	case EditPrimitive:
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.Edit(doc, c.Node, c.Type, c.Value)
		})
	case RenameKey:
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.RenameKey(doc, c.Parent, c.Child, c.NewKey)
		})
	case AddNode:
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.Add(doc, c.Parent, c.Key, c.Type)
		})
	case DeleteNode:
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.Delete(doc, c.Parent, c.Child)
		})
	case MoveArrayItem:
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.MoveItem(doc, c.Parent, c.Child, c.Direction)
		})
	case SortKeys:
		id := c.Node
		if c.WholeDoc || id == ir.NoID {
			id = s.Doc.Root
		}
		return s.applyMutation(func(doc *ir.Document) (*ir.Document, ir.ID, error) {
			return ops.SortKeys(doc, id)
		})
	case LoadText:
		return s.load(c)
	case SetSearchQuery:
		return s.setQuery(c.Query), nil
	case SetFilterExpr:
		return s.setFilterExpr(c.Source)
	case MoveMatch:
		return s.moveMatch(c.Delta), nil
	case ToggleFilterMode:
		next := s.shallow()
		next.FilterMode = !s.FilterMode
		return next, nil
	case AnchorTo:
		return s.anchorTo(c.Node), nil
	case ToggleExpand:
		if !s.Doc.Has(c.Node) {
			return s, nil
		}
		next := s.shallow()
		next.Expanded = s.cloneExpanded()
		if next.Expanded[c.Node] {
			delete(next.Expanded, c.Node)
		} else {
			next.Expanded[c.Node] = true
		}
		return next, nil
	case ExpandAll:
		return s.expandAll(true), nil
	case CollapseAll:
		return s.expandAll(false), nil
	case Select:
		if !s.Doc.Has(c.Node) {
			return s, nil
		}
		next := s.shallow()
		next.Selection = c.Node
		return next, nil
	case SetOutputMode:
		next := s.shallow()
		next.Mode = c.Mode
		if c.Indent > 0 {
			next.Indent = c.Indent
		}
		next.Text = encode.Render(next.Doc.Value(), next.Mode, next.Indent)
		return next, nil
	case Undo:
		snap, ok := s.History.Undo(s.Snapshot())
		if !ok {
			return s, nil
		}
		return s.restore(snap), nil
	case Redo:
		snap, ok := s.History.Redo(s.Snapshot())
		if !ok {
			return s, nil
		}
		return s.restore(snap), nil
	default:
		return s, errNotice(fmt.Errorf("unknown command %T", cmd))
	}
}

// applyMutation runs one structural operation, recording a pre-mutation
// snapshot on success. Boundary moves are the one rejection treated as a
// silent no-op.
func (s *State) applyMutation(f func(doc *ir.Document) (*ir.Document, ir.ID, error)) (*State, *Notice) {
	newDoc, focus, err := f(s.Doc)
	if err != nil {
		if errors.Is(err, ops.ErrAtBoundary) {
			return s, nil
		}
		return s, errNotice(err)
	}
	s.History.Record(s.Snapshot())
	return s.afterMutation(newDoc, focus), nil
}

// afterMutation rebuilds the derived parts of the state around a mutated
// document: text mirror, anchor path, expansion set, selection, matches.
func (s *State) afterMutation(doc *ir.Document, focus ir.ID) *State {
	next := s.shallow()
	next.Doc = doc
	next.Text = encode.Render(doc.Value(), next.Mode, next.Indent)

	var fallback ir.ID
	next.Anchor, fallback = anchor.Revalidate(doc, s.Anchor)

	next.Expanded = make(map[ir.ID]bool, len(s.Expanded))
	for id := range s.Expanded {
		if doc.Has(id) {
			next.Expanded[id] = true
		}
	}

	next.Selection = fallback
	if focus != ir.NoID && doc.Has(focus) {
		next.Selection = focus
	}

	next.Matcher = s.cloneMatcher()
	next.Matcher.Rematch(doc, next.AnchorRoot())
	if a := next.Matcher.ActiveID(); a != ir.NoID {
		search.ExpandTo(next.Expanded, doc, a)
	}
	return next
}

// load replaces the whole document from text. Loading pushes history, so
// a prior document can be undone back to; a parse failure leaves state
// untouched and surfaces only the error.
func (s *State) load(c LoadText) (*State, *Notice) {
	v, err := parse.Parse(c.Text, parse.ParseFormat(c.Format))
	if err != nil {
		return s, errNotice(err)
	}
	s.History.Record(s.Snapshot())
	doc := ir.Build(v)
	next := s.shallow()
	next.Doc = doc
	next.Text = encode.Render(doc.Value(), next.Mode, next.Indent)
	next.Anchor = []ir.ID{doc.Root}
	next.Selection = doc.Root
	next.Expanded = map[ir.ID]bool{doc.Root: true}
	next.Matcher = s.cloneMatcher()
	next.Matcher.Rematch(doc, doc.Root)
	if a := next.Matcher.ActiveID(); a != ir.NoID {
		search.ExpandTo(next.Expanded, doc, a)
	}
	return next, nil
}

func (s *State) setQuery(q string) *State {
	next := s.shallow()
	next.Matcher = s.cloneMatcher()
	next.Matcher.Query = q
	next.Matcher.Rematch(s.Doc, s.AnchorRoot())
	if a := next.Matcher.ActiveID(); a != ir.NoID {
		next.Expanded = s.cloneExpanded()
		search.ExpandTo(next.Expanded, s.Doc, a)
	}
	return next
}

// setFilterExpr installs the result of an expression filter as the match
// list. The list is one-shot: a later query or document change recomputes
// matches from the substring query.
func (s *State) setFilterExpr(src string) (*State, *Notice) {
	next := s.shallow()
	next.Matcher = s.cloneMatcher()
	if src == "" {
		next.Matcher.Matches = nil
		next.Matcher.Active = -1
		return next, nil
	}
	prg, err := search.CompileFilter(src)
	if err != nil {
		return s, errNotice(err)
	}
	matches, err := search.FindExpr(s.Doc, s.AnchorRoot(), prg)
	if err != nil {
		return s, errNotice(err)
	}
	next.Matcher.Matches = matches
	next.Matcher.Active = -1
	if len(matches) > 0 {
		next.Matcher.Active = 0
		next.Expanded = s.cloneExpanded()
		search.ExpandTo(next.Expanded, s.Doc, matches[0])
	}
	return next, nil
}

func (s *State) moveMatch(delta int) *State {
	if len(s.Matcher.Matches) == 0 {
		return s
	}
	next := s.shallow()
	next.Matcher = s.cloneMatcher()
	next.Matcher.Move(delta)
	a := next.Matcher.ActiveID()
	next.Expanded = s.cloneExpanded()
	search.ExpandTo(next.Expanded, s.Doc, a)
	if s.Doc.Has(a) {
		next.Selection = a
	}
	return next
}

func (s *State) anchorTo(id ir.ID) *State {
	path, err := anchor.PathTo(s.Doc, id)
	if err != nil {
		return s
	}
	next := s.shallow()
	next.Anchor = path
	next.Selection = id
	next.Matcher = s.cloneMatcher()
	next.Matcher.Rematch(s.Doc, id)
	if a := next.Matcher.ActiveID(); a != ir.NoID {
		next.Expanded = s.cloneExpanded()
		search.ExpandTo(next.Expanded, s.Doc, a)
	}
	return next
}

// expandAll bulk-expands or bulk-collapses the containers under the
// current anchor root, leaving the rest of the tree alone.
func (s *State) expandAll(expand bool) *State {
	next := s.shallow()
	next.Expanded = s.cloneExpanded()
	s.Doc.Visit(s.AnchorRoot(), func(n *ir.Node, isPost bool) bool {
		if isPost || n.Type.IsLeaf() {
			return true
		}
		if expand {
			next.Expanded[n.ID] = true
		} else {
			delete(next.Expanded, n.ID)
		}
		return true
	})
	return next
}
