// Package jsontree is an engine for holding a JSON document as an
// editable, navigable tree of identity-bearing nodes. Commands are applied
// through a single transition function (see Apply); every accepted
// mutation yields a fresh state with a re-derived text mirror, a
// revalidated anchor, and a refreshed search match list, and pushes a full
// snapshot onto the bounded undo history.
//
// The engine performs no I/O. Parsing, serialization and persistence live
// behind the parse, encode and session boundaries.
package jsontree

import (
	"maps"
	"slices"

	"github.com/signadot/jsontree/anchor"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/history"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/search"
)

const DefaultIndent = 2

// State is the complete engine state at one instant. Apply returns a
// replacement rather than mutating the state it was given; only History
// is shared across the states of one engine and advances in place.
type State struct {
	Doc  *ir.Document
	Text string

	Mode   encode.Mode
	Indent int

	Expanded  map[ir.ID]bool
	Selection ir.ID
	Anchor    []ir.ID

	Matcher    *search.Matcher
	FilterMode bool

	History *history.History
}

type Config struct {
	HistoryLimit int
	Indent       int
}

type Option func(*Config)

func WithHistoryLimit(n int) Option {
	return func(c *Config) { c.HistoryLimit = n }
}

func WithIndent(n int) Option {
	return func(c *Config) { c.Indent = n }
}

// New returns an engine state holding the null document.
func New(opts ...Option) *State {
	cfg := &Config{HistoryLimit: history.DefaultLimit, Indent: DefaultIndent}
	for _, f := range opts {
		f(cfg)
	}
	doc := ir.Build(nil)
	s := &State{
		Doc:       doc,
		Mode:      encode.Formatted,
		Indent:    cfg.Indent,
		Expanded:  map[ir.ID]bool{doc.Root: true},
		Selection: doc.Root,
		Anchor:    []ir.ID{doc.Root},
		Matcher:   search.NewMatcher(),
		History:   history.New(cfg.HistoryLimit),
	}
	s.Text = encode.Render(doc.Value(), s.Mode, s.Indent)
	return s
}

// AnchorRoot is the focused node scoping search and bulk expand/collapse.
func (s *State) AnchorRoot() ir.ID {
	if f := anchor.Focus(s.Anchor); f != ir.NoID {
		return f
	}
	return s.Doc.Root
}

// Visible reports the filter-mode visibility set, or nil when filter mode
// is off.
func (s *State) Visible() map[ir.ID]bool {
	if !s.FilterMode {
		return nil
	}
	return search.Visible(s.Doc, s.Anchor, s.Matcher.Matches)
}

// Snapshot captures the state as an independent history entry.
func (s *State) Snapshot() *history.Snapshot {
	return (&history.Snapshot{
		Doc:       s.Doc,
		Text:      s.Text,
		Expanded:  s.Expanded,
		Selection: s.Selection,
		Anchor:    s.Anchor,
		Mode:      s.Mode,
		Indent:    s.Indent,
	}).Clone()
}

// ResetHistory discards undo/redo history, keeping the configured limit.
// Boundary callers (session restore) use it so a restored session does not
// undo back into the restoring process's setup steps.
func (s *State) ResetHistory() {
	s.History = history.New(s.History.Limit())
}

// shallow copies the state struct; replaced fields get fresh values in the
// reducer before the copy escapes.
func (s *State) shallow() *State {
	next := *s
	return &next
}

func (s *State) cloneExpanded() map[ir.ID]bool {
	return maps.Clone(s.Expanded)
}

func (s *State) cloneMatcher() *search.Matcher {
	return &search.Matcher{
		Query:   s.Matcher.Query,
		Matches: slices.Clone(s.Matcher.Matches),
		Active:  s.Matcher.Active,
	}
}

func (s *State) restore(snap *history.Snapshot) *State {
	next := s.shallow()
	next.Doc = snap.Doc
	next.Text = snap.Text
	next.Expanded = snap.Expanded
	next.Selection = snap.Selection
	next.Anchor = snap.Anchor
	next.Mode = snap.Mode
	next.Indent = snap.Indent
	next.Matcher = s.cloneMatcher()
	next.Matcher.Rematch(next.Doc, next.AnchorRoot())
	return next
}
