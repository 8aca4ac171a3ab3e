// Package session adapts engine state to and from a storable bundle. The
// engine itself performs no I/O; callers (the CLI, the RPC server) use
// this package to persist a session between runs.
//
// Node ids are process-local, so the bundle addresses nodes by $-path and
// re-resolves them against the freshly built document on restore.
package session

import (
	"encoding/json"
	"fmt"
	"sort"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
)

type Bundle struct {
	Text      string   `json:"text"`
	Mode      string   `json:"mode"`
	Indent    int      `json:"indent"`
	Expanded  []string `json:"expanded"`
	Selection string   `json:"selection,omitempty"`
	Anchor    string   `json:"anchor,omitempty"`
	Query     string   `json:"query,omitempty"`
	Filter    bool     `json:"filter,omitempty"`
}

// Capture extracts a bundle from engine state.
func Capture(s *jsontree.State) *Bundle {
	b := &Bundle{
		Text:   s.Text,
		Mode:   s.Mode.String(),
		Indent: s.Indent,
		Query:  s.Matcher.Query,
		Filter: s.FilterMode,
	}
	for id := range s.Expanded {
		if p := s.Doc.PathOf(id); p != "" {
			b.Expanded = append(b.Expanded, p)
		}
	}
	sort.Strings(b.Expanded)
	if p := s.Doc.PathOf(s.Selection); p != "" {
		b.Selection = p
	}
	if p := s.Doc.PathOf(s.AnchorRoot()); p != "" {
		b.Anchor = p
	}
	return b
}

// Restore reconstructs an equivalent engine state from a bundle. The
// restored state starts with empty history.
func Restore(b *Bundle, opts ...jsontree.Option) (*jsontree.State, error) {
	if b.Indent > 0 {
		opts = append(opts, jsontree.WithIndent(b.Indent))
	}
	st := jsontree.New(opts...)
	st, notice := jsontree.Apply(st, jsontree.LoadText{Text: []byte(b.Text)})
	if notice != nil && notice.Severity == jsontree.Error {
		return nil, fmt.Errorf("restoring document: %s", notice.Message)
	}
	st.ResetHistory()
	if b.Mode == encode.Wire.String() {
		st, _ = jsontree.Apply(st, jsontree.SetOutputMode{Mode: encode.Wire, Indent: b.Indent})
	}
	if b.Anchor != "" && b.Anchor != "$" {
		if id, err := st.Doc.ResolvePath(b.Anchor); err == nil {
			st, _ = jsontree.Apply(st, jsontree.AnchorTo{Node: id})
		}
	}
	if b.Query != "" {
		st, _ = jsontree.Apply(st, jsontree.SetSearchQuery{Query: b.Query})
	}
	if b.Filter {
		st, _ = jsontree.Apply(st, jsontree.ToggleFilterMode{})
	}
	if b.Selection != "" {
		if id, err := st.Doc.ResolvePath(b.Selection); err == nil {
			st, _ = jsontree.Apply(st, jsontree.Select{Node: id})
		}
	}
	expanded := make(map[ir.ID]bool, len(b.Expanded))
	expanded[st.Doc.Root] = true
	for _, p := range b.Expanded {
		if id, err := st.Doc.ResolvePath(p); err == nil {
			expanded[id] = true
		}
	}
	// merge with what query expansion already opened
	for id := range st.Expanded {
		expanded[id] = true
	}
	next := *st
	next.Expanded = expanded
	return &next, nil
}

func (b *Bundle) Marshal() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

func Unmarshal(d []byte) (*Bundle, error) {
	b := &Bundle{}
	if err := json.Unmarshal(d, b); err != nil {
		return nil, fmt.Errorf("invalid session bundle: %w", err)
	}
	return b, nil
}
