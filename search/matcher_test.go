package search

import (
	"testing"

	"github.com/signadot/jsontree/ir"
)

func matcherDoc() *ir.Document {
	return ir.Build(ir.Object{
		{Key: "a", Value: "needle one"},
		{Key: "b", Value: "needle two"},
		{Key: "c", Value: "needle three"},
	})
}

func TestMatcherRematch(t *testing.T) {
	doc := matcherDoc()
	m := NewMatcher()
	if m.ActiveID() != ir.NoID {
		t.Error("fresh matcher has an active match")
	}
	m.Query = "needle"
	m.Rematch(doc, doc.Root)
	if len(m.Matches) != 3 || m.Active != 0 {
		t.Fatalf("got %d matches, active %d", len(m.Matches), m.Active)
	}
}

func TestMatcherActiveStability(t *testing.T) {
	doc := matcherDoc()
	m := NewMatcher()
	m.Query = "needle"
	m.Rematch(doc, doc.Root)
	m.Move(1)
	active := m.ActiveID()

	// the first entry stops matching; the active match survives by id
	doc2 := doc.Clone()
	doc2.Node(doc2.Get(doc2.Root, "a").ID).String = "nothing"
	m.Rematch(doc2, doc2.Root)
	if len(m.Matches) != 2 {
		t.Fatalf("got %d matches", len(m.Matches))
	}
	if m.ActiveID() != active {
		t.Errorf("active moved from %s to %s", active, m.ActiveID())
	}
	if m.Active != 0 {
		t.Errorf("active index %d, want 0 after the first entry dropped", m.Active)
	}
}

func TestMatcherActiveFallsBack(t *testing.T) {
	doc := matcherDoc()
	m := NewMatcher()
	m.Query = "needle"
	m.Rematch(doc, doc.Root)
	m.Move(2)
	prev := m.ActiveID()

	// the active entry stops matching; the first match takes over
	doc2 := doc.Clone()
	doc2.Node(prev).String = "nothing"
	m.Rematch(doc2, doc2.Root)
	if len(m.Matches) != 2 || m.Active != 0 {
		t.Fatalf("got %d matches, active %d", len(m.Matches), m.Active)
	}
	if m.ActiveID() == prev {
		t.Error("vanished match still active")
	}
}

func TestMatcherRematchEmpty(t *testing.T) {
	doc := matcherDoc()
	m := NewMatcher()
	m.Query = "absent"
	m.Rematch(doc, doc.Root)
	if len(m.Matches) != 0 || m.Active != -1 {
		t.Errorf("got %d matches, active %d", len(m.Matches), m.Active)
	}
	if m.ActiveID() != ir.NoID {
		t.Error("active id on empty match list")
	}
}

func TestMatcherMoveWraps(t *testing.T) {
	doc := matcherDoc()
	m := NewMatcher()
	m.Query = "needle"
	m.Rematch(doc, doc.Root)

	steps := []struct {
		delta int
		want  int
	}{
		{1, 1},
		{1, 2},
		{1, 0},  // wrap forward
		{-1, 2}, // wrap backward
		{-2, 0},
		{7, 1}, // delta larger than the list
	}
	for _, step := range steps {
		m.Move(step.delta)
		if m.Active != step.want {
			t.Fatalf("move %+d: got %d want %d", step.delta, m.Active, step.want)
		}
	}
}

func TestMatcherMoveEmpty(t *testing.T) {
	m := NewMatcher()
	m.Move(1)
	if m.Active != -1 {
		t.Errorf("got %d", m.Active)
	}
}
