// Package history is the bounded undo/redo manager. Entries are full,
// independent snapshots of engine state; mutating the live document is
// never observable through a recorded snapshot.
package history

import (
	"maps"
	"slices"

	"github.com/signadot/jsontree/debug"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
)

// DefaultLimit is the default capacity of each stack.
const DefaultLimit = 50

// Snapshot is one history entry: the document, its text mirror, and the
// view state restored alongside them.
type Snapshot struct {
	Doc       *ir.Document
	Text      string
	Expanded  map[ir.ID]bool
	Selection ir.ID
	Anchor    []ir.ID
	Mode      encode.Mode
	Indent    int
}

func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Doc:       s.Doc.Clone(),
		Text:      s.Text,
		Expanded:  maps.Clone(s.Expanded),
		Selection: s.Selection,
		Anchor:    slices.Clone(s.Anchor),
		Mode:      s.Mode,
		Indent:    s.Indent,
	}
}

type History struct {
	limit int
	undo  []*Snapshot
	redo  []*Snapshot
}

func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

func (h *History) Limit() int    { return h.limit }
func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
func (h *History) UndoLen() int  { return len(h.undo) }
func (h *History) RedoLen() int  { return len(h.redo) }

// Record pushes a pre-mutation snapshot onto the undo stack and clears the
// redo stack. The oldest entry is evicted at capacity.
func (h *History) Record(s *Snapshot) {
	if debug.History() {
		debug.Logf("history record (undo %d, redo %d)\n", len(h.undo), len(h.redo))
	}
	h.undo = append(h.undo, s.Clone())
	if len(h.undo) > h.limit {
		h.undo = slices.Delete(h.undo, 0, len(h.undo)-h.limit)
	}
	h.redo = h.redo[:0]
}

// Undo pops the most recent undo entry, pushing current onto the redo
// stack. Reports false, leaving both stacks alone, when there is nothing
// to undo.
func (h *History) Undo(current *Snapshot) (*Snapshot, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	if len(h.redo) > h.limit {
		h.redo = slices.Delete(h.redo, 0, len(h.redo)-h.limit)
	}
	return top, true
}

// Redo is symmetric to Undo.
func (h *History) Redo(current *Snapshot) (*Snapshot, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	if len(h.undo) > h.limit {
		h.undo = slices.Delete(h.undo, 0, len(h.undo)-h.limit)
	}
	return top, true
}
