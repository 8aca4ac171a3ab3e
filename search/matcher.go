package search

import "github.com/signadot/jsontree/ir"

// Matcher tracks the ordered match list and the active match across query
// and document changes.
type Matcher struct {
	Query   string
	Matches []ir.ID
	// Active indexes Matches; -1 means no active match.
	Active int
}

func NewMatcher() *Matcher {
	return &Matcher{Active: -1}
}

// ActiveID returns the id of the active match, or ir.NoID.
func (m *Matcher) ActiveID() ir.ID {
	if m.Active < 0 || m.Active >= len(m.Matches) {
		return ir.NoID
	}
	return m.Matches[m.Active]
}

// Rematch recomputes the match list for the current query and tries to
// keep the same logical match active by id. When the previous active id
// no longer matches, the first match becomes active; an empty list clears
// the active match.
func (m *Matcher) Rematch(doc *ir.Document, root ir.ID) {
	prev := m.ActiveID()
	m.Matches = Find(doc, root, m.Query)
	m.Active = -1
	if len(m.Matches) == 0 {
		return
	}
	m.Active = 0
	if prev == ir.NoID {
		return
	}
	for i, id := range m.Matches {
		if id == prev {
			m.Active = i
			return
		}
	}
}

// Move advances the active match by delta, wrapping at either end. A
// no-op when there are no matches.
func (m *Matcher) Move(delta int) {
	n := len(m.Matches)
	if n == 0 {
		return
	}
	m.Active = ((m.Active+delta)%n + n) % n
}
