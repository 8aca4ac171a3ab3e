package jsontree

import (
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/parse"
)

// Command is the closed set of state transitions the engine accepts.
type Command interface {
	isCommand()
}

// EditPrimitive replaces a scalar node's payload and, optionally, its
// type. Value must suit Type (string, float64, bool, or nil).
type EditPrimitive struct {
	Node  ir.ID
	Type  ir.Type
	Value any
}

// RenameKey renames the object entry in Parent pointing at Child.
type RenameKey struct {
	Parent ir.ID
	Child  ir.ID
	NewKey string
}

// AddNode appends a fresh node of Type to Parent. Key is required for
// object parents and ignored for array parents.
type AddNode struct {
	Parent ir.ID
	Key    string
	Type   ir.Type
}

// DeleteNode removes Child from Parent along with its whole subtree.
type DeleteNode struct {
	Parent ir.ID
	Child  ir.ID
}

// MoveArrayItem swaps Child with its neighbor: Direction -1 moves it up,
// +1 down. Boundary moves are silent no-ops.
type MoveArrayItem struct {
	Parent    ir.ID
	Child     ir.ID
	Direction int
}

// SortKeys sorts object keys recursively under Node, or the whole
// document when WholeDoc is set.
type SortKeys struct {
	Node     ir.ID
	WholeDoc bool
}

// LoadText replaces the whole document from new text. Parse failures
// leave the current document and text untouched.
type LoadText struct {
	Text   []byte
	Format parse.Format
}

// SetSearchQuery replaces the substring query. Blank queries clear the
// match list.
type SetSearchQuery struct {
	Query string
}

// SetFilterExpr runs a compiled expression filter over the anchored
// subtree and installs the result as the match list. An empty Source
// clears it.
type SetFilterExpr struct {
	Source string
}

// MoveMatch moves the active match by Delta, wrapping.
type MoveMatch struct {
	Delta int
}

// ToggleFilterMode flips filter-mode visibility narrowing.
type ToggleFilterMode struct{}

// AnchorTo focuses the viewport on Node. Anchoring to a missing node is a
// silent no-op.
type AnchorTo struct {
	Node ir.ID
}

// ToggleExpand flips one node's expansion.
type ToggleExpand struct {
	Node ir.ID
}

// ExpandAll expands every container under the current anchor root.
type ExpandAll struct{}

// CollapseAll collapses every container under the current anchor root.
type CollapseAll struct{}

// Select changes the selected node.
type Select struct {
	Node ir.ID
}

// SetOutputMode switches the text mirror between formatted and wire form.
type SetOutputMode struct {
	Mode   encode.Mode
	Indent int
}

// Undo restores the most recent history entry.
type Undo struct{}

// Redo reapplies the most recently undone mutation.
type Redo struct{}

func (EditPrimitive) isCommand()    {}
func (RenameKey) isCommand()        {}
func (AddNode) isCommand()          {}
func (DeleteNode) isCommand()       {}
func (MoveArrayItem) isCommand()    {}
func (SortKeys) isCommand()         {}
func (LoadText) isCommand()         {}
func (SetSearchQuery) isCommand()   {}
func (SetFilterExpr) isCommand()    {}
func (MoveMatch) isCommand()        {}
func (ToggleFilterMode) isCommand() {}
func (AnchorTo) isCommand()         {}
func (ToggleExpand) isCommand()     {}
func (ExpandAll) isCommand()        {}
func (CollapseAll) isCommand()      {}
func (Select) isCommand()           {}
func (SetOutputMode) isCommand()    {}
func (Undo) isCommand()             {}
func (Redo) isCommand()             {}

// Severity grades a Notice.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Notice is an optional user-facing message accompanying a transition.
type Notice struct {
	Severity Severity
	Message  string
}

func errNotice(err error) *Notice {
	return &Notice{Severity: Error, Message: err.Error()}
}
