package ir

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Node is one element of a Document. Exactly one variant is populated,
// selected by Type:
//
//   - ObjectType: Keys and Children, parallel, same length
//   - ArrayType: Children
//   - StringType/NumberType/BoolType/NullType: the matching scalar field
//
// Nodes never reference each other directly; children are held by ID and
// resolved through the owning Document.
type Node struct {
	ID   ID
	Type Type

	Keys     []string
	Children []ID

	String string
	Number float64
	Bool   bool
}

func (n *Node) Clone() *Node {
	res := &Node{
		ID:     n.ID,
		Type:   n.Type,
		String: n.String,
		Number: n.Number,
		Bool:   n.Bool,
	}
	res.Keys = slices.Clone(n.Keys)
	res.Children = slices.Clone(n.Children)
	return res
}

// KeyIndex returns the position of key in an object node, or -1.
func (n *Node) KeyIndex(key string) int {
	return slices.Index(n.Keys, key)
}

// ChildIndex returns the position of child in Children, or -1.
func (n *Node) ChildIndex(child ID) int {
	return slices.Index(n.Children, child)
}

// ScalarString renders a leaf node's payload the way search and
// breadcrumbs display it: numbers in decimal, booleans as true/false,
// null as "null".
func (n *Node) ScalarString() string {
	switch n.Type {
	case StringType:
		return n.String
	case NumberType:
		return strconv.FormatFloat(n.Number, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(n.Bool)
	case NullType:
		return "null"
	default:
		return ""
	}
}

// Document is an arena of nodes reachable from Root.
type Document struct {
	Root  ID
	Nodes map[ID]*Node
}

func (d *Document) Node(id ID) *Node {
	return d.Nodes[id]
}

func (d *Document) Has(id ID) bool {
	_, ok := d.Nodes[id]
	return ok
}

func (d *Document) Len() int {
	return len(d.Nodes)
}

// Get returns the value node bound to field in the object node id, or nil.
func (d *Document) Get(id ID, field string) *Node {
	n := d.Nodes[id]
	if n == nil || n.Type != ObjectType {
		return nil
	}
	i := n.KeyIndex(field)
	if i == -1 {
		return nil
	}
	return d.Nodes[n.Children[i]]
}

func (d *Document) Clone() *Document {
	res := &Document{
		Root:  d.Root,
		Nodes: make(map[ID]*Node, len(d.Nodes)),
	}
	for id, n := range d.Nodes {
		res.Nodes[id] = n.Clone()
	}
	return res
}

// Parents derives the child->parent map. The root has no entry.
func (d *Document) Parents() map[ID]ID {
	res := make(map[ID]ID, len(d.Nodes))
	for id, n := range d.Nodes {
		for _, c := range n.Children {
			res[c] = id
		}
	}
	return res
}

// Visit walks the subtree at id depth first, object members before array
// elements is moot since a node is one or the other; children are visited
// in sequence order. f is called pre and post, as in a sax-style pass;
// returning false from the pre call skips the children.
func (d *Document) Visit(id ID, f func(n *Node, isPost bool) bool) {
	n := d.Nodes[id]
	if n == nil {
		return
	}
	if f(n, false) {
		for _, c := range n.Children {
			d.Visit(c, f)
		}
	}
	f(n, true)
}

// Build converts a plain nested value into a Document, allocating a fresh
// ID per value in source order. Any value producible by the parse boundary
// is representable, so Build does not fail; unsupported Go values map to
// null.
func Build(v any) *Document {
	d := &Document{Nodes: map[ID]*Node{}}
	d.Root = d.add(v)
	return d
}

func (d *Document) add(v any) ID {
	n := &Node{ID: NewID()}
	switch x := v.(type) {
	case Object:
		n.Type = ObjectType
		n.Keys = make([]string, len(x))
		n.Children = make([]ID, len(x))
		for i := range x {
			n.Keys[i] = x[i].Key
			n.Children[i] = d.add(x[i].Value)
		}
	case Array:
		n.Type = ArrayType
		n.Children = make([]ID, len(x))
		for i := range x {
			n.Children[i] = d.add(x[i])
		}
	case string:
		n.Type = StringType
		n.String = x
	case float64:
		n.Type = NumberType
		n.Number = x
	case int:
		n.Type = NumberType
		n.Number = float64(x)
	case bool:
		n.Type = BoolType
		n.Bool = x
	case nil:
		n.Type = NullType
	default:
		n.Type = NullType
	}
	d.Nodes[n.ID] = n
	return n.ID
}

// Value reconstructs the plain nested value from Root outward, the inverse
// of Build.
func (d *Document) Value() any {
	return d.value(d.Root)
}

// ValueAt reconstructs the plain value of the subtree at id.
func (d *Document) ValueAt(id ID) any {
	return d.value(id)
}

func (d *Document) value(id ID) any {
	n := d.Nodes[id]
	if n == nil {
		return nil
	}
	switch n.Type {
	case ObjectType:
		res := make(Object, len(n.Children))
		for i, c := range n.Children {
			res[i] = Member{Key: n.Keys[i], Value: d.value(c)}
		}
		return res
	case ArrayType:
		res := make(Array, len(n.Children))
		for i, c := range n.Children {
			res[i] = d.value(c)
		}
		return res
	case StringType:
		return n.String
	case NumberType:
		return n.Number
	case BoolType:
		return n.Bool
	default:
		return nil
	}
}

// Validate checks the structural invariants of the arena: the root is
// present, every child reference resolves, no node has two parents or is
// its own ancestor, object keys are unique per object, numbers are finite,
// and no unreachable node is retained.
func (d *Document) Validate() error {
	if d.Root == NoID {
		return fmt.Errorf("%w: no root", ErrInvalidDoc)
	}
	if d.Nodes[d.Root] == nil {
		return fmt.Errorf("%w: root %s not in node map", ErrInvalidDoc, d.Root)
	}
	parentOf := make(map[ID]ID, len(d.Nodes))
	for id, n := range d.Nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node keyed %s carries id %s", ErrInvalidDoc, id, n.ID)
		}
		if n.Type == ObjectType {
			if len(n.Keys) != len(n.Children) {
				return fmt.Errorf("%w: object %s has %d keys, %d children",
					ErrInvalidDoc, id, len(n.Keys), len(n.Children))
			}
			seen := make(map[string]bool, len(n.Keys))
			for _, k := range n.Keys {
				if seen[k] {
					return fmt.Errorf("%w: duplicate key %q in object %s", ErrInvalidDoc, k, id)
				}
				seen[k] = true
			}
		}
		if n.Type == NumberType {
			if math.IsNaN(n.Number) || math.IsInf(n.Number, 0) {
				return fmt.Errorf("%w: non-finite number in node %s", ErrInvalidDoc, id)
			}
		}
		for _, c := range n.Children {
			if d.Nodes[c] == nil {
				return fmt.Errorf("%w: node %s references missing child %s", ErrInvalidDoc, id, c)
			}
			if p, ok := parentOf[c]; ok {
				return fmt.Errorf("%w: node %s has two parents (%s, %s)", ErrInvalidDoc, c, p, id)
			}
			parentOf[c] = id
		}
	}
	if _, ok := parentOf[d.Root]; ok {
		return fmt.Errorf("%w: root %s has a parent", ErrInvalidDoc, d.Root)
	}
	reached := make(map[ID]bool, len(d.Nodes))
	d.Visit(d.Root, func(n *Node, isPost bool) bool {
		if !isPost {
			if reached[n.ID] {
				return false // cycle; caught below by count mismatch
			}
			reached[n.ID] = true
		}
		return true
	})
	if len(reached) != len(d.Nodes) {
		return fmt.Errorf("%w: %d of %d nodes reachable from root",
			ErrInvalidDoc, len(reached), len(d.Nodes))
	}
	return nil
}
