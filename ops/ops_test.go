package ops

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/signadot/jsontree/ir"
)

// mustResolve builds the fixture lookups; fixtures are static so a bad
// path is a test bug.
func mustResolve(t *testing.T, d *ir.Document, path string) ir.ID {
	t.Helper()
	id, err := d.ResolvePath(path)
	if err != nil {
		t.Fatalf("resolve %s: %v", path, err)
	}
	return id
}

func sampleDoc() *ir.Document {
	return ir.Build(ir.Object{
		{Key: "name", Value: "app"},
		{Key: "replicas", Value: float64(3)},
		{Key: "spec", Value: ir.Object{
			{Key: "ports", Value: ir.Array{float64(80), float64(443)}},
			{Key: "debug", Value: false},
		}},
	})
}

func TestEdit(t *testing.T) {
	doc := sampleDoc()
	id := mustResolve(t, doc, "$.replicas")
	res, focus, err := Edit(doc, id, ir.NumberType, float64(5))
	if err != nil {
		t.Fatal(err)
	}
	if focus != id {
		t.Errorf("focus %s, want the edited node %s", focus, id)
	}
	if got := res.Node(id).Number; got != 5 {
		t.Errorf("got %v want 5", got)
	}
	if got := doc.Node(id).Number; got != 3 {
		t.Errorf("input document changed: %v", got)
	}
}

func TestEditRetypes(t *testing.T) {
	doc := sampleDoc()
	id := mustResolve(t, doc, "$.spec.debug")
	res, _, err := Edit(doc, id, ir.StringType, "verbose")
	if err != nil {
		t.Fatal(err)
	}
	n := res.Node(id)
	if n.Type != ir.StringType || n.String != "verbose" {
		t.Errorf("got %s %q", n.Type, n.String)
	}
	if n.Bool {
		t.Error("stale bool payload after retype")
	}
}

func TestEditRejects(t *testing.T) {
	doc := sampleDoc()
	num := mustResolve(t, doc, "$.replicas")
	spec := mustResolve(t, doc, "$.spec")
	ports := mustResolve(t, doc, "$.spec.ports")
	tests := []struct {
		name  string
		id    ir.ID
		typ   ir.Type
		value any
		want  error
	}{
		{"missing node", ir.NewID(), ir.NumberType, float64(1), ErrNotFound},
		{"container type", num, ir.ObjectType, nil, ErrKindMismatch},
		{"object target", spec, ir.StringType, "x", ErrKindMismatch},
		{"array target", ports, ir.NullType, nil, ErrKindMismatch},
		{"non-numeric value", num, ir.NumberType, "abc", ErrBadNumber},
		{"nan", num, ir.NumberType, math.NaN(), ErrBadNumber},
		{"inf", num, ir.NumberType, math.Inf(1), ErrBadNumber},
		{"bool mismatch", num, ir.BoolType, "true", ErrKindMismatch},
		{"string mismatch", num, ir.StringType, float64(1), ErrKindMismatch},
	}
	for _, test := range tests {
		res, _, err := Edit(doc, test.id, test.typ, test.value)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v want %v", test.name, err, test.want)
		}
		if res != doc {
			t.Errorf("%s: rejected edit returned a new document", test.name)
		}
	}
	if doc.Node(num).Number != 3 {
		t.Error("input document changed")
	}
}

func TestEditRejectsEmptyContainer(t *testing.T) {
	doc := ir.Build(ir.Object{
		{Key: "a", Value: ir.Object{}},
		{Key: "b", Value: ir.Array{}},
	})
	for _, p := range []string{"$.a", "$.b"} {
		id := mustResolve(t, doc, p)
		res, _, err := Edit(doc, id, ir.StringType, "x")
		if !errors.Is(err, ErrKindMismatch) {
			t.Errorf("%s: got %v want ErrKindMismatch", p, err)
		}
		if res != doc || doc.Node(id).Type == ir.StringType {
			t.Errorf("%s: rejected edit changed the document", p)
		}
	}
}

func TestRenameKey(t *testing.T) {
	doc := sampleDoc()
	parent := doc.Root
	child := mustResolve(t, doc, "$.replicas")
	res, focus, err := RenameKey(doc, parent, child, "instances")
	if err != nil {
		t.Fatal(err)
	}
	if focus != child {
		t.Errorf("focus %s want %s", focus, child)
	}
	if res.Get(res.Root, "instances") == nil {
		t.Error("no instances entry after rename")
	}
	if res.Get(res.Root, "replicas") != nil {
		t.Error("old key survived rename")
	}
	if !res.Has(child) || res.Node(child).Number != 3 {
		t.Error("renamed entry lost its value node")
	}
}

func TestRenameKeyRejects(t *testing.T) {
	doc := sampleDoc()
	child := mustResolve(t, doc, "$.replicas")
	tests := []struct {
		name   string
		parent ir.ID
		child  ir.ID
		key    string
		want   error
	}{
		{"blank key", doc.Root, child, "", ErrEmptyKey},
		{"whitespace key", doc.Root, child, "  ", ErrEmptyKey},
		{"duplicate key", doc.Root, child, "name", ErrDuplicateKey},
		{"missing parent", ir.NewID(), child, "x", ErrNotFound},
		{"not a child", doc.Root, ir.NewID(), "x", ErrNotFound},
		{"leaf parent", child, child, "x", ErrKindMismatch},
	}
	for _, test := range tests {
		res, _, err := RenameKey(doc, test.parent, test.child, test.key)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v want %v", test.name, err, test.want)
		}
		if res != doc {
			t.Errorf("%s: rejected rename returned a new document", test.name)
		}
	}
}

func TestRenameKeyToItself(t *testing.T) {
	doc := sampleDoc()
	child := mustResolve(t, doc, "$.replicas")
	if _, _, err := RenameKey(doc, doc.Root, child, "replicas"); err != nil {
		t.Errorf("self rename rejected: %v", err)
	}
}

func TestAddToObject(t *testing.T) {
	doc := sampleDoc()
	res, id, err := Add(doc, doc.Root, "env", ir.ObjectType)
	if err != nil {
		t.Fatal(err)
	}
	n := res.Node(id)
	if n == nil || n.Type != ir.ObjectType || len(n.Children) != 0 {
		t.Fatalf("got %v", n)
	}
	root := res.Node(res.Root)
	if root.Keys[len(root.Keys)-1] != "env" {
		t.Error("new entry is not last")
	}
	if doc.Len() != res.Len()-1 {
		t.Errorf("got %d nodes want %d", res.Len(), doc.Len()+1)
	}
}

func TestAddToArray(t *testing.T) {
	doc := sampleDoc()
	arr := mustResolve(t, doc, "$.spec.ports")
	res, id, err := Add(doc, arr, "", ir.NullType)
	if err != nil {
		t.Fatal(err)
	}
	n := res.Node(arr)
	if len(n.Children) != 3 || n.Children[2] != id {
		t.Errorf("got children %v", n.Children)
	}
	if res.Node(id).Type != ir.NullType {
		t.Errorf("got %s", res.Node(id).Type)
	}
}

func TestAddRejects(t *testing.T) {
	doc := sampleDoc()
	leaf := mustResolve(t, doc, "$.name")
	tests := []struct {
		name   string
		parent ir.ID
		key    string
		want   error
	}{
		{"duplicate key", doc.Root, "name", ErrDuplicateKey},
		{"blank key in object", doc.Root, "", ErrEmptyKey},
		{"missing parent", ir.NewID(), "x", ErrNotFound},
		{"leaf parent", leaf, "x", ErrKindMismatch},
	}
	for _, test := range tests {
		res, _, err := Add(doc, test.parent, test.key, ir.NullType)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v want %v", test.name, err, test.want)
		}
		if res.Len() != doc.Len() {
			t.Errorf("%s: node count changed", test.name)
		}
	}
}

func TestDeleteCascades(t *testing.T) {
	doc := sampleDoc()
	spec := mustResolve(t, doc, "$.spec")
	before := doc.Len()
	res, focus, err := Delete(doc, doc.Root, spec)
	if err != nil {
		t.Fatal(err)
	}
	if focus != res.Root {
		t.Errorf("focus %s want parent %s", focus, res.Root)
	}
	// spec, ports, 80, 443, debug
	if got := res.Len(); got != before-5 {
		t.Errorf("got %d nodes want %d", got, before-5)
	}
	for id := range res.Nodes {
		if !doc.Has(id) {
			t.Errorf("delete introduced node %s", id)
		}
	}
	if res.Get(res.Root, "spec") != nil {
		t.Error("spec entry survived")
	}
	if doc.Len() != before {
		t.Error("input document changed")
	}
}

func TestDeleteRejects(t *testing.T) {
	doc := sampleDoc()
	spec := mustResolve(t, doc, "$.spec")
	ports := mustResolve(t, doc, "$.spec.ports")
	tests := []struct {
		name   string
		parent ir.ID
		child  ir.ID
	}{
		{"missing parent", ir.NewID(), spec},
		{"not a child", doc.Root, ports},
	}
	for _, test := range tests {
		res, _, err := Delete(doc, test.parent, test.child)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: got %v want ErrNotFound", test.name, err)
		}
		if res != doc {
			t.Errorf("%s: rejected delete returned a new document", test.name)
		}
	}
}

func TestMoveItem(t *testing.T) {
	doc := sampleDoc()
	arr := mustResolve(t, doc, "$.spec.ports")
	first := mustResolve(t, doc, "$.spec.ports[0]")

	res, focus, err := MoveItem(doc, arr, first, 1)
	if err != nil {
		t.Fatal(err)
	}
	if focus != first {
		t.Errorf("focus %s want moved node %s", focus, first)
	}
	if got := res.ValueAt(arr); !reflect.DeepEqual(got, ir.Array{float64(443), float64(80)}) {
		t.Errorf("got %v", got)
	}
	if got := doc.ValueAt(arr); !reflect.DeepEqual(got, ir.Array{float64(80), float64(443)}) {
		t.Errorf("input document changed: %v", got)
	}
}

func TestMoveItemBoundary(t *testing.T) {
	doc := sampleDoc()
	arr := mustResolve(t, doc, "$.spec.ports")
	first := mustResolve(t, doc, "$.spec.ports[0]")
	last := mustResolve(t, doc, "$.spec.ports[1]")

	if _, _, err := MoveItem(doc, arr, first, -1); !errors.Is(err, ErrAtBoundary) {
		t.Errorf("move first up: got %v", err)
	}
	if _, _, err := MoveItem(doc, arr, last, 1); !errors.Is(err, ErrAtBoundary) {
		t.Errorf("move last down: got %v", err)
	}
}

func TestMoveItemRejects(t *testing.T) {
	doc := sampleDoc()
	arr := mustResolve(t, doc, "$.spec.ports")
	first := mustResolve(t, doc, "$.spec.ports[0]")
	spec := mustResolve(t, doc, "$.spec")

	if _, _, err := MoveItem(doc, spec, first, 1); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("object parent: got %v", err)
	}
	if _, _, err := MoveItem(doc, arr, first, 2); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("direction 2: got %v", err)
	}
	if _, _, err := MoveItem(doc, arr, ir.NewID(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown child: got %v", err)
	}
}
