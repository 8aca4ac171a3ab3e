package search

import (
	"reflect"
	"testing"

	"github.com/signadot/jsontree/ir"
)

func TestFindExpr(t *testing.T) {
	doc := ir.Build(ir.Object{
		{Key: "name", Value: "app"},
		{Key: "replicas", Value: float64(3)},
		{Key: "spec", Value: ir.Object{
			{Key: "ports", Value: ir.Array{float64(80), float64(8080)}},
			{Key: "debug", Value: true},
		}},
	})
	tests := []struct {
		src  string
		want []string
	}{
		{`type == "Number" && value > 100`, []string{"$.spec.ports[1]"}},
		{`key == "debug"`, []string{"$.spec.debug"}},
		{`key contains "name"`, []string{"$.name"}},
		{`type == "Bool" && value`, []string{"$.spec.debug"}},
		{`depth == 1`, []string{"$.name", "$.replicas", "$.spec"}},
		{`path == "$.spec.ports"`, []string{"$.spec.ports"}},
		{`type == "String" && value == "nope"`, nil},
	}
	for _, test := range tests {
		prg, err := CompileFilter(test.src)
		if err != nil {
			t.Errorf("%s: %v", test.src, err)
			continue
		}
		ids, err := FindExpr(doc, doc.Root, prg)
		if err != nil {
			t.Errorf("%s: %v", test.src, err)
			continue
		}
		if got := paths(doc, ids); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v want %v", test.src, got, test.want)
		}
	}
}

func TestCompileFilterErrors(t *testing.T) {
	for _, src := range []string{`value +`, `nosuchident > 2`, `"not a bool"`} {
		if _, err := CompileFilter(src); err == nil {
			t.Errorf("%s: compiled", src)
		}
	}
}

func TestFindExprScoped(t *testing.T) {
	doc := ir.Build(ir.Object{
		{Key: "a", Value: ir.Object{{Key: "k", Value: float64(1)}}},
		{Key: "b", Value: ir.Object{{Key: "k", Value: float64(2)}}},
	})
	sub, err := doc.ResolvePath("$.b")
	if err != nil {
		t.Fatal(err)
	}
	prg, err := CompileFilter(`key == "k"`)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := FindExpr(doc, sub, prg)
	if err != nil {
		t.Fatal(err)
	}
	// paths are relative to the search root
	if got := len(ids); got != 1 {
		t.Fatalf("got %d matches", got)
	}
	if doc.PathOf(ids[0]) != "$.b.k" {
		t.Errorf("got %s", doc.PathOf(ids[0]))
	}
}

func TestFindExprMissingRoot(t *testing.T) {
	doc := ir.Build(nil)
	prg, err := CompileFilter(`true`)
	if err != nil {
		t.Fatal(err)
	}
	ids, err := FindExpr(doc, ir.NewID(), prg)
	if err != nil || ids != nil {
		t.Errorf("got %v, %v", ids, err)
	}
}
