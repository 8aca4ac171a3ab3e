package ir

import (
	"errors"
	"reflect"
	"testing"
)

type pathTest struct {
	Path string
	Doc  any
	Res  any
	Err  bool
}

var pathTests = []pathTest{
	{
		Path: "$",
		Doc:  nil,
		Res:  nil,
	},
	{
		Path: "$.f",
		Doc:  Object{{Key: "f", Value: float64(1)}},
		Res:  float64(1),
	},
	{
		Path: "$[0]",
		Doc:  Array{float64(1), float64(2), float64(3)},
		Res:  float64(1),
	},
	{
		Path: "$[1].f",
		Doc: Array{
			float64(0),
			Object{{Key: "f", Value: float64(2)}, {Key: "g", Value: float64(3)}},
		},
		Res: float64(2),
	},
	{
		Path: "$.f[3]",
		Doc: Object{
			{Key: "a", Value: Array{float64(1), float64(2)}},
			{Key: "f", Value: Array{float64(0), float64(1), float64(2), "three"}},
		},
		Res: "three",
	},
	{
		Path: "$.'f[3]'[2]",
		Doc: Object{
			{Key: "a", Value: Array{float64(1), float64(2)}},
			{Key: "f[3]", Value: Array{float64(0), float64(1), float64(2), "three"}},
		},
		Res: float64(2),
	},
	{
		Path: "$.'$f[\\'3]'[2]",
		Doc: Object{
			{Key: "$f['3]", Value: Array{float64(0), float64(1), float64(2)}},
		},
		Res: float64(2),
	},
	{
		Path: "$.missing",
		Doc:  Object{{Key: "f", Value: float64(1)}},
		Err:  true,
	},
	{
		Path: "$[3]",
		Doc:  Array{float64(1)},
		Err:  true,
	},
	{
		Path: "$.f",
		Doc:  Array{float64(1)},
		Err:  true,
	},
	{
		Path: "$[0]",
		Doc:  Object{{Key: "f", Value: float64(1)}},
		Err:  true,
	},
}

func TestResolvePath(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		d := Build(pathTest.Doc)
		id, err := d.ResolvePath(pathTest.Path)
		if pathTest.Err {
			if err == nil {
				t.Errorf("%s: resolved to %s", pathTest.Path, id)
			} else if !errors.Is(err, ErrNoPath) {
				t.Errorf("%s: error %v does not wrap ErrNoPath", pathTest.Path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", pathTest.Path, err)
			continue
		}
		got := d.ValueAt(id)
		if !reflect.DeepEqual(got, pathTest.Res) {
			t.Errorf("%s: got %#v want %#v", pathTest.Path, got, pathTest.Res)
		}
	}
}

func TestPathOfRoundTrip(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		if pathTest.Err {
			continue
		}
		d := Build(pathTest.Doc)
		id, err := d.ResolvePath(pathTest.Path)
		if err != nil {
			t.Errorf("%s: %v", pathTest.Path, err)
			continue
		}
		rendered := d.PathOf(id)
		back, err := d.ResolvePath(rendered)
		if err != nil {
			t.Errorf("%s: rendered %q does not resolve: %v", pathTest.Path, rendered, err)
			continue
		}
		if back != id {
			t.Errorf("%s: rendered %q resolves to a different node", pathTest.Path, rendered)
		}
	}
}

func TestPathString(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		p, err := ParsePath(pathTest.Path)
		if err != nil {
			t.Errorf("%s: %v", pathTest.Path, err)
			continue
		}
		if got := p.String(); got != pathTest.Path {
			t.Errorf("got %q want %q", got, pathTest.Path)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, p := range []string{"", "f", "$f", "$.", "$[", "$[x]", "$.'unterminated"} {
		if _, err := ParsePath(p); err == nil {
			t.Errorf("%q: parsed", p)
		}
	}
}

func TestPathOfMissing(t *testing.T) {
	d := Build(Object{{Key: "a", Value: float64(1)}})
	if got := d.PathOf(NewID()); got != "" {
		t.Errorf("got %q for unknown id", got)
	}
}
