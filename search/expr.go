package search

import (
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/jsontree/ir"
)

// FilterEnv is the environment one node presents to a compiled filter
// expression.
type FilterEnv struct {
	Key   string `expr:"key"`
	Type  string `expr:"type"`
	Value any    `expr:"value"`
	Path  string `expr:"path"`
	Depth int    `expr:"depth"`
}

// CompileFilter compiles a boolean filter expression, e.g.
//
//	type == "Number" && value > 10
//	key contains "name"
func CompileFilter(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(FilterEnv{}), expr.AsBool())
}

// FindExpr returns the ids under root whose filter environment satisfies
// prg, in the same depth first order Find uses.
func FindExpr(doc *ir.Document, root ir.ID, prg *vm.Program) ([]ir.ID, error) {
	if !doc.Has(root) {
		return nil, nil
	}
	var res []ir.ID
	var walk func(id ir.ID, key, path string, depth int) error
	walk = func(id ir.ID, key, path string, depth int) error {
		n := doc.Node(id)
		env := FilterEnv{
			Key:   key,
			Type:  n.Type.String(),
			Path:  path,
			Depth: depth,
		}
		switch n.Type {
		case ir.StringType:
			env.Value = n.String
		case ir.NumberType:
			env.Value = n.Number
		case ir.BoolType:
			env.Value = n.Bool
		}
		out, err := expr.Run(prg, env)
		if err != nil {
			return err
		}
		if ok, _ := out.(bool); ok {
			res = append(res, id)
		}
		switch n.Type {
		case ir.ObjectType:
			for i, c := range n.Children {
				childPath := path + "." + n.Keys[i]
				if err := walk(c, n.Keys[i], childPath, depth+1); err != nil {
					return err
				}
			}
		case ir.ArrayType:
			for i, c := range n.Children {
				childPath := path + "[" + strconv.Itoa(i) + "]"
				if err := walk(c, "", childPath, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root, "", "$", 0); err != nil {
		return nil, err
	}
	return res, nil
}
