package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/parse"
)

func readInput(cc *cli.Context, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", file, err)
	}
	return d, nil
}

// loadState reads one document into a fresh engine state.
func loadState(cfg *MainConfig, cc *cli.Context, file string) (*jsontree.State, error) {
	d, err := readInput(cc, file)
	if err != nil {
		return nil, err
	}
	fmat := parse.JSONFormat
	if cfg.Y {
		fmat = parse.YAMLFormat
	}
	st := jsontree.New()
	st, notice := jsontree.Apply(st, jsontree.LoadText{Text: d, Format: fmat})
	if err := noticeErr(notice); err != nil {
		return nil, err
	}
	return st, nil
}

func noticeErr(n *jsontree.Notice) error {
	if n == nil || n.Severity != jsontree.Error {
		return nil
	}
	return errors.New(n.Message)
}

// resolveArg turns a $-path argument into a node id.
func resolveArg(st *jsontree.State, path string) (ir.ID, error) {
	id, err := st.Doc.ResolvePath(path)
	if err != nil {
		return ir.NoID, fmt.Errorf("%w: %q", cli.ErrUsage, path)
	}
	return id, nil
}

// parentOf returns the parent of id; ops on entries address parent+child.
func parentOf(st *jsontree.State, id ir.ID) (ir.ID, error) {
	p, ok := st.Doc.Parents()[id]
	if !ok {
		return ir.NoID, fmt.Errorf("%w: node has no parent", cli.ErrUsage)
	}
	return p, nil
}

// scalarArg parses a value literal into the (type, payload) pair the edit
// primitive takes. Unquoted literals that are not valid json read as
// strings.
func scalarArg(v string) (ir.Type, any, error) {
	parsed, err := parse.Parse([]byte(v))
	if err != nil {
		return ir.StringType, v, nil
	}
	switch x := parsed.(type) {
	case string:
		return ir.StringType, x, nil
	case float64:
		return ir.NumberType, x, nil
	case bool:
		return ir.BoolType, x, nil
	case nil:
		return ir.NullType, nil, nil
	default:
		return 0, nil, fmt.Errorf("%w: %q is not a scalar", cli.ErrUsage, v)
	}
}

func parseType(v string) (ir.Type, error) {
	t, ok := map[string]ir.Type{
		"string": ir.StringType,
		"number": ir.NumberType,
		"bool":   ir.BoolType,
		"null":   ir.NullType,
		"object": ir.ObjectType,
		"array":  ir.ArrayType,
	}[v]
	if !ok {
		return 0, fmt.Errorf("%w: unknown type %q", cli.ErrUsage, v)
	}
	return t, nil
}

func writeState(cfg *MainConfig, cc *cli.Context, st *jsontree.State) error {
	return writeValue(cfg, cc, st.Doc.Value())
}

func writeValue(cfg *MainConfig, cc *cli.Context, v any) error {
	if err := encodeValue(cfg, cc.Out, v); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
