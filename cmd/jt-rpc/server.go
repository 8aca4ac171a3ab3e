package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.lsp.dev/jsonrpc2"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/parse"
	"github.com/signadot/jsontree/session"
)

// server holds the engine state behind the JSON-RPC surface. jsonrpc2
// dispatches requests one goroutine at a time per handler invocation, and
// the engine requires single-writer discipline anyway, so handle applies
// commands sequentially.
type server struct {
	sessionFile string
	st          *jsontree.State
}

func newServer(sessionFile string) (*server, error) {
	st := jsontree.New()
	if sessionFile != "" {
		b, err := session.Load(sessionFile)
		switch {
		case err == nil:
			st, err = session.Restore(b)
			if err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	return &server{sessionFile: sessionFile, st: st}, nil
}

func (s *server) shutdown() error {
	if s.sessionFile == "" {
		return nil
	}
	return session.Save(s.sessionFile, session.Capture(s.st))
}

type loadParams struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"`
}

type applyParams struct {
	Op        string  `json:"op"`
	Path      string  `json:"path,omitempty"`
	Key       string  `json:"key,omitempty"`
	Type      string  `json:"type,omitempty"`
	Value     any     `json:"value,omitempty"`
	Direction int     `json:"direction,omitempty"`
	Query     string  `json:"query,omitempty"`
	Delta     int     `json:"delta,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	Indent    int     `json:"indent,omitempty"`
}

type noticeResult struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type stateResult struct {
	Text      string        `json:"text"`
	Selection string        `json:"selection"`
	Anchor    string        `json:"anchor"`
	Matches   []string      `json:"matches,omitempty"`
	Notice    *noticeResult `json:"notice,omitempty"`
}

func (s *server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	switch req.Method() {
	case "document/load":
		params := &loadParams{}
		if err := json.Unmarshal(req.Params(), params); err != nil {
			return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
		}
		fmat := parse.JSONFormat
		if params.Format == "yaml" {
			fmat = parse.YAMLFormat
		}
		return s.apply(ctx, reply, jsontree.LoadText{Text: []byte(params.Text), Format: fmat})
	case "document/apply":
		params := &applyParams{}
		if err := json.Unmarshal(req.Params(), params); err != nil {
			return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
		}
		cmd, err := s.command(params)
		if err != nil {
			return reply(ctx, nil, err)
		}
		return s.apply(ctx, reply, cmd)
	case "document/undo":
		return s.apply(ctx, reply, jsontree.Undo{})
	case "document/redo":
		return s.apply(ctx, reply, jsontree.Redo{})
	case "document/search":
		params := &applyParams{}
		if err := json.Unmarshal(req.Params(), params); err != nil {
			return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrParse, err))
		}
		return s.apply(ctx, reply, jsontree.SetSearchQuery{Query: params.Query})
	case "document/state":
		return reply(ctx, s.result(nil), nil)
	default:
		return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
	}
}

// command translates wire params, with nodes addressed by $-path, into an
// engine command.
func (s *server) command(p *applyParams) (jsontree.Command, error) {
	resolve := func(path string) (ir.ID, error) {
		id, err := s.st.Doc.ResolvePath(path)
		if err != nil {
			return ir.NoID, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err)
		}
		return id, nil
	}
	parent := func(id ir.ID) (ir.ID, error) {
		pid, ok := s.st.Doc.Parents()[id]
		if !ok {
			return ir.NoID, fmt.Errorf("%w: node has no parent", jsonrpc2.ErrInvalidParams)
		}
		return pid, nil
	}
	switch p.Op {
	case "edit":
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		typ, err := scalarType(p.Type, p.Value)
		if err != nil {
			return nil, err
		}
		return jsontree.EditPrimitive{Node: id, Type: typ, Value: p.Value}, nil
	case "rename":
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		pid, err := parent(id)
		if err != nil {
			return nil, err
		}
		return jsontree.RenameKey{Parent: pid, Child: id, NewKey: p.Key}, nil
	case "add":
		pid, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		typ, err := nodeType(p.Type)
		if err != nil {
			return nil, err
		}
		return jsontree.AddNode{Parent: pid, Key: p.Key, Type: typ}, nil
	case "delete":
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		pid, err := parent(id)
		if err != nil {
			return nil, err
		}
		return jsontree.DeleteNode{Parent: pid, Child: id}, nil
	case "move":
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		pid, err := parent(id)
		if err != nil {
			return nil, err
		}
		return jsontree.MoveArrayItem{Parent: pid, Child: id, Direction: p.Direction}, nil
	case "sort":
		if p.Path == "" || p.Path == "$" {
			return jsontree.SortKeys{WholeDoc: true}, nil
		}
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		return jsontree.SortKeys{Node: id}, nil
	case "anchor":
		id, err := resolve(p.Path)
		if err != nil {
			return nil, err
		}
		return jsontree.AnchorTo{Node: id}, nil
	case "move-match":
		return jsontree.MoveMatch{Delta: p.Delta}, nil
	case "toggle-filter":
		return jsontree.ToggleFilterMode{}, nil
	case "filter-expr":
		return jsontree.SetFilterExpr{Source: p.Query}, nil
	case "output-mode":
		m := encode.Formatted
		if p.Mode == "wire" {
			m = encode.Wire
		}
		return jsontree.SetOutputMode{Mode: m, Indent: p.Indent}, nil
	default:
		return nil, fmt.Errorf("%w: unknown op %q", jsonrpc2.ErrInvalidParams, p.Op)
	}
}

func (s *server) apply(ctx context.Context, reply jsonrpc2.Replier, cmd jsontree.Command) error {
	next, notice := jsontree.Apply(s.st, cmd)
	s.st = next
	return reply(ctx, s.result(notice), nil)
}

func (s *server) result(notice *jsontree.Notice) *stateResult {
	res := &stateResult{
		Text:      s.st.Text,
		Selection: s.st.Doc.PathOf(s.st.Selection),
		Anchor:    s.st.Doc.PathOf(s.st.AnchorRoot()),
	}
	for _, m := range s.st.Matcher.Matches {
		res.Matches = append(res.Matches, s.st.Doc.PathOf(m))
	}
	if notice != nil {
		res.Notice = &noticeResult{
			Severity: notice.Severity.String(),
			Message:  notice.Message,
		}
	}
	return res
}

func nodeType(v string) (ir.Type, error) {
	t, ok := map[string]ir.Type{
		"":       ir.NullType,
		"null":   ir.NullType,
		"bool":   ir.BoolType,
		"number": ir.NumberType,
		"string": ir.StringType,
		"object": ir.ObjectType,
		"array":  ir.ArrayType,
	}[v]
	if !ok {
		return 0, fmt.Errorf("%w: unknown type %q", jsonrpc2.ErrInvalidParams, v)
	}
	return t, nil
}

func scalarType(v string, value any) (ir.Type, error) {
	if v != "" {
		return nodeType(v)
	}
	switch value.(type) {
	case string:
		return ir.StringType, nil
	case float64:
		return ir.NumberType, nil
	case bool:
		return ir.BoolType, nil
	case nil:
		return ir.NullType, nil
	default:
		return 0, fmt.Errorf("%w: value %T is not a scalar", jsonrpc2.ErrInvalidParams, value)
	}
}
