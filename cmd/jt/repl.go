package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/scott-cotton/cli"

	jsontree "github.com/signadot/jsontree"
	"github.com/signadot/jsontree/anchor"
	"github.com/signadot/jsontree/encode"
	"github.com/signadot/jsontree/ir"
	"github.com/signadot/jsontree/session"
)

var replHelp = `commands:
  open <file>            load a document
  show                   render the document
  text                   print the serialized text mirror
  get <path>             print the subtree at a $-path
  set <path> <value>     replace a scalar
  add <parent> <key> [type]  append a node ('' key for arrays)
  del <path>             delete a subtree
  ren <path> <new-key>   rename an object key
  mv <path> up|down      move an array element
  sort [path]            sort object keys
  find <query>           substring search under the anchor
  expr <expression>      expression filter under the anchor
  next / prev            move the active match
  filter                 toggle filter mode
  anchor <path>          focus a subtree ($ for the root)
  crumbs                 print the anchor breadcrumbs
  expand / collapse      bulk expand or collapse under the anchor
  mode wire|formatted    switch the output mode
  undo / redo            history
  help                   this text
  quit                   exit
`

func repl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Repl.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: repl [-s session] [file]", cli.ErrUsage)
	}

	st := jsontree.New()
	switch {
	case cfg.Session != "":
		b, err := session.Load(cfg.Session)
		switch {
		case err == nil:
			st, err = session.Restore(b)
			if err != nil {
				return err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return err
		}
	case len(args) == 1:
		st, err = loadState(cfg.MainConfig, cc, args[0])
		if err != nil {
			return err
		}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		in, err := line.Prompt(prompt(st))
		if err != nil {
			break
		}
		in = strings.TrimSpace(in)
		if in == "" {
			continue
		}
		line.AppendHistory(in)
		if in == "quit" || in == "q" || in == "exit" {
			break
		}
		next, out := evalRepl(cfg, st, in)
		st = next
		if out != "" {
			fmt.Fprint(cc.Out, out)
		}
	}

	if cfg.Session != "" {
		if err := session.Save(cfg.Session, session.Capture(st)); err != nil {
			return err
		}
	}
	return nil
}

func prompt(st *jsontree.State) string {
	p := st.Doc.PathOf(st.Selection)
	if p == "" {
		p = "$"
	}
	return p + "> "
}

// evalRepl applies one repl line and returns the next state plus output.
func evalRepl(cfg *ReplConfig, st *jsontree.State, in string) (*jsontree.State, string) {
	fields := strings.Fields(in)
	cmd, args := fields[0], fields[1:]

	resolve := func(p string) (ir.ID, bool) {
		id, err := st.Doc.ResolvePath(p)
		return id, err == nil
	}
	apply := func(c jsontree.Command) (*jsontree.State, string) {
		next, notice := jsontree.Apply(st, c)
		if notice != nil {
			return next, fmt.Sprintf("%s: %s\n", notice.Severity, notice.Message)
		}
		return next, ""
	}

	switch cmd {
	case "help", "?":
		return st, replHelp
	case "open":
		if len(args) != 1 {
			return st, "usage: open <file>\n"
		}
		d, err := os.ReadFile(args[0])
		if err != nil {
			return st, err.Error() + "\n"
		}
		return apply(jsontree.LoadText{Text: d})
	case "show":
		return st, encode.Format(st.Doc.Value(), st.Indent)
	case "text":
		return st, st.Text + "\n"
	case "get":
		if len(args) != 1 {
			return st, "usage: get <path>\n"
		}
		id, ok := resolve(args[0])
		if !ok {
			return st, "no such path\n"
		}
		return st, encode.Format(st.Doc.ValueAt(id), st.Indent)
	case "set":
		if len(args) < 2 {
			return st, "usage: set <path> <value>\n"
		}
		id, ok := resolve(args[0])
		if !ok {
			return st, "no such path\n"
		}
		typ, val, err := scalarArg(strings.Join(args[1:], " "))
		if err != nil {
			return st, err.Error() + "\n"
		}
		return apply(jsontree.EditPrimitive{Node: id, Type: typ, Value: val})
	case "add":
		if len(args) < 2 {
			return st, "usage: add <parent> <key> [type]\n"
		}
		id, ok := resolve(args[0])
		if !ok {
			return st, "no such path\n"
		}
		typ := ir.NullType
		if len(args) == 3 {
			var err error
			typ, err = parseType(args[2])
			if err != nil {
				return st, err.Error() + "\n"
			}
		}
		key := strings.Trim(args[1], "'\"")
		return apply(jsontree.AddNode{Parent: id, Key: key, Type: typ})
	case "del":
		id, parent, out := entryArgs(st, args, "del <path>")
		if out != "" {
			return st, out
		}
		return apply(jsontree.DeleteNode{Parent: parent, Child: id})
	case "ren":
		if len(args) != 2 {
			return st, "usage: ren <path> <new-key>\n"
		}
		id, parent, out := entryArgs(st, args[:1], "ren <path> <new-key>")
		if out != "" {
			return st, out
		}
		return apply(jsontree.RenameKey{Parent: parent, Child: id, NewKey: args[1]})
	case "mv":
		if len(args) != 2 || (args[1] != "up" && args[1] != "down") {
			return st, "usage: mv <path> up|down\n"
		}
		id, parent, out := entryArgs(st, args[:1], "mv <path> up|down")
		if out != "" {
			return st, out
		}
		dir := 1
		if args[1] == "up" {
			dir = -1
		}
		return apply(jsontree.MoveArrayItem{Parent: parent, Child: id, Direction: dir})
	case "sort":
		if len(args) == 1 {
			id, ok := resolve(args[0])
			if !ok {
				return st, "no such path\n"
			}
			return apply(jsontree.SortKeys{Node: id})
		}
		return apply(jsontree.SortKeys{WholeDoc: true})
	case "find":
		next, out := apply(jsontree.SetSearchQuery{Query: strings.Join(args, " ")})
		return next, out + matchSummary(next)
	case "expr":
		next, out := apply(jsontree.SetFilterExpr{Source: strings.Join(args, " ")})
		return next, out + matchSummary(next)
	case "next":
		next, out := apply(jsontree.MoveMatch{Delta: 1})
		return next, out + matchSummary(next)
	case "prev":
		next, out := apply(jsontree.MoveMatch{Delta: -1})
		return next, out + matchSummary(next)
	case "filter":
		next, _ := apply(jsontree.ToggleFilterMode{})
		return next, fmt.Sprintf("filter mode %v\n", next.FilterMode)
	case "anchor":
		if len(args) != 1 {
			return st, "usage: anchor <path>\n"
		}
		id, ok := resolve(args[0])
		if !ok {
			return st, "no such path\n"
		}
		return apply(jsontree.AnchorTo{Node: id})
	case "crumbs":
		var b strings.Builder
		for i, c := range anchor.Breadcrumbs(st.Doc, st.Anchor) {
			if i > 0 {
				b.WriteString(" > ")
			}
			b.WriteString(c.Label)
		}
		b.WriteString("\n")
		return st, b.String()
	case "expand":
		return apply(jsontree.ExpandAll{})
	case "collapse":
		return apply(jsontree.CollapseAll{})
	case "mode":
		if len(args) != 1 {
			return st, "usage: mode wire|formatted\n"
		}
		m := encode.Formatted
		if args[0] == "wire" {
			m = encode.Wire
		}
		return apply(jsontree.SetOutputMode{Mode: m})
	case "undo":
		return apply(jsontree.Undo{})
	case "redo":
		return apply(jsontree.Redo{})
	default:
		return st, fmt.Sprintf("unknown command %q (try help)\n", cmd)
	}
}

func entryArgs(st *jsontree.State, args []string, usage string) (id, parent ir.ID, out string) {
	if len(args) != 1 {
		return ir.NoID, ir.NoID, "usage: " + usage + "\n"
	}
	id, err := st.Doc.ResolvePath(args[0])
	if err != nil {
		return ir.NoID, ir.NoID, "no such path\n"
	}
	p, ok := st.Doc.Parents()[id]
	if !ok {
		return ir.NoID, ir.NoID, "node has no parent\n"
	}
	return id, p, ""
}

func matchSummary(st *jsontree.State) string {
	m := st.Matcher
	if len(m.Matches) == 0 {
		return "no matches\n"
	}
	return fmt.Sprintf("match %d/%d at %s\n",
		m.Active+1, len(m.Matches), st.Doc.PathOf(m.ActiveID()))
}
