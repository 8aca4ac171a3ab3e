package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// PathOf renders the $-rooted path of id, e.g. $.spec.containers[0].name.
// Returns "" when id is not in the document.
func (d *Document) PathOf(id ID) string {
	if id == d.Root {
		return "$"
	}
	if !d.Has(id) {
		return ""
	}
	parents := d.Parents()
	return d.pathOf(parents, id)
}

func (d *Document) pathOf(parents map[ID]ID, id ID) string {
	if id == d.Root {
		return "$"
	}
	pid, ok := parents[id]
	if !ok {
		return ""
	}
	p := d.Nodes[pid]
	i := p.ChildIndex(id)
	prefix := d.pathOf(parents, pid)
	switch p.Type {
	case ObjectType:
		return prefix + "." + pathField(p.Keys[i])
	case ArrayType:
		return prefix + "[" + strconv.Itoa(i) + "]"
	default:
		return prefix
	}
}

func pathField(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[]") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// Path is one step of a parsed $-path: a field selector or an array index.
type Path struct {
	Index *int
	Field *string
	Next  *Path
}

func (p *Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for x := p; x != nil; x = x.Next {
		if x.Field != nil {
			b.WriteString("." + pathField(*x.Field))
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(&b, "[%d]", *x.Index)
		}
	}
	return b.String()
}

func ParsePath(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	root := &Path{}
	if len(p) == 1 {
		return root, nil
	}
	if err := parseFrag(p[1:], root); err != nil {
		return nil, err
	}
	return root, nil
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		if len(rest) == 0 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(rest, next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		u64, err := strconv.ParseUint(frag[1:i+1], 10, 64)
		if err != nil {
			return err
		}
		index := int(u64)
		parent.Index = &index
		if len(frag) == i+2 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(frag[i+2:], next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// Resolve walks a parsed path from the document root and returns the ID of
// the addressed node. A path through a missing field or an out of range
// index resolves to ErrNoPath.
func (d *Document) Resolve(p *Path) (ID, error) {
	id := d.Root
	for x := p; x != nil; x = x.Next {
		n := d.Nodes[id]
		if n == nil {
			return NoID, fmt.Errorf("%w: dangling id %s", ErrNoPath, id)
		}
		switch {
		case x.Field != nil:
			if n.Type != ObjectType {
				return NoID, fmt.Errorf("%w: expected object, got %s", ErrNoPath, n.Type)
			}
			i := n.KeyIndex(*x.Field)
			if i == -1 {
				return NoID, fmt.Errorf("%w: no field %q", ErrNoPath, *x.Field)
			}
			id = n.Children[i]
		case x.Index != nil:
			if n.Type != ArrayType {
				return NoID, fmt.Errorf("%w: expected array, got %s", ErrNoPath, n.Type)
			}
			i := *x.Index
			if i < 0 || i >= len(n.Children) {
				return NoID, fmt.Errorf("%w: index %d out of bounds (len %d)",
					ErrNoPath, i, len(n.Children))
			}
			id = n.Children[i]
		}
	}
	return id, nil
}

// ResolvePath parses and resolves p in one step.
func (d *Document) ResolvePath(p string) (ID, error) {
	yp, err := ParsePath(p)
	if err != nil {
		return NoID, err
	}
	return d.Resolve(yp)
}
