// Package encode renders plain document values back to JSON text.
//
// Encode is pure and total over any value the node store produces: ordered
// objects (ir.Object), arrays, strings, finite numbers, booleans, null.
package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/jsontree/ir"
)

type encodeConfig struct {
	wire   bool
	indent int
	colors *Colors
}

type EncodeOption func(*encodeConfig)

// EncodeWire selects the compact single-line form.
func EncodeWire(v bool) EncodeOption {
	return func(c *encodeConfig) { c.wire = v }
}

// EncodeIndent sets the indent width of the formatted form (default 2).
func EncodeIndent(n int) EncodeOption {
	return func(c *encodeConfig) {
		if n > 0 {
			c.indent = n
		}
	}
}

func EncodeColors(colors *Colors) EncodeOption {
	return func(c *encodeConfig) { c.colors = colors }
}

func Encode(v any, w io.Writer, opts ...EncodeOption) error {
	cfg := &encodeConfig{indent: 2}
	for _, f := range opts {
		f(cfg)
	}
	if cfg.colors == nil {
		cfg.colors = noColors
	}
	e := &encoder{w: w, cfg: cfg}
	e.value(v, 0)
	if !cfg.wire {
		e.str("\n")
	}
	return e.err
}

// Format renders v indented by indentWidth spaces.
func Format(v any, indentWidth int) string {
	var b strings.Builder
	Encode(v, &b, EncodeIndent(indentWidth))
	return b.String()
}

// Minify renders v on a single line with no insignificant whitespace.
func Minify(v any) string {
	var b strings.Builder
	Encode(v, &b, EncodeWire(true))
	return b.String()
}

type encoder struct {
	w   io.Writer
	cfg *encodeConfig
	err error
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *encoder) scalar(t ir.Type, v any) {
	d, err := json.Marshal(v)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("unencodable value %v: %w", v, err)
		}
		return
	}
	e.str(e.cfg.colors.Color(t, ValueColor, string(d)))
}

func (e *encoder) nl(depth int) {
	if e.cfg.wire {
		return
	}
	e.str("\n")
	e.str(strings.Repeat(" ", depth*e.cfg.indent))
}

func (e *encoder) value(v any, depth int) {
	switch x := v.(type) {
	case ir.Object:
		e.object(x, depth)
	case ir.Array:
		e.array(x, depth)
	case string:
		e.scalar(ir.StringType, x)
	case float64:
		e.scalar(ir.NumberType, x)
	case int:
		e.scalar(ir.NumberType, x)
	case bool:
		e.scalar(ir.BoolType, x)
	case nil:
		e.str(e.cfg.colors.Color(ir.NullType, ValueColor, "null"))
	default:
		if e.err == nil {
			e.err = fmt.Errorf("unencodable value of type %T", v)
		}
	}
}

func (e *encoder) object(o ir.Object, depth int) {
	colors := e.cfg.colors
	if len(o) == 0 {
		e.str(colors.Color(ir.ObjectType, SepColor, "{}"))
		return
	}
	e.str(colors.Color(ir.ObjectType, SepColor, "{"))
	for i := range o {
		if i > 0 {
			e.str(colors.Color(ir.ObjectType, SepColor, ","))
		}
		e.nl(depth + 1)
		key, err := json.Marshal(o[i].Key)
		if err != nil {
			e.err = err
			return
		}
		e.str(colors.Color(ir.ObjectType, FieldColor, string(key)))
		e.str(colors.Color(ir.ObjectType, SepColor, ":"))
		if !e.cfg.wire {
			e.str(" ")
		}
		e.value(o[i].Value, depth+1)
	}
	e.nl(depth)
	e.str(colors.Color(ir.ObjectType, SepColor, "}"))
}

func (e *encoder) array(a ir.Array, depth int) {
	colors := e.cfg.colors
	if len(a) == 0 {
		e.str(colors.Color(ir.ArrayType, SepColor, "[]"))
		return
	}
	e.str(colors.Color(ir.ArrayType, SepColor, "["))
	for i := range a {
		if i > 0 {
			e.str(colors.Color(ir.ArrayType, SepColor, ","))
		}
		e.nl(depth + 1)
		e.value(a[i], depth+1)
	}
	e.nl(depth)
	e.str(colors.Color(ir.ArrayType, SepColor, "]"))
}
