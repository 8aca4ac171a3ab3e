// Package parse turns document text into the plain nested values the node
// store builds from. Input is JSON, accepted in its JWCC extension
// (comments and trailing commas) by standardizing through hujson first;
// YAML input is available as a parse option.
package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/tailscale/hujson"

	"github.com/signadot/jsontree/ir"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
)

type parseOpts struct {
	format Format
}

type ParseOption func(*parseOpts)

func ParseFormat(f Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

func Parse(d []byte, opts ...ParseOption) (any, error) {
	pOpts := &parseOpts{format: JSONFormat}
	for _, f := range opts {
		f(pOpts)
	}
	switch pOpts.format {
	case YAMLFormat:
		return parseYAML(d)
	default:
		return parseJSON(d)
	}
}

func parseJSON(d []byte) (any, error) {
	// hujson standardization replaces comments and trailing commas with
	// spaces, so byte offsets in its output line up with the input.
	std, err := hujson.Standardize(d)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	pos := newPosDoc(std)
	dec := json.NewDecoder(bytes.NewReader(std))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, jsonError(err, pos, dec)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("trailing content after document")
		}
		return nil, jsonError(err, pos, dec)
	}
	return v, nil
}

func jsonError(err error, pos *posDoc, dec *json.Decoder) error {
	off := int(dec.InputOffset())
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		off = int(syn.Offset)
	}
	line, col := pos.lineCol(off - 1)
	return &Error{Msg: err.Error(), Line: line, Col: col}
}

func decodeValue(dec *json.Decoder) (any, error) {
	t, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}
	return decodeFrom(dec, t)
}

func decodeFrom(dec *json.Decoder, t json.Token) (any, error) {
	switch x := t.(type) {
	case json.Delim:
		switch x {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q", x)
	case string, float64, bool, nil:
		return x, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", t)
	}
}

func decodeObject(dec *json.Decoder) (ir.Object, error) {
	res := ir.Object{}
	for {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := t.(json.Delim); ok && d == '}' {
			return res, nil
		}
		key, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %v, not a string", t)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		res = append(res, ir.Member{Key: key, Value: v})
	}
}

func decodeArray(dec *json.Decoder) (ir.Array, error) {
	res := ir.Array{}
	for {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := t.(json.Delim); ok && d == ']' {
			return res, nil
		}
		v, err := decodeFrom(dec, t)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
}

func parseYAML(d []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	res, err := fromYAML(v)
	if err != nil {
		return nil, &Error{Msg: err.Error()}
	}
	return res, nil
}

func fromYAML(v any) (any, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		res := make(ir.Object, 0, len(x))
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("unsupported key %v (%T)", item.Key, item.Key)
			}
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, err
			}
			res = append(res, ir.Member{Key: key, Value: val})
		}
		return res, nil
	case []any:
		res := make(ir.Array, 0, len(x))
		for _, item := range x {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			res = append(res, val)
		}
		return res, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case nil:
		return nil, nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
