// Package jsondoc offers loosely-typed access to JSON documents whose shape
// is not contractually guaranteed.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies the JSON value held by a Node.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ErrKind is returned when a Node is read as the wrong kind.
var ErrKind = errors.New("jsondoc: unexpected kind")

// Node is one value of a parsed document. The zero Node is a JSON null.
type Node struct {
	kind   Kind
	raw    json.RawMessage
	scalar any
	fields map[string]json.RawMessage
	elems  []json.RawMessage
}

// Parse decodes a single JSON value. Children are decoded lazily from their
// raw bytes, which are retained so callers can re-emit them unchanged.
func Parse(data []byte) (Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Node{}, errors.New("jsondoc: empty document")
	}
	if !json.Valid(trimmed) {
		return Node{}, errors.New("jsondoc: invalid json")
	}

	n := Node{raw: json.RawMessage(trimmed)}
	switch trimmed[0] {
	case '{':
		n.kind = Object
		if err := json.Unmarshal(trimmed, &n.fields); err != nil {
			return Node{}, fmt.Errorf("jsondoc: decode object: %w", err)
		}
	case '[':
		n.kind = Array
		if err := json.Unmarshal(trimmed, &n.elems); err != nil {
			return Node{}, fmt.Errorf("jsondoc: decode array: %w", err)
		}
	case '"':
		n.kind = String
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Node{}, fmt.Errorf("jsondoc: decode string: %w", err)
		}
		n.scalar = s
	case 't', 'f':
		n.kind = Bool
		n.scalar = trimmed[0] == 't'
	case 'n':
		n.kind = Null
	default:
		n.kind = Number
		n.scalar = json.Number(trimmed)
	}
	return n, nil
}

// Kind reports the JSON kind of the node.
func (n Node) Kind() Kind { return n.kind }

// Raw returns the node's original bytes (whitespace-trimmed).
func (n Node) Raw() json.RawMessage {
	if n.raw == nil {
		return json.RawMessage("null")
	}
	return n.raw
}

// Compact returns the node's bytes with insignificant whitespace removed.
func (n Node) Compact() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, n.Raw()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Field returns the named member of an object. ok is false when the node is
// not an object or has no such member.
func (n Node) Field(name string) (Node, bool, error) {
	if n.kind != Object {
		return Node{}, false, nil
	}
	raw, ok := n.fields[name]
	if !ok {
		return Node{}, false, nil
	}
	child, err := Parse(raw)
	if err != nil {
		return Node{}, false, fmt.Errorf("field %q: %w", name, err)
	}
	return child, true, nil
}

// Len returns the number of array elements or object members.
func (n Node) Len() int {
	switch n.kind {
	case Array:
		return len(n.elems)
	case Object:
		return len(n.fields)
	default:
		return 0
	}
}

// Elements returns the array's elements in order.
func (n Node) Elements() ([]Node, error) {
	if n.kind != Array {
		return nil, fmt.Errorf("%w: want array, got %s", ErrKind, n.kind)
	}
	out := make([]Node, 0, len(n.elems))
	for i, raw := range n.elems {
		child, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

// Int returns the node as an integer. Fractional or out-of-range numbers are errors.
func (n Node) Int() (int, error) {
	if n.kind != Number {
		return 0, fmt.Errorf("%w: want number, got %s", ErrKind, n.kind)
	}
	v, err := strconv.Atoi(string(n.scalar.(json.Number)))
	if err != nil {
		return 0, fmt.Errorf("jsondoc: not an integer: %w", err)
	}
	return v, nil
}

// Bool returns the node as a boolean.
func (n Node) Bool() (bool, error) {
	if n.kind != Bool {
		return false, fmt.Errorf("%w: want bool, got %s", ErrKind, n.kind)
	}
	return n.scalar.(bool), nil
}

// Str returns the node as a string.
func (n Node) Str() (string, error) {
	if n.kind != String {
		return "", fmt.Errorf("%w: want string, got %s", ErrKind, n.kind)
	}
	return n.scalar.(string), nil
}

// IntField reads an integer member of an object.
func (n Node) IntField(name string) (int, error) {
	f, ok, err := n.Field(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	v, err := f.Int()
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return v, nil
}

// BoolField reads a boolean member of an object.
func (n Node) BoolField(name string) (bool, error) {
	f, ok, err := n.Field(name)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("missing field %q", name)
	}
	v, err := f.Bool()
	if err != nil {
		return false, fmt.Errorf("field %q: %w", name, err)
	}
	return v, nil
}

// JoinArray renders nodes as a compact JSON array, each element taken from
// its own raw bytes.
func JoinArray(nodes []Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := json.Compact(&buf, n.Raw()); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
