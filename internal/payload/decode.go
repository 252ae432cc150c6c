package payload

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrMalformed is returned when the body is not a JSON document.
var ErrMalformed = errors.New("malformed payload")

// pending is a raw JSON value waiting to be decoded into dst.
type pending struct {
	raw []byte
	typ jsonparser.ValueType
	dst *Node
}

// Parse decodes a JSON document into a Node, keeping object keys in document order.
// Containers are expanded from an explicit stack, so deep documents do not grow the call stack.
// Anything but whitespace after the document is rejected. A trailing comma before a
// closing brace is tolerated.
func Parse(data []byte) (Node, error) {
	raw, typ, end, err := jsonparser.Get(data)
	if err != nil {
		return Null(), fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rest := bytes.TrimLeft(data[end:], " \t\r\n"); len(rest) > 0 {
		return Null(), fmt.Errorf("%w: unexpected data after offset %d", ErrMalformed, end)
	}

	var root Node
	stack := []pending{{raw: raw, typ: typ, dst: &root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := decodeOne(p)
		if err != nil {
			return Null(), fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		stack = append(stack, children...)
	}
	return root, nil
}

// decodeOne fills p.dst. For containers it allocates every child slot first and
// returns the children still to be decoded.
func decodeOne(p pending) ([]pending, error) {
	switch p.typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(p.raw)
		if err != nil {
			return nil, err
		}
		*p.dst = String(s)
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(p.raw)
		if err != nil {
			return nil, err
		}
		*p.dst = Number(f)
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(p.raw)
		if err != nil {
			return nil, err
		}
		*p.dst = Bool(b)
	case jsonparser.Null:
		*p.dst = Null()
	case jsonparser.Object:
		return decodeObject(p)
	case jsonparser.Array:
		return decodeArray(p)
	default:
		return nil, fmt.Errorf("unexpected value type %s", p.typ)
	}
	return nil, nil
}

func decodeObject(p pending) ([]pending, error) {
	type entry struct {
		raw []byte
		typ jsonparser.ValueType
	}
	var (
		keys    []string
		entries []entry
		index   = make(map[string]int)
	)
	err := jsonparser.ObjectEach(p.raw, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		k := string(key)
		if i, ok := index[k]; ok {
			entries[i] = entry{raw: value, typ: typ}
			return nil
		}
		index[k] = len(keys)
		keys = append(keys, k)
		entries = append(entries, entry{raw: value, typ: typ})
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := &Mapping{fields: make([]Field, len(keys)), index: index}
	children := make([]pending, 0, len(keys))
	for i, k := range keys {
		m.fields[i].Key = k
		children = append(children, pending{raw: entries[i].raw, typ: entries[i].typ, dst: &m.fields[i].Value})
	}
	*p.dst = Node{kind: KindMapping, mapping: m}
	return children, nil
}

func decodeArray(p pending) ([]pending, error) {
	var (
		raws  [][]byte
		types []jsonparser.ValueType
		inner error
	)
	_, err := jsonparser.ArrayEach(p.raw, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil {
			inner = err
			return
		}
		raws = append(raws, value)
		types = append(types, typ)
	})
	if err == nil {
		err = inner
	}
	if err != nil {
		return nil, err
	}

	seq := make([]Node, len(raws))
	children := make([]pending, len(raws))
	for i := range raws {
		children[i] = pending{raw: raws[i], typ: types[i], dst: &seq[i]}
	}
	*p.dst = Node{kind: KindSequence, seq: seq}
	return children, nil
}
