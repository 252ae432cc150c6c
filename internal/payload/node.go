// Package payload holds the decoded provider response as an immutable tree.
package payload

import (
	"iter"
	"strconv"
)

// Kind tags the variant stored in a Node.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is one value of the tree. The zero Node is null.
type Node struct {
	kind    Kind
	str     string
	num     float64
	boolean bool
	mapping *Mapping
	seq     []Node
}

// Field is a key/value pair of a Mapping.
type Field struct {
	Key   string
	Value Node
}

// Mapping is an ordered string-keyed collection.
type Mapping struct {
	fields []Field
	index  map[string]int
}

func String(s string) Node  { return Node{kind: KindString, str: s} }
func Number(f float64) Node { return Node{kind: KindNumber, num: f} }
func Bool(b bool) Node      { return Node{kind: KindBool, boolean: b} }
func Null() Node            { return Node{} }

// F builds a Field for Map.
func F(key string, value Node) Field { return Field{Key: key, Value: value} }

// Map builds a mapping node. A repeated key keeps its first position and its last value.
func Map(fields ...Field) Node {
	m := &Mapping{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		m.set(f.Key, f.Value)
	}
	return Node{kind: KindMapping, mapping: m}
}

// List builds a sequence node.
func List(items ...Node) Node {
	return Node{kind: KindSequence, seq: append([]Node(nil), items...)}
}

func (n Node) Kind() Kind { return n.kind }

func (n Node) IsContainer() bool {
	return n.kind == KindMapping || n.kind == KindSequence
}

// Str returns the string value and whether n is a string.
func (n Node) Str() (string, bool) {
	return n.str, n.kind == KindString
}

// Num returns the numeric value and whether n is a number.
func (n Node) Num() (float64, bool) {
	return n.num, n.kind == KindNumber
}

// BoolValue returns the boolean value and whether n is a bool.
func (n Node) BoolValue() (bool, bool) {
	return n.boolean, n.kind == KindBool
}

// Mapping returns the mapping, or nil when n is not one.
func (n Node) Mapping() *Mapping {
	if n.kind != KindMapping {
		return nil
	}
	return n.mapping
}

// Len is the number of items of a sequence, fields of a mapping, or zero for scalars.
func (n Node) Len() int {
	switch n.kind {
	case KindSequence:
		return len(n.seq)
	case KindMapping:
		return n.mapping.Len()
	}
	return 0
}

// Index returns item i of a sequence.
func (n Node) Index(i int) Node {
	if n.kind != KindSequence || i < 0 || i >= len(n.seq) {
		return Null()
	}
	return n.seq[i]
}

// Items iterates sequence items in order.
func (n Node) Items() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		if n.kind != KindSequence {
			return
		}
		for i, item := range n.seq {
			if !yield(i, item) {
				return
			}
		}
	}
}

func (m *Mapping) set(key string, value Node) {
	if i, ok := m.index[key]; ok {
		m.fields[i].Value = value
		return
	}
	m.index[key] = len(m.fields)
	m.fields = append(m.fields, Field{Key: key, Value: value})
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return Null(), false
	}
	i, ok := m.index[key]
	if !ok {
		return Null(), false
	}
	return m.fields[i].Value, true
}

// String returns the value under key when it is a string, or "".
func (m *Mapping) String(key string) string {
	v, _ := m.Get(key)
	s, _ := v.Str()
	return s
}

// At returns field i in insertion order.
func (m *Mapping) At(i int) Field {
	return m.fields[i]
}

// Fields iterates the mapping in insertion order.
func (m *Mapping) Fields() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if m == nil {
			return
		}
		for _, f := range m.fields {
			if !yield(f.Key, f.Value) {
				return
			}
		}
	}
}
