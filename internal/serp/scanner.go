package serp

import (
	"iter"
	"math"
	"strconv"
	"strings"

	"github.com/user/serp-visibility/internal/payload"
)

// Match is a single brand occurrence in a string leaf.
type Match struct {
	Feature  string
	Context  string
	Position *int
	// Field is the key of the matching string inside Enclosing. It is empty when the
	// string is a sequence item, Enclosing then being the nearest mapping above it.
	Field     string
	Value     string
	Path      []string
	Enclosing *payload.Mapping
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithContextTable replaces the field preference table used for excerpts.
func WithContextTable(t ContextTable) Option {
	return func(s *Scanner) { s.contexts = t }
}

// WithIndexedPaths extends the path with the element index when descending into a sequence.
func WithIndexedPaths() Option {
	return func(s *Scanner) { s.indexed = true }
}

// Scanner walks payload trees looking for one brand.
type Scanner struct {
	brand    Brand
	contexts ContextTable
	indexed  bool
}

func NewScanner(brand string, opts ...Option) (*Scanner, error) {
	b, err := NewBrand(brand)
	if err != nil {
		return nil, err
	}
	s := &Scanner{brand: b, contexts: DefaultContextTable}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Scanner) Brand() Brand { return s.brand }

// frame is one container being walked; next is the index of the child to visit.
// enclosing is the node itself for a mapping and the nearest mapping above it for a sequence.
type frame struct {
	node      payload.Node
	path      []string
	enclosing *payload.Mapping
	next      int
}

// rootMapping encloses sequence items that have no mapping above them.
var rootMapping = payload.Map().Mapping()

// Scan returns the matches of root in document order. Every string leaf is
// tested exactly once; the tree is not modified.
func (s *Scanner) Scan(root payload.Node) (iter.Seq[Match], error) {
	if !root.IsContainer() {
		return nil, ErrNotTree
	}
	return func(yield func(Match) bool) {
		enclosing := root.Mapping()
		if enclosing == nil {
			enclosing = rootMapping
		}
		stack := []frame{{node: root, enclosing: enclosing}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= top.node.Len() {
				stack = stack[:len(stack)-1]
				continue
			}
			i := top.next
			top.next++

			if top.node.Kind() == payload.KindSequence {
				path := top.path
				if s.indexed {
					path = extend(path, "["+strconv.Itoa(i)+"]")
				}
				child := top.node.Index(i)
				if child.IsContainer() {
					stack = append(stack, s.push(child, path, top.enclosing))
					continue
				}
				v, ok := child.Str()
				if !ok || !s.brand.In(v) {
					continue
				}
				if !yield(s.itemMatch(path, v, top.enclosing)) {
					return
				}
				continue
			}

			m := top.node.Mapping()
			f := m.At(i)
			path := extend(top.path, f.Key)
			if f.Value.IsContainer() {
				stack = append(stack, s.push(f.Value, path, m))
				continue
			}
			v, ok := f.Value.Str()
			if !ok || !s.brand.In(v) {
				continue
			}
			if !yield(s.match(path, f.Key, v, m)) {
				return
			}
		}
	}, nil
}

func (s *Scanner) push(node payload.Node, path []string, parent *payload.Mapping) frame {
	enclosing := node.Mapping()
	if enclosing == nil {
		enclosing = parent
	}
	return frame{node: node, path: path, enclosing: enclosing}
}

// itemMatch builds the match for a string sequence item. The item has no key of its
// own, so the label comes from the path alone. The excerpt comes from the enclosing
// mapping, or from the item itself when the mapping offers none.
func (s *Scanner) itemMatch(path []string, value string, enclosing *payload.Mapping) Match {
	feature := Classify(path, nil)
	ctx := s.contexts.Extract(feature, enclosing, s.brand)
	if ctx == NoContext && !s.brand.Is(value) {
		ctx = truncate(strings.TrimSpace(value))
	}
	return Match{
		Feature:   feature,
		Context:   ctx,
		Position:  positionOf(enclosing),
		Value:     value,
		Path:      path,
		Enclosing: enclosing,
	}
}

func (s *Scanner) match(path []string, field, value string, enclosing *payload.Mapping) Match {
	feature := Classify(path, enclosing)
	return Match{
		Feature:   feature,
		Context:   s.contexts.Extract(feature, enclosing, s.brand),
		Position:  positionOf(enclosing),
		Field:     field,
		Value:     value,
		Path:      path,
		Enclosing: enclosing,
	}
}

// extend copies path so sibling frames never share a backing array.
func extend(path []string, tok string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = tok
	return out
}

// positionOf reads the "position" field of m. Only whole ranks from 1 to MaxInt32 count.
func positionOf(m *payload.Mapping) *int {
	v, ok := m.Get("position")
	if !ok {
		return nil
	}
	if f, isNum := v.Num(); isNum {
		if f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
			return nil
		}
		p := int(f)
		return &p
	}
	if str, isStr := v.Str(); isStr {
		p, err := strconv.Atoi(strings.TrimSpace(str))
		if err == nil && p >= 1 && p <= math.MaxInt32 {
			return &p
		}
	}
	return nil
}
