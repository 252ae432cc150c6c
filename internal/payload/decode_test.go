package payload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	root, err := Parse([]byte(`{"zeta": 1, "alpha": "a", "mid": [true, null, "xA"]}`))
	require.NoError(t, err)
	require.Equal(t, KindMapping, root.Kind())

	var keys []string
	for k := range root.Mapping().Fields() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	zeta, ok := root.Mapping().Get("zeta")
	require.True(t, ok)
	n, isNum := zeta.Num()
	assert.True(t, isNum)
	assert.Equal(t, 1.0, n)

	mid, _ := root.Mapping().Get("mid")
	require.Equal(t, KindSequence, mid.Kind())
	require.Equal(t, 3, mid.Len())
	b, isBool := mid.Index(0).BoolValue()
	assert.True(t, isBool)
	assert.True(t, b)
	assert.Equal(t, KindNull, mid.Index(1).Kind())
	s, isStr := mid.Index(2).Str()
	assert.True(t, isStr)
	assert.Equal(t, "xA", s)
}

func TestParse_UnescapesKeysAndValues(t *testing.T) {
	root, err := Parse([]byte(`{"a\"b": "line\nbreak"}`))
	require.NoError(t, err)
	assert.Equal(t, "line\nbreak", root.Mapping().String(`a"b`))
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	root, err := Parse([]byte(`{"a": "1", "b": "2", "a": "3"}`))
	require.NoError(t, err)
	m := root.Mapping()
	require.Equal(t, 2, m.Len())
	assert.Equal(t, "a", m.At(0).Key)
	assert.Equal(t, "3", m.String("a"))
}

func TestParse_EmptyContainers(t *testing.T) {
	root, err := Parse([]byte(`{"ads": [], "kg": {}}`))
	require.NoError(t, err)
	ads, _ := root.Mapping().Get("ads")
	assert.Equal(t, KindSequence, ads.Kind())
	assert.Equal(t, 0, ads.Len())
	kg, _ := root.Mapping().Get("kg")
	assert.Equal(t, KindMapping, kg.Kind())
	assert.Equal(t, 0, kg.Len())
}

func TestParse_DeepNesting(t *testing.T) {
	const depth = 1000
	doc := strings.Repeat(`{"a":[`, depth) + `"leaf"` + strings.Repeat(`]}`, depth)

	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	n := root
	for i := 0; i < depth; i++ {
		child, ok := n.Mapping().Get("a")
		require.True(t, ok)
		n = child.Index(0)
	}
	s, _ := n.Str()
	assert.Equal(t, "leaf", s)
}

func TestParse_Malformed(t *testing.T) {
	for _, doc := range []string{`{`, `[1,`, ``, `{"a":"Acme"} trailing`, `[1] [2]`, `"x"}`} {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrMalformed, "doc %q", doc)
	}
}

func TestParse_TrailingWhitespaceAndCommas(t *testing.T) {
	n, err := Parse([]byte("{\"a\": \"Acme\"} \n\t"))
	require.NoError(t, err)
	assert.Equal(t, "Acme", n.Mapping().String("a"))

	n, err = Parse([]byte(`{"a":1,}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n.Len())
}

func TestMap_Accessors(t *testing.T) {
	n := Map(F("title", String("Acme")), F("position", Number(2)))
	m := n.Mapping()
	assert.Equal(t, "Acme", m.String("title"))
	assert.Equal(t, "", m.String("position"))
	assert.Equal(t, "", m.String("missing"))
	assert.Nil(t, String("x").Mapping())
	assert.Equal(t, KindNull, List().Index(4).Kind())
}
