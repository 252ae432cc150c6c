package serp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/serp-visibility/internal/entity"
	"github.com/user/serp-visibility/internal/payload"
)

func intp(v int) *int { return &v }

func collect(t *testing.T, agg *Aggregator, brand, keyword, doc string) int {
	t.Helper()
	s, err := NewScanner(brand)
	require.NoError(t, err)
	root, err := payload.Parse([]byte(doc))
	require.NoError(t, err)
	seq, err := s.Scan(root)
	require.NoError(t, err)
	return agg.Collect(keyword, MetadataOf(root), seq)
}

func TestAggregator_EndToEnd(t *testing.T) {
	agg := NewAggregator()
	added := collect(t, agg, "Acme", "acme news",
		`{"organic_results": [{"title": "Acme wins award", "position": 3}], "ads": []}`)

	assert.Equal(t, 1, added)
	assert.Equal(t, []entity.VisibilityRecord{{
		Keyword:  "acme news",
		Feature:  "organic_results",
		Context:  "Acme wins award",
		Position: intp(3),
		JSONURL:  "-",
		HTMLURL:  "-",
	}}, agg.Records())
}

func TestAggregator_Deduplicates(t *testing.T) {
	agg := NewAggregator()
	doc := `{
		"search_metadata": {"json_endpoint": "https://serp/j", "raw_html_file": "https://serp/h"},
		"organic_results": [
			{"title": "Acme Store", "snippet": "buy Acme now", "position": 4},
			{"title": "Acme Store", "link": "https://acme.example", "position": 2}
		]
	}`
	added := collect(t, agg, "Acme", "widgets", doc)

	// Three matching leaves collapse onto one (keyword, feature, context) triple.
	assert.Equal(t, 1, added)
	records := agg.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "https://serp/j", records[0].JSONURL)
	assert.Equal(t, "https://serp/h", records[0].HTMLURL)
	assert.Equal(t, 4, *records[0].Position)

	// Same payload under another keyword is a distinct record.
	assert.Equal(t, 1, collect(t, agg, "Acme", "gadgets", doc))
	assert.Len(t, agg.Records(), 2)

	// Re-scanning the same keyword adds nothing.
	assert.Equal(t, 0, collect(t, agg, "Acme", "widgets", doc))

	seen := map[detailKey]bool{}
	for _, r := range agg.Records() {
		k := detailKey{r.Keyword, r.Feature, r.Context}
		assert.False(t, seen[k], "duplicate record %v", k)
		seen[k] = true
	}
}

func TestAggregator_Summary(t *testing.T) {
	agg := NewAggregator()
	collect(t, agg, "Acme", "kw", `{
		"organic_results": [
			{"title": "Acme one", "position": 5},
			{"title": "Acme two"},
			{"title": "Acme three", "position": 2},
			{"title": "Acme one", "position": 9}
		],
		"related_searches": [{"query": "acme price"}]
	}`)

	assert.Equal(t, []entity.SummaryRecord{
		{Keyword: "kw", Feature: "organic_results", MentionCount: 4, TopPosition: intp(2), JSONURL: "-", HTMLURL: "-"},
		{Keyword: "kw", Feature: "related_searches", MentionCount: 1, TopPosition: nil, JSONURL: "-", HTMLURL: "-"},
	}, agg.Summaries())
	assert.Equal(t, 5, agg.Mentions())
	assert.Len(t, agg.Records(), 4)
}

func TestAggregator_SummaryPositionAppearsLate(t *testing.T) {
	agg := NewAggregator()
	collect(t, agg, "Acme", "kw", `{"ads": [{"title": "Acme a"}, {"title": "Acme b", "position": 6}]}`)
	s := agg.Summaries()
	require.Len(t, s, 1)
	assert.Equal(t, 2, s[0].MentionCount)
	assert.Equal(t, intp(6), s[0].TopPosition)
}

func TestAggregator_FeatureFilters(t *testing.T) {
	doc := `{
		"search_parameters": {"q": "acme"},
		"organic_results": [{"title": "Acme"}],
		"immersive_products": [{"category": "Deals", "title": "Acme kettle"}]
	}`

	t.Run("include", func(t *testing.T) {
		agg := NewAggregator(WithFeatures("immersive_products"))
		collect(t, agg, "Acme", "kw", doc)
		records := agg.Records()
		require.Len(t, records, 1)
		assert.Equal(t, "immersive_products::Deals", records[0].Feature)
		assert.Equal(t, 1, agg.Mentions())
	})

	t.Run("exclude", func(t *testing.T) {
		agg := NewAggregator(WithoutFeatures("search_parameters"))
		collect(t, agg, "Acme", "kw", doc)
		assert.Len(t, agg.Records(), 2)
		for _, s := range agg.Summaries() {
			assert.NotEqual(t, "search_parameters", s.Feature)
		}
	})

	t.Run("empty include keeps all", func(t *testing.T) {
		agg := NewAggregator(WithFeatures())
		collect(t, agg, "Acme", "kw", doc)
		assert.Len(t, agg.Records(), 3)
	})
}

func TestAggregator_ReturnsCopies(t *testing.T) {
	agg := NewAggregator()
	collect(t, agg, "Acme", "kw", `{"ads": [{"title": "Acme"}]}`)
	r := agg.Records()
	r[0].Keyword = "changed"
	assert.Equal(t, "kw", agg.Records()[0].Keyword)
}
