package serp

import (
	"iter"

	"github.com/user/serp-visibility/internal/entity"
)

type detailKey struct {
	keyword, feature, context string
}

type summaryKey struct {
	keyword, feature string
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithFeatures keeps only matches whose base feature is one of names.
func WithFeatures(names ...string) AggregatorOption {
	return func(a *Aggregator) {
		if len(names) == 0 {
			return
		}
		if a.include == nil {
			a.include = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			a.include[n] = struct{}{}
		}
	}
}

// WithoutFeatures drops matches whose base feature is one of names.
func WithoutFeatures(names ...string) AggregatorOption {
	return func(a *Aggregator) {
		if a.exclude == nil {
			a.exclude = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			a.exclude[n] = struct{}{}
		}
	}
}

// Aggregator accumulates matches across the keywords of one run. It keeps both
// the deduplicated detail view and the per-feature summary view. It is owned by a
// single run loop and is not safe for concurrent use.
type Aggregator struct {
	include map[string]struct{}
	exclude map[string]struct{}

	seen    map[detailKey]struct{}
	records []entity.VisibilityRecord

	summaryIdx map[summaryKey]int
	summaries  []entity.SummaryRecord

	mentions int
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		seen:       make(map[detailKey]struct{}),
		summaryIdx: make(map[summaryKey]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Outcome tells what Add did with a match.
type Outcome uint8

const (
	// Filtered matches belong to a feature outside the selection and count nowhere.
	Filtered Outcome = iota
	// Duplicate matches count toward the summary only.
	Duplicate
	Added
)

// Collect drains one keyword's matches and returns how many new detail records it added.
func (a *Aggregator) Collect(keyword string, meta Metadata, matches iter.Seq[Match]) int {
	added := 0
	for m := range matches {
		if a.Add(keyword, meta, m) == Added {
			added++
		}
	}
	return added
}

// Add folds a single match into both views.
func (a *Aggregator) Add(keyword string, meta Metadata, m Match) Outcome {
	if !a.selected(BaseLabel(m.Feature)) {
		return Filtered
	}
	a.mentions++
	a.summarize(keyword, meta, m)

	k := detailKey{keyword: keyword, feature: m.Feature, context: m.Context}
	if _, dup := a.seen[k]; dup {
		return Duplicate
	}
	a.seen[k] = struct{}{}
	a.records = append(a.records, entity.VisibilityRecord{
		Keyword:  keyword,
		Feature:  m.Feature,
		Context:  m.Context,
		Position: copyInt(m.Position),
		JSONURL:  meta.JSONEndpoint,
		HTMLURL:  meta.RawHTMLFile,
	})
	return Added
}

func (a *Aggregator) summarize(keyword string, meta Metadata, m Match) {
	k := summaryKey{keyword: keyword, feature: m.Feature}
	i, ok := a.summaryIdx[k]
	if !ok {
		a.summaryIdx[k] = len(a.summaries)
		a.summaries = append(a.summaries, entity.SummaryRecord{
			Keyword:      keyword,
			Feature:      m.Feature,
			MentionCount: 1,
			TopPosition:  copyInt(m.Position),
			JSONURL:      meta.JSONEndpoint,
			HTMLURL:      meta.RawHTMLFile,
		})
		return
	}
	s := &a.summaries[i]
	s.MentionCount++
	if m.Position != nil && (s.TopPosition == nil || *m.Position < *s.TopPosition) {
		s.TopPosition = copyInt(m.Position)
	}
}

func (a *Aggregator) selected(base string) bool {
	if _, ok := a.exclude[base]; ok {
		return false
	}
	if a.include == nil {
		return true
	}
	_, ok := a.include[base]
	return ok
}

// Records returns the detail view in first-seen order.
func (a *Aggregator) Records() []entity.VisibilityRecord {
	return append([]entity.VisibilityRecord(nil), a.records...)
}

// Summaries returns the summary view in first-seen order.
func (a *Aggregator) Summaries() []entity.SummaryRecord {
	return append([]entity.SummaryRecord(nil), a.summaries...)
}

// Mentions is the number of raw matches accepted so far.
func (a *Aggregator) Mentions() int { return a.mentions }

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
