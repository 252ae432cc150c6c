package serp

import (
	"strings"

	"github.com/user/serp-visibility/internal/payload"
)

// QualifierSep joins a base feature and its sub-feature qualifier.
const QualifierSep = "::"

// rootLabel is used when a match has no path at all.
const rootLabel = "root"

// features is the recognized top-level feature vocabulary.
var features = map[string]struct{}{
	"organic_results":        {},
	"ads":                    {},
	"shopping_results":       {},
	"inline_shopping":        {},
	"immersive_products":     {},
	"popular_products":       {},
	"knowledge_graph":        {},
	"answer_box":             {},
	"ai_overview":            {},
	"related_searches":       {},
	"related_questions":      {},
	"related_brands":         {},
	"local_results":          {},
	"local_map":              {},
	"top_stories":            {},
	"news_results":           {},
	"inline_videos":          {},
	"inline_images":          {},
	"top_sights":             {},
	"discussions_and_forums": {},
	"perspectives":           {},
	"twitter_results":        {},
}

// IsFeature reports whether name is part of the recognized vocabulary.
func IsFeature(name string) bool {
	_, ok := features[name]
	return ok
}

// Classify labels a match from its path and the mapping that holds the matching field.
// The base is the first recognized token anywhere in the path, or the first segment
// when none is recognized. A non-empty category (or block_title) on the enclosing
// mapping is appended as a qualifier.
func Classify(path []string, enclosing *payload.Mapping) string {
	base := baseFromPath(path)
	if q := qualifier(enclosing); q != "" {
		return base + QualifierSep + q
	}
	return base
}

// BaseLabel strips the qualifier from a label.
func BaseLabel(label string) string {
	base, _, _ := strings.Cut(label, QualifierSep)
	return base
}

func baseFromPath(path []string) string {
	for _, tok := range path {
		if IsFeature(tok) {
			return tok
		}
	}
	if len(path) == 0 {
		return rootLabel
	}
	return path[0]
}

func qualifier(m *payload.Mapping) string {
	if q := strings.TrimSpace(m.String("category")); q != "" {
		return q
	}
	return strings.TrimSpace(m.String("block_title"))
}
