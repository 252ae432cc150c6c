package serp

import (
	"strings"
	"unicode/utf8"

	"github.com/user/serp-visibility/internal/payload"
)

const (
	// NoContext is returned when nothing in the enclosing mapping qualifies.
	NoContext = "-"
	// MaxContextLen bounds excerpts, in characters.
	MaxContextLen = 200

	defaultEntry = "default"
	joinSep      = " | "
)

// ContextTable maps a base feature label to the fields probed, in order, for an excerpt.
// The "default" entry serves unregistered features.
type ContextTable map[string][]string

// DefaultContextTable is the built-in preference table. Treat it as read-only.
var DefaultContextTable = ContextTable{
	"organic_results":        {"title", "snippet", "displayed_link"},
	"ads":                    {"title", "description", "displayed_link"},
	"shopping_results":       {"title", "source", "price"},
	"inline_shopping":        {"title", "source", "price"},
	"immersive_products":     {"category", "title", "source"},
	"popular_products":       {"title", "source"},
	"knowledge_graph":        {"title", "description", "type"},
	"answer_box":             {"title", "snippet", "answer", "result"},
	"ai_overview":            {"snippet", "title"},
	"related_searches":       {"query"},
	"related_questions":      {"question", "snippet", "title"},
	"related_brands":         {"block_title", "title", "name"},
	"local_results":          {"title", "address", "type"},
	"local_map":              {"title", "link"},
	"top_stories":            {"title", "source"},
	"news_results":           {"title", "snippet", "source"},
	"inline_videos":          {"title", "channel", "platform"},
	"inline_images":          {"title", "source"},
	"top_sights":             {"title", "description"},
	"discussions_and_forums": {"title", "source"},
	"perspectives":           {"title", "snippet", "source"},
	"twitter_results":        {"title", "snippet"},
	defaultEntry:             {"title", "name", "snippet", "description", "query", "text"},
}

// Fields returns the preference list for a feature label, qualifier ignored.
func (t ContextTable) Fields(label string) []string {
	if fields, ok := t[BaseLabel(label)]; ok {
		return fields
	}
	return t[defaultEntry]
}

// Extract picks a human-readable excerpt from enclosing for a match labelled label.
func (t ContextTable) Extract(label string, enclosing *payload.Mapping, brand Brand) string {
	for _, field := range t.Fields(label) {
		v := strings.TrimSpace(enclosing.String(field))
		if v == "" || brand.Is(v) {
			continue
		}
		return truncate(v)
	}

	var parts []string
	for _, v := range enclosing.Fields() {
		if s, ok := v.Str(); ok && brand.In(s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return NoContext
	}
	return truncate(strings.Join(parts, joinSep))
}

// truncate cuts s to MaxContextLen characters, the last one being an ellipsis.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxContextLen {
		return s
	}
	r := []rune(s)
	return string(r[:MaxContextLen-1]) + "…"
}
