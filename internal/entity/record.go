package entity

// VisibilityRecord is one unique brand mention for a keyword.
type VisibilityRecord struct {
	Keyword  string `json:"keyword"`
	Feature  string `json:"serp_feature"`
	Context  string `json:"context"`
	Position *int   `json:"position"` // nil when the result carried no position
	JSONURL  string `json:"json_url"`
	HTMLURL  string `json:"html_url"`
}

// SummaryRecord rolls every mention of one (keyword, feature) pair into a row.
type SummaryRecord struct {
	Keyword      string `json:"keyword"`
	Feature      string `json:"serp_feature"`
	MentionCount int    `json:"mention_count"`
	TopPosition  *int   `json:"top_position"`
	JSONURL      string `json:"json_url"`
	HTMLURL      string `json:"html_url"`
}
