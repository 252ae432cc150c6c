// Package export renders run results as delimited text, JSON, or a terminal table.
package export

import (
	"strconv"

	"github.com/user/serp-visibility/internal/entity"
)

// Absent marks a missing position.
const Absent = "-"

var (
	detailHeader  = []string{"Keyword", "SERP Feature", "Context", "Position", "JSON URL", "HTML URL"}
	summaryHeader = []string{"Keyword", "SERP Feature", "Mentions", "Top Position", "JSON URL", "HTML URL"}
)

func formatPosition(p *int) string {
	if p == nil {
		return Absent
	}
	return strconv.Itoa(*p)
}

// Table is a header plus rows of cells, the common shape of every writer.
type Table struct {
	Header []string
	Rows   [][]string
}

// TableOf flattens the view of res selected by its mode.
func TableOf(res *entity.RunResult) Table {
	if res.Mode == entity.ModeSummary {
		return SummaryTable(res.Summaries)
	}
	return DetailTable(res.Records)
}

func DetailTable(records []entity.VisibilityRecord) Table {
	t := Table{Header: detailHeader, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.Keyword, r.Feature, r.Context, formatPosition(r.Position), r.JSONURL, r.HTMLURL,
		})
	}
	return t
}

func SummaryTable(summaries []entity.SummaryRecord) Table {
	t := Table{Header: summaryHeader, Rows: make([][]string, 0, len(summaries))}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.Keyword, s.Feature, strconv.Itoa(s.MentionCount), formatPosition(s.TopPosition), s.JSONURL, s.HTMLURL,
		})
	}
	return t
}
