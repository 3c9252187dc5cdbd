package analysis

import (
	"fmt"
	"strings"
)

// DetailTimeLayout renders timestamps in the detail extract.
const DetailTimeLayout = "2006-01-02 15:04:05-07:00"

// Counts tracks how many rows survive each stage.
type Counts struct {
	Total   int `json:"total"`
	Dated   int `json:"dated"`
	InRange int `json:"in_range"`
	Reel    int `json:"reel"`
	Video   int `json:"video"`
	Other   int `json:"other"`
	Numeric int `json:"numeric"`
}

// Detail is the row-level extract behind the aggregate, newest first.
type Detail struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Preview returns at most n rows.
func (d *Detail) Preview(n int) [][]string {
	if d == nil {
		return nil
	}
	if n < 0 || n >= len(d.Rows) {
		return d.Rows
	}
	return d.Rows[:n]
}

// Report is the structured result of one run.
type Report struct {
	Name           string         `json:"file,omitempty"`
	Start          string         `json:"start"`
	End            string         `json:"end"`
	Timezone       string         `json:"timezone"`
	DateColumn     string         `json:"date_column"`
	ViewColumn     string         `json:"view_column"`
	ViewCandidates []string       `json:"view_candidates"`
	Platform       PlatformChoice `json:"platform"`
	Counts         Counts         `json:"counts"`
	Rows           []AggregateRow `json:"rows"`
	Warning        *Warning       `json:"warning,omitempty"`
	Notes          []string       `json:"notes,omitempty"`
	DetailPreview  [][]string     `json:"detail_preview,omitempty"`
	DetailColumns  []string       `json:"detail_columns,omitempty"`
	DetailRows     int            `json:"detail_rows"`
	Detail         *Detail        `json:"-"`
}

// OK reports whether the run produced aggregates.
func (r *Report) OK() bool { return r.Warning == nil }

// Markdown renders a compact report for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[VIEW REPORT]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Platform.Effective != "" {
		b.WriteString(fmt.Sprintf("Platform: %s", r.Platform.Effective.Title()))
		if r.Platform.Override {
			b.WriteString(fmt.Sprintf(" (manual; auto-detected %s)", r.Platform.Detected.Title()))
		} else if r.Platform.Rule != "" {
			b.WriteString(fmt.Sprintf(" (auto-detected by %s)", r.Platform.Rule))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Range: %s to %s (%s)\n", r.Start, r.End, r.Timezone))
	b.WriteString(fmt.Sprintf("Date column: %s\n", r.DateColumn))
	b.WriteString(fmt.Sprintf("View column: %s\n", r.ViewColumn))
	c := r.Counts
	b.WriteString(fmt.Sprintf("Rows: total %d, dated %d, in range %d (reel %d, video %d, other %d), numeric %d\n",
		c.Total, c.Dated, c.InRange, c.Reel, c.Video, c.Other, c.Numeric))

	if r.Warning != nil {
		b.WriteString("\n[WARNING]\n")
		b.WriteString(fmt.Sprintf("- %s (stage: %s)\n", r.Warning.Message, r.Warning.Stage))
	}

	if len(r.Rows) > 0 {
		b.WriteString("\n[AGGREGATES]\n")
		b.WriteString("| Tipo | Posts | Total views | Average views |\n")
		b.WriteString("| --- | ---: | ---: | ---: |\n")
		for _, a := range r.Rows {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %.2f |\n", a.Category, a.PostCount, a.TotalViews, a.AverageViews))
		}
	}

	if len(r.DetailPreview) > 0 {
		b.WriteString(fmt.Sprintf("\n[DETAIL] (%d of %d rows, newest first)\n", len(r.DetailPreview), r.DetailRows))
		b.WriteString("| ")
		b.WriteString(strings.Join(mapStrings(r.DetailColumns, safeCell), " | "))
		b.WriteString(" |\n|")
		b.WriteString(strings.Repeat(" --- |", len(r.DetailColumns)))
		b.WriteString("\n")
		for _, row := range r.DetailPreview {
			b.WriteString("| ")
			b.WriteString(strings.Join(mapStrings(row, safeCell), " | "))
			b.WriteString(" |\n")
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeCell(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if rs := []rune(s); len(rs) > 80 {
		s = string(rs[:77]) + "..."
	}
	return s
}

func mapStrings(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}
