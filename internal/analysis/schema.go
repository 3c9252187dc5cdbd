package analysis

import "strings"

// DateCandidates are header spellings used by Meta exports for the publish
// timestamp, in priority order.
var DateCandidates = []string{
	"Publish time",
	"Publish date",
	"Published",
	"Date",
	"Created time",
	"Created Time",
	"Created At",
	"Post Created Date",
}

// ViewCandidates are header spellings for view counts, in priority order.
var ViewCandidates = []string{
	"Views",
	"Video views",
	"Plays",
	"Video plays",
	"Lifetime total video views",
	"Lifetime Post total video views",
	"Lifetime Video Views",
}

// DefaultViewColumn is preselected when present among the candidates.
const DefaultViewColumn = "Views"

// ColumnMatch is the result of schema detection over a table header.
type ColumnMatch struct {
	DateColumn string `json:"date_column"`
	// DateFuzzy lists every fuzzy date match when the exact list missed.
	DateFuzzy   []string `json:"date_fuzzy,omitempty"`
	ViewColumns []string `json:"view_columns"`
}

// DetectSchema runs both column detectors.
func DetectSchema(t *Table) ColumnMatch {
	date, fuzzy := detectDateColumn(t)
	return ColumnMatch{DateColumn: date, DateFuzzy: fuzzy, ViewColumns: DetectViewColumns(t)}
}

// DetectDateColumn returns the publish-time column, trying the exact
// candidate list first and then a keyword scan in header order.
func DetectDateColumn(t *Table) (string, bool) {
	c, _ := detectDateColumn(t)
	return c, c != ""
}

func detectDateColumn(t *Table) (string, []string) {
	for _, c := range DateCandidates {
		if t.HasColumn(c) {
			return c, nil
		}
	}
	var fuzzy []string
	for _, c := range t.Columns {
		key := strings.ToLower(c)
		if (strings.Contains(key, "publish") || strings.Contains(key, "created") || key == "date") &&
			(strings.Contains(key, "time") || strings.Contains(key, "date")) {
			fuzzy = append(fuzzy, c)
		}
	}
	if len(fuzzy) == 0 {
		return "", nil
	}
	return fuzzy[0], fuzzy
}

// DetectViewColumns returns the candidate view-count columns: exact
// candidates in list order, then any header containing "view" or "play"
// in header order. The result is de-duplicated.
func DetectViewColumns(t *Table) []string {
	var found []string
	seen := map[string]bool{}
	for _, c := range ViewCandidates {
		if t.HasColumn(c) && !seen[c] {
			found = append(found, c)
			seen[c] = true
		}
	}
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		if (strings.Contains(lc, "view") || strings.Contains(lc, "play")) && !seen[c] {
			found = append(found, c)
			seen[c] = true
		}
	}
	return found
}

// PickViewColumn returns preferred when it is a candidate, else "Views" when
// present, else the first candidate.
func PickViewColumn(candidates []string, preferred string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, want := range []string{preferred, DefaultViewColumn} {
		if want == "" {
			continue
		}
		for _, c := range candidates {
			if c == want {
				return c
			}
		}
	}
	return candidates[0]
}

// Fields names the descriptive columns the classifiers read. Empty means
// the export does not carry that column.
type Fields struct {
	Permalink   string
	PostType    string
	ContentType string
}

var permalinkNames = []string{"permalink", "permalink url", "post link", "link", "url", "post url"}

// ResolveFields locates the permalink and type columns of t.
func ResolveFields(t *Table) Fields {
	var f Fields
	for _, n := range permalinkNames {
		if c, ok := t.FindColumnFold(n); ok {
			f.Permalink = c
			break
		}
	}
	if f.Permalink == "" {
		for _, c := range t.Columns {
			if strings.Contains(strings.ToLower(c), "permalink") {
				f.Permalink = c
				break
			}
		}
	}
	f.PostType, _ = t.FindColumnFold("post type")
	f.ContentType, _ = t.FindColumnFold("content type")
	return f
}

// typeColumn is the column inspected by value sniffing.
func (f Fields) typeColumn(t *Table) string {
	if f.PostType != "" {
		return f.PostType
	}
	if f.ContentType != "" {
		return f.ContentType
	}
	for _, c := range t.Columns {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "type") || strings.Contains(lc, "category") {
			return c
		}
	}
	return ""
}

// detailExtras are copied into the detail extract when present.
var detailExtras = []string{"Page name", "Account name", "Permalink", "Post type", "Content type", "Title"}
