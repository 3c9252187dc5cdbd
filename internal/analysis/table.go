package analysis

import (
	"fmt"
	"strings"
)

// Record is one row of an uploaded export keyed by column name.
// Values are kept as the raw cell text; blanks are empty strings.
type Record map[string]string

// Get returns the trimmed value of col, or "" when the column is absent.
func (r Record) Get(col string) string {
	if r == nil || col == "" {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Table is the immutable in-memory form of one uploaded export.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// NewTable builds a Table from a header row and raw records. Header names are
// trimmed and duplicates are renamed "Name.1", "Name.2", ... in order of
// appearance. Short records are padded with blanks, extra cells are ignored.
func NewTable(name string, header []string, records [][]string) *Table {
	cols := uniqueHeader(header)
	t := &Table{Name: name, Columns: cols, Rows: make([]Record, 0, len(records))}
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		row := make(Record, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// HasColumn reports whether the exact column name exists.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FindColumnFold returns the first column equal to name ignoring case and
// surrounding whitespace.
func (t *Table) FindColumnFold(name string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range t.Columns {
		if strings.ToLower(c) == want {
			return c, true
		}
	}
	return "", false
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if _, dup := seen[name]; dup {
			base := name
			for k := seen[base] + 1; ; k++ {
				cand := fmt.Sprintf("%s.%d", base, k)
				if _, taken := seen[cand]; !taken {
					seen[base] = k
					name = cand
					break
				}
			}
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
