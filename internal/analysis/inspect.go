package analysis

import (
	"fmt"
	"strings"
)

// Inspection summarizes what detection finds in an export without
// filtering anything. It backs the manual platform/column choice.
type Inspection struct {
	Name        string      `json:"file,omitempty"`
	Rows        int         `json:"rows"`
	Columns     []string    `json:"columns"`
	Schema      ColumnMatch `json:"schema"`
	DefaultView string      `json:"default_view_column,omitempty"`
	Platform    Detection   `json:"platform"`
}

// Inspect runs schema and platform detection over t.
func Inspect(t *Table, preferredView string) Inspection {
	s := DetectSchema(t)
	return Inspection{
		Name:        t.Name,
		Rows:        t.Len(),
		Columns:     t.Columns,
		Schema:      s,
		DefaultView: PickViewColumn(s.ViewColumns, preferredView),
		Platform:    DetectPlatform(t),
	}
}

func (in Inspection) Markdown() string {
	var b strings.Builder
	b.WriteString("[EXPORT INSPECTION]\n")
	if in.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", in.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", in.Rows, len(in.Columns)))

	b.WriteString("[SCHEMA]\n")
	if in.Schema.DateColumn != "" {
		b.WriteString(fmt.Sprintf("- date column: %s\n", in.Schema.DateColumn))
	} else {
		b.WriteString("- date column: (none found)\n")
	}
	if len(in.Schema.DateFuzzy) > 1 {
		b.WriteString(fmt.Sprintf("  other date-like columns: %s\n", strings.Join(in.Schema.DateFuzzy[1:], ", ")))
	}
	if len(in.Schema.ViewColumns) > 0 {
		b.WriteString(fmt.Sprintf("- view columns: %s (default %s)\n", strings.Join(in.Schema.ViewColumns, ", "), in.DefaultView))
	} else {
		b.WriteString("- view columns: (none found)\n")
	}

	b.WriteString("\n[PLATFORM]\n")
	for _, r := range in.Platform.Trace {
		b.WriteString(fmt.Sprintf("- %s: %s (%s)\n", r.Rule, r.Platform, r.Detail))
	}
	if in.Platform.Platform == PlatformUnknown {
		b.WriteString("Result: unknown; pass the platform explicitly (facebook or instagram)\n")
	} else {
		b.WriteString(fmt.Sprintf("Result: %s via %s\n", in.Platform.Platform.Title(), in.Platform.Rule))
	}
	return b.String()
}
