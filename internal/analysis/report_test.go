package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMarkdown(t *testing.T) {
	rep, err := Run(fbTable(), fbRequest(t), quietOptions())
	require.NoError(t, err)
	md := rep.Markdown()

	assert.True(t, strings.HasPrefix(md, "[VIEW REPORT]\nFile: fb.csv\n"))
	assert.Contains(t, md, "Platform: Facebook (auto-detected by url-domain)")
	assert.Contains(t, md, "Range: 2025-10-01 to 2025-10-03 (America/Sao_Paulo)")
	assert.Contains(t, md, "Rows: total 5, dated 4, in range 3 (reel 1, video 1, other 1), numeric 2")
	assert.Contains(t, md, "| Reel+Video | 2 | 150 | 75.00 |")
	assert.Contains(t, md, "[DETAIL] (2 of 2 rows, newest first)")
	assert.Contains(t, md, "[NOTES]")
	assert.NotContains(t, md, "[WARNING]")
}

func TestReportMarkdownWarning(t *testing.T) {
	rep, err := Run(fbTable(), Request{Start: day(t, "2024-01-01"), End: day(t, "2024-01-02")}, quietOptions())
	require.NoError(t, err)
	md := rep.Markdown()
	assert.Contains(t, md, "[WARNING]\n- no data between 2024-01-01 and 2024-01-02 (stage: filter)")
	assert.NotContains(t, md, "[AGGREGATES]")
}

func TestReportJSONOmitsDetail(t *testing.T) {
	rep, err := Run(fbTable(), fbRequest(t), quietOptions())
	require.NoError(t, err)
	b, err := json.Marshal(rep)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "Detail")
	assert.Contains(t, m, "detail_preview")
	assert.EqualValues(t, 2, m["detail_rows"])
	assert.NotContains(t, string(b), "run_id")
}

func TestSafeCell(t *testing.T) {
	assert.Equal(t, "a / b c", safeCell("a | b\nc"))
	long := strings.Repeat("é", 100)
	got := safeCell(long)
	assert.Equal(t, 80, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestDetailPreview(t *testing.T) {
	d := &Detail{Rows: [][]string{{"a"}, {"b"}, {"c"}}}
	assert.Len(t, d.Preview(2), 2)
	assert.Len(t, d.Preview(10), 3)
	assert.Len(t, d.Preview(-1), 3)
	assert.Empty(t, d.Preview(0))
	var nilDetail *Detail
	assert.Nil(t, nilDetail.Preview(5))
}

func TestInspectMarkdown(t *testing.T) {
	in := Inspect(fbTable(), "")
	assert.Equal(t, 5, in.Rows)
	assert.Equal(t, "Views", in.DefaultView)
	md := in.Markdown()
	assert.Contains(t, md, "- date column: Publish time")
	assert.Contains(t, md, "- url-domain: facebook (Permalink: facebook.com=5 instagram.com=0)")
	assert.Contains(t, md, "Result: Facebook via url-domain")

	unknown := Inspect(NewTable("x", []string{"Date", "Views"}, [][]string{{"2025-10-01", "1"}}), "")
	assert.Contains(t, unknown.Markdown(), "Result: unknown; pass the platform explicitly")
}
