package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
)

const igExport = "Account name,Publish time,Permalink,Post type,Views\n" +
	"acct,2025-10-01T12:00:00Z,https://www.instagram.com/reel/A/,IG reel,\"1,200\"\n" +
	"acct,2025-10-02T12:00:00Z,https://www.instagram.com/p/B/,IG video,300\n" +
	"acct,2025-10-03T12:00:00Z,https://www.instagram.com/p/C/,IG carousel,80\n" +
	"acct,2025-10-04T12:00:00Z,https://www.instagram.com/reel/D/,IG reel,n/a\n"

// runCmd executes the root command with args and returns stdout and stderr.
// Flag values are reset first since cobra keeps them across invocations.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, c := range []*cobra.Command{rootCmd, analyzeCmd, inspectCmd, serveCmd} {
		resetFlags(c.Flags())
	}
	resetFlags(rootCmd.PersistentFlags())
	cfg = nil
	now = func() time.Time { return time.Date(2025, 10, 5, 15, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ig.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestAnalyzeMarkdown(t *testing.T) {
	p := writeExport(t, igExport)
	out, _, err := runCmd(t, "analyze", p, "--start", "2025-10-01", "--end", "2025-10-04")
	require.NoError(t, err)

	assert.Contains(t, out, "[VIEW REPORT]")
	assert.Contains(t, out, "Platform: Instagram (auto-detected by url-domain)")
	assert.Contains(t, out, "| Reel+Video | 2 | 1500 | 750.00 |")
	assert.Contains(t, out, "| Reel | 1 | 1200 | 1200.00 |")
	assert.Contains(t, out, "| Video | 1 | 300 | 300.00 |")
	assert.Contains(t, out, `dropped 1 Reel/Video rows with non-numeric or negative "Views" values`)
}

func TestAnalyzeJSONAndExports(t *testing.T) {
	p := writeExport(t, igExport)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "filtered_details.csv")
	xlsxPath := filepath.Join(dir, "detail.xlsx")
	reportPath := filepath.Join(dir, "report.json")

	out, _, err := runCmd(t, "analyze", p, "--start", "2025-10-01", "--end", "2025-10-04",
		"--json", "-o", reportPath, "--export", csvPath, "--export-xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Wrote report to "+reportPath)
	assert.Contains(t, out, "✓ Exported 2 rows to "+csvPath)

	b, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep analysis.Report
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Equal(t, analysis.PlatformInstagram, rep.Platform.Effective)
	assert.Equal(t, 2, rep.DetailRows)

	b, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(b), "\ufeff")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Publish time,Views,Tipo,Account name,Permalink,Post type", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-10-02 09:00:00-03:00,300,Video"), lines[1])

	_, err = os.Stat(xlsxPath)
	assert.NoError(t, err)
}

func TestAnalyzePlatformOverride(t *testing.T) {
	p := writeExport(t, igExport)
	out, _, err := runCmd(t, "analyze", p, "--start", "2025-10-01", "--end", "2025-10-04", "--platform", "facebook")
	require.NoError(t, err)
	assert.Contains(t, out, "Platform: Facebook (manual; auto-detected Instagram)")
	assert.Contains(t, out, "platform override Facebook differs from auto-detected Instagram")
}

func TestAnalyzeDefaultWindow(t *testing.T) {
	p := writeExport(t, igExport)
	out, _, err := runCmd(t, "analyze", p, "--json")
	require.NoError(t, err)
	var rep analysis.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "2025-09-28", rep.Start)
	assert.Equal(t, "2025-10-05", rep.End)
}

func TestAnalyzeSoftStopWarns(t *testing.T) {
	p := writeExport(t, igExport)
	out, errOut, err := runCmd(t, "analyze", p, "--start", "2024-01-01", "--end", "2024-01-02",
		"--export", filepath.Join(t.TempDir(), "x.csv"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "⚠ Warning: no data between 2024-01-01 and 2024-01-02")
	assert.Contains(t, errOut, "nothing to export")
	assert.Contains(t, out, "[WARNING]")
}

func TestAnalyzeHardStops(t *testing.T) {
	p := writeExport(t, igExport)

	_, _, err := runCmd(t, "analyze", p, "--start", "2025-10-04", "--end", "2025-10-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrConfig)

	_, _, err = runCmd(t, "analyze", p, "--decimal", "semicolon")
	assert.ErrorContains(t, err, "unsupported --decimal")

	_, _, err = runCmd(t, "analyze", p, "--tz", "Mars/Olympus")
	assert.ErrorIs(t, err, analysis.ErrConfig)

	_, _, err = runCmd(t, "analyze", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, analysis.ErrIO)

	q := writeExport(t, "Caption,Likes\nhello,1\n")
	_, _, err = runCmd(t, "analyze", q)
	assert.ErrorIs(t, err, analysis.ErrSchema)

	u := writeExport(t, "Publish time,Views\n2025-10-02T12:00:00Z,5\n")
	_, _, err = runCmd(t, "analyze", u, "--start", "2025-10-01", "--end", "2025-10-03")
	assert.ErrorIs(t, err, analysis.ErrSchema)
	assert.ErrorContains(t, err, "--platform facebook|instagram")
}

func TestInspectCommand(t *testing.T) {
	p := writeExport(t, igExport)
	out, _, err := runCmd(t, "inspect", p)
	require.NoError(t, err)
	assert.Contains(t, out, "- date column: Publish time")
	assert.Contains(t, out, "- view columns: Views (default Views)")
	assert.Contains(t, out, "Result: Instagram via url-domain")
}

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdirTest(t, t.TempDir())
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	out, _, err := runCmd(t, "config", "set", "timezone", "UTC", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Saved config")

	b, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "timezone: UTC")

	_, _, err = runCmd(t, "config", "set", "preview_rows", "lots", "--config", cfgPath)
	assert.Error(t, err)

	out, _, err = runCmd(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "timezone: America/Sao_Paulo")
	assert.Contains(t, out, "max_upload_mb: 32")
}
