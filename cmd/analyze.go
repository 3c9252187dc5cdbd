package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MabelHsu/ig-fb-view-analyzer/internal/analysis"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/exporter"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/logging"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/parser"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/utils"
)

var (
	anaStart      string
	anaEnd        string
	anaPlatform   string
	anaViews      string
	anaTimezone   string
	anaNaiveLocal bool
	anaJSON       bool
	anaOutputPath string
	anaExportCSV  string
	anaExportXLSX string
	anaPreview    int
	anaDecimal    string
	anaThousands  string
	anaDelimiter  string
	anaSheetName  string
)

// now is replaced in tests to pin the default date window.
var now = time.Now

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Report Reel and Video views of an export within a date window",
	Long: `Analyze a Facebook or Instagram export (CSV, TSV or XLSX).

The window defaults to the last seven days ending today in the configured
timezone. The platform is auto-detected unless --platform is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c := currentConfig()

		opt := analysis.DefaultOptions()
		opt.Timezone = c.Timezone
		opt.NaiveLocal = c.NaiveLocal()
		opt.PreviewRows = c.PreviewRows
		opt.PreferredViewColumn = c.DefaultViewColumn
		if anaTimezone != "" {
			opt.Timezone = anaTimezone
		}
		if cmd.Flags().Changed("naive-local") {
			opt.NaiveLocal = anaNaiveLocal
		}
		if cmd.Flags().Changed("preview") {
			opt.PreviewRows = anaPreview
		}
		nf, err := numberFormat(anaDecimal, anaThousands)
		if err != nil {
			return err
		}
		opt.Number = nf
		popt := parser.Options{Sheet: anaSheetName}
		switch anaDelimiter {
		case "":
		case ",", ";", "|":
			popt.Delimiter = rune(anaDelimiter[0])
		case "\t", "tab":
			popt.Delimiter = '\t'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", anaDelimiter)
		}

		runID := logging.NewRunID()
		opt.Logger = logger.With(slog.String("run_id", runID))
		opt.Logger.Debug("run started", slog.String("file", path))

		tbl, err := parser.ParseFile(path, popt)
		if err != nil {
			return err
		}
		clock, err := analysis.NewClock(opt.Timezone, opt.NaiveLocal)
		if err != nil {
			return &analysis.ConfigError{Field: "timezone", Message: err.Error()}
		}
		req, err := analysis.NewRequest(anaStart, anaEnd, anaPlatform, anaViews, now(), clock.Local)
		if err != nil {
			return err
		}
		rep, err := analysis.Run(tbl, req, opt)
		var se *analysis.SchemaError
		if errors.As(err, &se) && se.Artifact == "platform" {
			return fmt.Errorf("%w; rerun with --platform facebook|instagram", err)
		}
		if err != nil {
			return err
		}

		var out string
		if anaJSON || strings.EqualFold(c.OutputFormat, "json") {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			out = string(b)
		} else {
			out = rep.Markdown()
		}
		if rep.Warning != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", rep.Warning.Message)
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", anaOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}

		for _, dst := range []string{anaExportCSV, anaExportXLSX} {
			if dst == "" {
				continue
			}
			if rep.Detail == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: nothing to export to %s\n", dst)
				continue
			}
			if err := exporter.WriteFile(dst, rep.Detail); err != nil {
				return fmt.Errorf("export detail: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", len(rep.Detail.Rows), dst)
		}
		return nil
	},
}

func numberFormat(decimal, thousands string) (analysis.NumberFormat, error) {
	var nf analysis.NumberFormat
	switch strings.ToLower(strings.TrimSpace(decimal)) {
	case ",", "comma":
		nf.DecimalSeparator = ','
	case ".", "dot":
		nf.DecimalSeparator = '.'
	case "":
	default:
		return nf, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", decimal)
	}
	switch strings.ToLower(thousands) {
	case ",":
		nf.ThousandsSeparator = ','
	case ".":
		nf.ThousandsSeparator = '.'
	case "space", " ":
		nf.ThousandsSeparator = ' '
	case "":
	default:
		return nf, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", thousands)
	}
	if nf.DecimalSeparator != 0 && nf.DecimalSeparator == nf.ThousandsSeparator {
		return nf, fmt.Errorf("--decimal and --thousands must differ")
	}
	return nf, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaStart, "start", "", "first day of the window, YYYY-MM-DD (default: 7 days before --end)")
	analyzeCmd.Flags().StringVar(&anaEnd, "end", "", "last day of the window, YYYY-MM-DD (default: today)")
	analyzeCmd.Flags().StringVar(&anaPlatform, "platform", "auto", "platform: auto|facebook|instagram")
	analyzeCmd.Flags().StringVar(&anaViews, "views", "", "view-count column (default: config default_view_column, else first candidate)")
	analyzeCmd.Flags().StringVar(&anaTimezone, "tz", "", "IANA timezone for the window (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaNaiveLocal, "naive-local", false, "read timestamps without offset as local time instead of UTC")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the report as JSON")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaExportCSV, "export", "", "write the full detail extract as CSV (e.g. "+exporter.DefaultCSVName+")")
	analyzeCmd.Flags().StringVar(&anaExportXLSX, "export-xlsx", "", "write the full detail extract as XLSX")
	analyzeCmd.Flags().IntVar(&anaPreview, "preview", 50, "detail rows shown in the report")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", "", "decimal separator for views: '.'|'comma' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator for views: ','|'.'|'space' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (sniffed if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "XLSX: sheet name (default: first sheet)")
}
