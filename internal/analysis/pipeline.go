package analysis

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Options controls how a run interprets the export.
type Options struct {
	// Timezone is the IANA zone used for the date window.
	Timezone string
	// NaiveLocal reads offset-less timestamps as local wall-clock time
	// instead of UTC.
	NaiveLocal bool
	// PreviewRows caps the detail preview; the full extract is kept.
	PreviewRows int
	// PreferredViewColumn is preselected when it is a detected candidate.
	PreferredViewColumn string
	// Number controls view-count parsing.
	Number NumberFormat
	// Logger receives stage diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns São Paulo time, a 50-row preview and "Views" as the preferred view column.
func DefaultOptions() Options {
	return Options{
		Timezone:            DefaultTimezone,
		PreviewRows:         50,
		PreferredViewColumn: DefaultViewColumn,
	}
}

// Run executes one analysis: schema detection, date normalization and
// filtering, platform resolution, row classification, numeric cleaning and
// aggregation. t is never modified. Hard stops are returned as errors; soft
// stops return a Report whose Warning names the stage that emptied the set.
func Run(t *Table, req Request, opt Options) (*Report, error) {
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}
	req.Start = calendarDay(req.Start)
	req.End = calendarDay(req.End)
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	override, err := ParsePlatform(req.Platform)
	if err != nil {
		return nil, &ConfigError{Field: "platform", Message: err.Error()}
	}
	clock, err := NewClock(opt.Timezone, opt.NaiveLocal)
	if err != nil {
		return nil, &ConfigError{Field: "timezone", Message: err.Error()}
	}

	rep := &Report{
		Name:     t.Name,
		Start:    req.Start.Format(DayLayout),
		End:      req.End.Format(DayLayout),
		Timezone: clock.Local.String(),
		Counts:   Counts{Total: t.Len()},
	}

	// Schema
	schema := DetectSchema(t)
	if schema.DateColumn == "" {
		return nil, &SchemaError{
			Artifact: "date column",
			Message: fmt.Sprintf("no date column found; expected one of %s or a header containing publish/created + time/date",
				strings.Join(DateCandidates, ", ")),
		}
	}
	rep.DateColumn = schema.DateColumn
	if len(schema.DateFuzzy) > 1 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("several date-like columns matched (%s); using the first in header order: %s",
			strings.Join(schema.DateFuzzy, ", "), schema.DateColumn))
	}
	if len(schema.ViewColumns) == 0 {
		return nil, &SchemaError{
			Artifact: "view column",
			Message: fmt.Sprintf("no view-count column found; expected one of %s or a header containing view/play",
				strings.Join(ViewCandidates, ", ")),
		}
	}
	rep.ViewCandidates = schema.ViewColumns
	rep.ViewColumn = PickViewColumn(schema.ViewColumns, opt.PreferredViewColumn)
	if req.ViewColumn != "" {
		if !containsString(schema.ViewColumns, req.ViewColumn) {
			return nil, &SchemaError{
				Artifact: "view column",
				Message: fmt.Sprintf("view column %q is not a detected view column; candidates: %s",
					req.ViewColumn, strings.Join(schema.ViewColumns, ", ")),
			}
		}
		rep.ViewColumn = req.ViewColumn
	}
	log.Debug("schema detected",
		slog.String("date_column", rep.DateColumn),
		slog.String("view_column", rep.ViewColumn),
		slog.Any("view_candidates", rep.ViewCandidates))

	// Dates
	dated := make([]ClassifiedRow, 0, t.Len())
	for _, rec := range t.Rows {
		ts, ok := clock.Parse(rec.Get(rep.DateColumn))
		if !ok {
			continue
		}
		dated = append(dated, ClassifiedRow{Record: rec, Time: ts})
	}
	rep.Counts.Dated = len(dated)
	if len(dated) == 0 {
		return nil, &DateParseError{Column: rep.DateColumn, Rows: t.Len()}
	}
	if dropped := t.Len() - len(dated); dropped > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("dropped %d rows with unparseable %q values", dropped, rep.DateColumn))
	}

	win := clock.Window(req.Start, req.End)
	log.Debug("date window",
		slog.String("timezone", rep.Timezone),
		slog.Time("start", win.Start),
		slog.Time("end", win.End))
	inRange := make([]ClassifiedRow, 0, len(dated))
	for _, r := range dated {
		if win.Contains(r.Time) {
			inRange = append(inRange, r)
		}
	}
	rep.Counts.InRange = len(inRange)
	if len(inRange) == 0 {
		rep.Warning = &Warning{Stage: StageFilter, Message: fmt.Sprintf("no data between %s and %s", rep.Start, rep.End)}
		return rep, nil
	}

	// Platform
	det := DetectPlatform(t)
	rep.Platform = ResolvePlatform(det, override)
	log.Debug("platform resolved",
		slog.String("detected", string(rep.Platform.Detected)),
		slog.String("effective", string(rep.Platform.Effective)),
		slog.String("rule", rep.Platform.Rule))
	if rep.Platform.Effective == PlatformUnknown {
		return nil, &SchemaError{
			Artifact: "platform",
			Message: "cannot determine the platform from permalinks, columns or post types " +
				"(expected Page name/Permalink or Account name/Post type); select facebook or instagram manually",
		}
	}
	if rep.Platform.Override && det.Platform != PlatformUnknown && det.Platform != override {
		rep.Notes = append(rep.Notes, fmt.Sprintf("platform override %s differs from auto-detected %s",
			override.Title(), det.Platform.Title()))
	}

	// Classification
	fields := ResolveFields(t)
	kept := make([]ClassifiedRow, 0, len(inRange))
	for _, r := range inRange {
		r.Category = ClassifyRow(r.Record, fields, rep.Platform.Effective)
		switch r.Category {
		case CategoryReel:
			rep.Counts.Reel++
		case CategoryVideo:
			rep.Counts.Video++
		default:
			rep.Counts.Other++
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		rep.Warning = &Warning{Stage: StageClassify, Message: fmt.Sprintf("no Reel or Video posts between %s and %s", rep.Start, rep.End)}
		return rep, nil
	}

	// Numeric cleaning
	clean := make([]ClassifiedRow, 0, len(kept))
	for _, r := range kept {
		v, ok := opt.Number.ParseNumber(r.Record.Get(rep.ViewColumn))
		if !ok || v < 0 {
			continue
		}
		r.Views = v
		clean = append(clean, r)
	}
	rep.Counts.Numeric = len(clean)
	if len(clean) == 0 {
		rep.Warning = &Warning{Stage: StageNumeric, Message: fmt.Sprintf("column %q has no usable numeric values in range", rep.ViewColumn)}
		return rep, nil
	}
	if dropped := len(kept) - len(clean); dropped > 0 {
		rep.Notes = append(rep.Notes, fmt.Sprintf("dropped %d Reel/Video rows with non-numeric or negative %q values", dropped, rep.ViewColumn))
	}

	rep.Rows = Aggregate(clean)
	rep.Detail = buildDetail(t, clean, rep.DateColumn, rep.ViewColumn)
	rep.DetailColumns = rep.Detail.Columns
	rep.DetailRows = len(rep.Detail.Rows)
	rep.DetailPreview = rep.Detail.Preview(opt.PreviewRows)
	log.Info("analysis complete",
		slog.Int("rows", rep.Counts.Total),
		slog.Int("in_range", rep.Counts.InRange),
		slog.Int("aggregated", rep.Counts.Numeric))
	return rep, nil
}

func buildDetail(t *Table, rows []ClassifiedRow, dateCol, viewCol string) *Detail {
	cols := []string{dateCol, viewCol, "Tipo"}
	for _, c := range detailExtras {
		if c != dateCol && c != viewCol && t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	sorted := make([]ClassifiedRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.After(sorted[j].Time) })

	d := &Detail{Columns: cols, Rows: make([][]string, 0, len(sorted))}
	for _, r := range sorted {
		line := make([]string, len(cols))
		line[0] = r.Time.Format(DetailTimeLayout)
		line[1] = strconv.FormatFloat(r.Views, 'f', -1, 64)
		line[2] = string(r.Category)
		for i := 3; i < len(cols); i++ {
			line[i] = r.Record.Get(cols[i])
		}
		d.Rows = append(d.Rows, line)
	}
	return d
}

func calendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
