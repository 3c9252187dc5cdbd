package analysis

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the local zone all comparisons are normalized into.
const DefaultTimezone = "America/Sao_Paulo"

// DayLayout is the calendar-date format accepted for window boundaries.
const DayLayout = "2006-01-02"

// Layouts that carry their own UTC offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05 MST",
	"2006-01-02T15:04:05 MST",
	time.RFC1123Z,
}

// Layouts without offset; interpreted in the naive location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 pm",
	"1/2/2006 3:04 pm",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// Clock converts raw export timestamps into one local timezone.
type Clock struct {
	Local *time.Location
	// Naive is the zone assumed for timestamps without offset.
	Naive *time.Location
}

// NewClock loads tz. Naive timestamps are read as UTC unless naiveLocal is
// set, in which case they are read as wall-clock time in tz.
func NewClock(tz string, naiveLocal bool) (*Clock, error) {
	if strings.TrimSpace(tz) == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	c := &Clock{Local: loc, Naive: time.UTC}
	if naiveLocal {
		c.Naive = loc
	}
	return c, nil
}

// Parse reads s and returns it in the local zone. Blank or unrecognized
// values return ok=false.
func (c *Clock) Parse(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range zonedLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t.In(c.Local), true
		}
	}
	for _, l := range naiveLayouts {
		if t, err := time.ParseInLocation(l, v, c.Naive); err == nil {
			return t.In(c.Local), true
		}
	}
	return time.Time{}, false
}

// Window is an inclusive local-time range at day granularity.
type Window struct {
	Start time.Time
	End   time.Time
}

// Window spans from start's local midnight through the last microsecond of
// end's day. Only the calendar fields of start and end are used.
func (c *Clock) Window(start, end time.Time) Window {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	return Window{
		Start: time.Date(sy, sm, sd, 0, 0, 0, 0, c.Local),
		End:   time.Date(ey, em, ed, 23, 59, 59, 999999000, c.Local),
	}
}

// Contains reports whether t lies inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseDay parses a YYYY-MM-DD calendar date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// DefaultRange returns the last seven days ending today in loc, the window
// used when the caller supplies no dates.
func DefaultRange(now time.Time, loc *time.Location) (start, end time.Time) {
	if loc != nil {
		now = now.In(loc)
	}
	y, m, d := now.Date()
	end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -7), end
}
