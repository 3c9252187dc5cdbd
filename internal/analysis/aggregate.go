package analysis

import (
	"math"
	"sort"
	"time"
)

// TotalLabel names the combined Reel and Video row.
const TotalLabel = "Reel+Video"

// ClassifiedRow is an in-range record with its parsed timestamp, label and
// (once cleaned) numeric view count.
type ClassifiedRow struct {
	Record   Record
	Time     time.Time
	Category Category
	Views    float64
}

// AggregateRow holds the view statistics of one category.
type AggregateRow struct {
	Category     string  `json:"category"`
	PostCount    int     `json:"post_count"`
	TotalViews   int64   `json:"total_views"`
	AverageViews float64 `json:"average_views"`
}

// Aggregate groups rows by Reel and Video and prepends the combined row.
// Each category total is rounded to an integer; the combined row sums the
// rounded totals and counts, so its average is weighted by post count.
// Categories without posts are emitted with zeros.
func Aggregate(rows []ClassifiedRow) []AggregateRow {
	sums := map[Category]float64{}
	counts := map[Category]int{}
	for _, r := range rows {
		if r.Category != CategoryReel && r.Category != CategoryVideo {
			continue
		}
		sums[r.Category] += r.Views
		counts[r.Category]++
	}

	per := make([]AggregateRow, 0, len(reportCategories))
	total := AggregateRow{Category: TotalLabel}
	for _, c := range reportCategories {
		row := AggregateRow{Category: string(c), PostCount: counts[c], TotalViews: int64(math.Round(sums[c]))}
		row.AverageViews = average(row.TotalViews, row.PostCount)
		per = append(per, row)
		total.PostCount += row.PostCount
		total.TotalViews += row.TotalViews
	}
	total.AverageViews = average(total.TotalViews, total.PostCount)
	sort.SliceStable(per, func(i, j int) bool { return per[i].Category < per[j].Category })
	return append([]AggregateRow{total}, per...)
}

func average(total int64, count int) float64 {
	if count == 0 {
		return 0
	}
	return round2(float64(total) / float64(count))
}
