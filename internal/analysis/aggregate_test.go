package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(c Category, v float64) ClassifiedRow {
	return ClassifiedRow{Category: c, Views: v}
}

func TestAggregateTotalsAndOrder(t *testing.T) {
	got := Aggregate([]ClassifiedRow{
		row(CategoryVideo, 50),
		row(CategoryReel, 100),
		row(CategoryReel, 201),
		row(CategoryOther, 1e6),
	})
	require.Len(t, got, 3)
	assert.Equal(t, AggregateRow{Category: TotalLabel, PostCount: 3, TotalViews: 351, AverageViews: 117}, got[0])
	assert.Equal(t, AggregateRow{Category: "Reel", PostCount: 2, TotalViews: 301, AverageViews: 150.5}, got[1])
	assert.Equal(t, AggregateRow{Category: "Video", PostCount: 1, TotalViews: 50, AverageViews: 50}, got[2])
}

func TestAggregateZeroCategory(t *testing.T) {
	got := Aggregate([]ClassifiedRow{row(CategoryReel, 10)})
	require.Len(t, got, 3)
	assert.Equal(t, AggregateRow{Category: "Video"}, got[2])
	assert.Equal(t, int64(10), got[0].TotalViews)
}

func TestAggregateOverallSumsRoundedTotals(t *testing.T) {
	got := Aggregate([]ClassifiedRow{
		row(CategoryReel, 0.4), row(CategoryReel, 0.4),
		row(CategoryVideo, 0.4), row(CategoryVideo, 0.4),
	})
	// 0.8 rounds to 1 per category, so the overall total is 2 rather than round(1.6)
	assert.Equal(t, int64(1), got[1].TotalViews)
	assert.Equal(t, int64(1), got[2].TotalViews)
	assert.Equal(t, got[1].TotalViews+got[2].TotalViews, got[0].TotalViews)
	assert.Equal(t, got[1].PostCount+got[2].PostCount, got[0].PostCount)
	assert.Equal(t, 0.5, got[0].AverageViews)
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Zero(t, r.PostCount)
		assert.Zero(t, r.AverageViews)
	}
}
