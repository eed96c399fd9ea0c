package plan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoudela/shoplens/internal/dataset"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func planOf(start, end time.Time, target string) dataset.SalesPlan {
	return dataset.SalesPlan{
		ID:            "PL",
		StartDate:     start,
		EndDate:       end,
		TargetRevenue: decimal.RequireFromString(target),
	}
}

func orderOn(day time.Time, amount string) dataset.Order {
	return dataset.Order{
		ID:          "O" + day.Format("20060102"),
		Date:        day,
		TotalAmount: decimal.RequireFromString(amount),
	}
}

func TestReconcileDailyProration(t *testing.T) {
	// A 1000 target over Jan 1-10 prorates to 100 per day; the rest of the
	// month carries no plan.
	plans := []dataset.SalesPlan{
		planOf(date(2024, 1, 1), date(2024, 1, 10), "1000"),
	}
	orders := []dataset.Order{
		orderOn(date(2024, 1, 1), "150"),
		orderOn(date(2024, 1, 10), "50"),
		orderOn(date(2024, 1, 20), "500"),
	}

	res := Reconcile(plans, orders, date(2024, 1, 1), date(2024, 1, 31), Daily)
	require.Len(t, res.Buckets, 31)
	assert.Equal(t, "daily", res.Granularity)

	assert.Equal(t, "2024-01-01", res.Buckets[0].Label)
	assert.True(t, res.Buckets[0].Planned.Equal(decimal.NewFromInt(100)))
	assert.True(t, res.Buckets[0].Actual.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 150.0, res.Buckets[0].Achievement)

	assert.True(t, res.Buckets[9].Planned.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 50.0, res.Buckets[9].Achievement)

	// Day 11 onward: nothing planned, so achievement stays zero even with
	// actual revenue.
	assert.True(t, res.Buckets[10].Planned.IsZero())
	assert.True(t, res.Buckets[19].Actual.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0.0, res.Buckets[19].Achievement)

	assert.True(t, res.Planned.Equal(decimal.NewFromInt(1000)))
	assert.True(t, res.Actual.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 70.0, res.Achievement)
}

func TestReconcileMonthlyBuckets(t *testing.T) {
	plans := []dataset.SalesPlan{
		planOf(date(2024, 1, 1), date(2024, 3, 31), "3000"),
	}
	orders := []dataset.Order{
		orderOn(date(2024, 1, 15), "800"),
		orderOn(date(2024, 2, 15), "1200"),
	}

	res := Reconcile(plans, orders, date(2024, 1, 1), date(2024, 3, 31), Monthly)
	require.Len(t, res.Buckets, 3)

	assert.Equal(t, "2024-01", res.Buckets[0].Label)
	assert.True(t, res.Buckets[0].Planned.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 80.0, res.Buckets[0].Achievement)
	assert.Equal(t, 120.0, res.Buckets[1].Achievement)
	assert.Equal(t, 0.0, res.Buckets[2].Achievement)
}

func TestReconcileClipsPlanToWindow(t *testing.T) {
	// A plan overhanging the window only contributes its overlapping share.
	plans := []dataset.SalesPlan{
		planOf(date(2023, 12, 1), date(2024, 2, 29), "3000"),
	}

	res := Reconcile(plans, nil, date(2024, 1, 1), date(2024, 1, 31), Monthly)
	require.Len(t, res.Buckets, 1)
	assert.True(t, res.Planned.Equal(decimal.NewFromInt(3000)))
}

func TestReconcilePlanOutsideWindowIgnored(t *testing.T) {
	plans := []dataset.SalesPlan{
		planOf(date(2023, 1, 1), date(2023, 12, 31), "9999"),
	}

	res := Reconcile(plans, nil, date(2024, 1, 1), date(2024, 1, 31), Daily)
	assert.True(t, res.Planned.IsZero())
	assert.Equal(t, 0.0, res.Achievement)
}

func TestReconcileOrdersOutsideWindowIgnored(t *testing.T) {
	orders := []dataset.Order{
		orderOn(date(2023, 12, 31), "100"),
		orderOn(date(2024, 1, 5), "200"),
	}

	res := Reconcile(nil, orders, date(2024, 1, 1), date(2024, 1, 31), Daily)
	assert.True(t, res.Actual.Equal(decimal.NewFromInt(200)))
}

func TestReconcileConservesTarget(t *testing.T) {
	// Proration across a count that does not divide evenly still sums back
	// to the target within division precision.
	plans := []dataset.SalesPlan{
		planOf(date(2024, 1, 1), date(2024, 1, 7), "100"),
	}

	res := Reconcile(plans, nil, date(2024, 1, 1), date(2024, 1, 7), Daily)
	diff := res.Planned.Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThan(decimal.RequireFromString("0.000001")))
}

func TestReconcileSwappedWindow(t *testing.T) {
	res := Reconcile(nil, nil, date(2024, 1, 31), date(2024, 1, 1), Daily)
	assert.Len(t, res.Buckets, 31)
	assert.Equal(t, "2024-01-01", res.Buckets[0].Label)
}

func TestReconcileSwappedPlanDates(t *testing.T) {
	plans := []dataset.SalesPlan{
		planOf(date(2024, 1, 10), date(2024, 1, 1), "1000"),
	}

	res := Reconcile(plans, nil, date(2024, 1, 1), date(2024, 1, 31), Daily)
	assert.True(t, res.Buckets[0].Planned.Equal(decimal.NewFromInt(100)))
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, Daily, g)

	g, err = ParseGranularity("monthly")
	require.NoError(t, err)
	assert.Equal(t, Monthly, g)

	_, err = ParseGranularity("hourly")
	require.Error(t, err)
}
