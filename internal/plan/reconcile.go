package plan

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkoudela/shoplens/internal/dataset"
	"github.com/mkoudela/shoplens/internal/metrics"
)

// Granularity is the bucket width of the reconciliation grid.
type Granularity int

const (
	Daily Granularity = iota
	Monthly
)

// ParseGranularity maps a config/flag value to a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "", "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	}
	return Daily, fmt.Errorf("unknown granularity %q (want daily or monthly)", s)
}

func (g Granularity) String() string {
	if g == Monthly {
		return "monthly"
	}
	return "daily"
}

// Bucket is one grid cell: planned revenue prorated from every overlapping
// plan, actual order revenue, and the achievement percentage.
type Bucket struct {
	Start       time.Time       `json:"start"`
	Label       string          `json:"label"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`
	Achievement float64         `json:"achievement"`
}

// Result is one reconciliation pass over a reporting window.
type Result struct {
	Granularity string          `json:"granularity"`
	Buckets     []Bucket        `json:"buckets"`
	Planned     decimal.Decimal `json:"planned"`
	Actual      decimal.Decimal `json:"actual"`
	Achievement float64         `json:"achievement"`
}

// Reconcile prorates each plan's target revenue evenly over the buckets its
// date range covers within [windowStart, windowEnd], accumulates actual
// order revenue onto the same grid, and reports per-bucket and whole-window
// achievement. A zero planned amount yields a zero achievement; a plan with
// no overlapping buckets contributes nothing.
func Reconcile(plans []dataset.SalesPlan, orders []dataset.Order, windowStart, windowEnd time.Time, g Granularity) Result {
	if windowEnd.Before(windowStart) {
		windowStart, windowEnd = windowEnd, windowStart
	}
	windowStart = truncate(windowStart, g)
	windowEnd = truncate(windowEnd, g)

	var buckets []Bucket
	index := make(map[string]int)
	for t := windowStart; !t.After(windowEnd); t = next(t, g) {
		label := bucketLabel(t, g)
		index[label] = len(buckets)
		buckets = append(buckets, Bucket{
			Start:   t,
			Label:   label,
			Planned: decimal.Zero,
			Actual:  decimal.Zero,
		})
	}

	for _, p := range plans {
		start, end := p.StartDate, p.EndDate
		if end.Before(start) {
			start, end = end, start
		}
		// Clip to the reporting window.
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		start = truncate(start, g)
		end = truncate(end, g)
		if end.Before(start) {
			continue
		}
		n := int64(0)
		for t := start; !t.After(end); t = next(t, g) {
			n++
		}
		if n == 0 {
			continue
		}
		share := metrics.SafeDiv(p.TargetRevenue, n)
		for t := start; !t.After(end); t = next(t, g) {
			i := index[bucketLabel(t, g)]
			buckets[i].Planned = buckets[i].Planned.Add(share)
		}
	}

	for _, o := range orders {
		label := bucketLabel(truncate(o.Date, g), g)
		i, ok := index[label]
		if !ok {
			continue // outside the reporting window
		}
		buckets[i].Actual = buckets[i].Actual.Add(o.TotalAmount)
	}

	res := Result{
		Granularity: g.String(),
		Buckets:     buckets,
		Planned:     decimal.Zero,
		Actual:      decimal.Zero,
	}
	for i := range buckets {
		planned, _ := buckets[i].Planned.Float64()
		actual, _ := buckets[i].Actual.Float64()
		buckets[i].Achievement = metrics.SafePercent(actual, planned)
		res.Planned = res.Planned.Add(buckets[i].Planned)
		res.Actual = res.Actual.Add(buckets[i].Actual)
	}
	planned, _ := res.Planned.Float64()
	actual, _ := res.Actual.Float64()
	res.Achievement = metrics.SafePercent(actual, planned)
	return res
}

func truncate(t time.Time, g Granularity) time.Time {
	if g == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func next(t time.Time, g Granularity) time.Time {
	if g == Monthly {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

func bucketLabel(t time.Time, g Granularity) string {
	if g == Monthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
