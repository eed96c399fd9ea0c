package rfm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoudela/shoplens/internal/dataset"
)

func orderAt(customer string, date time.Time, amount int64) dataset.Order {
	return dataset.Order{
		ID:          customer + date.Format("20060102"),
		CustomerID:  customer,
		Date:        date,
		TotalAmount: decimal.NewFromInt(amount),
	}
}

// scenarioOrders builds three distinct buying profiles: C1 bought often,
// recently and big; C2 once, long ago and small; C3 sits in between.
func scenarioOrders(reference time.Time) []dataset.Order {
	var orders []dataset.Order
	for i := 0; i < 10; i++ {
		orders = append(orders, orderAt("C1", reference.AddDate(0, 0, -5-i), 500))
	}
	orders = append(orders, orderAt("C2", reference.AddDate(0, 0, -200), 50))
	for i := 0; i < 5; i++ {
		orders = append(orders, orderAt("C3", reference.AddDate(0, 0, -50-i), 100))
	}
	return orders
}

func scoreByCustomer(scores []Score) map[string]Score {
	m := make(map[string]Score, len(scores))
	for _, s := range scores {
		m[s.CustomerID] = s
	}
	return m
}

func TestSegmentScenario(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	scores := Segment(scenarioOrders(reference), reference, ScaleClassic)
	require.Len(t, scores, 3)

	by := scoreByCustomer(scores)

	assert.Equal(t, 5, by["C1"].RecencyDays)
	assert.Equal(t, 10, by["C1"].Frequency)
	assert.True(t, by["C1"].Monetary.Equal(decimal.NewFromInt(5000)))

	// Recency scores are distinct: most recent buyer highest, stalest lowest.
	assert.Greater(t, by["C1"].R, by["C3"].R)
	assert.Greater(t, by["C3"].R, by["C2"].R)
	assert.Greater(t, by["C1"].F, by["C3"].F)
	assert.Greater(t, by["C1"].M, by["C3"].M)

	// Result is ordered by combined score.
	assert.Equal(t, "C1", scores[0].CustomerID)
	assert.Equal(t, "C2", scores[2].CustomerID)
	assert.Greater(t, scores[0].Total, scores[1].Total)

	assert.Equal(t, "Loyal Customers", by["C1"].Segment)
	assert.Equal(t, "At Risk", by["C3"].Segment)
	assert.Equal(t, "Need Attention", by["C2"].Segment)
}

func TestSegmentCompactScale(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	scores := Segment(scenarioOrders(reference), reference, ScaleCompact)
	require.Len(t, scores, 3)

	by := scoreByCustomer(scores)

	// The compact scale caps recency at 4.
	for _, s := range scores {
		assert.LessOrEqual(t, s.R, 4)
		assert.LessOrEqual(t, s.Total, 14)
	}
	assert.Greater(t, by["C1"].R, by["C2"].R)
	assert.Equal(t, "Loyal Customers", by["C1"].Segment)
}

func TestSegmentReferenceDefaultsToLatestOrder(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	scores := Segment(scenarioOrders(reference), time.Time{}, ScaleClassic)

	// The latest order becomes day zero, so C1's recency shifts from 5 to 0.
	by := scoreByCustomer(scores)
	assert.Equal(t, 0, by["C1"].RecencyDays)
	assert.Equal(t, 195, by["C2"].RecencyDays)
}

func TestSegmentFutureOrdersClampToZeroRecency(t *testing.T) {
	reference := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []dataset.Order{
		orderAt("C1", reference.AddDate(0, 0, 30), 100),
		orderAt("C2", reference.AddDate(0, 0, -30), 100),
	}

	scores := Segment(orders, reference, ScaleClassic)
	by := scoreByCustomer(scores)
	assert.Equal(t, 0, by["C1"].RecencyDays)
}

func TestSegmentSingleCustomer(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	orders := []dataset.Order{orderAt("C1", reference, 100)}

	scores := Segment(orders, reference, ScaleClassic)
	require.Len(t, scores, 1)

	// A population of one cannot be binned; every dimension bottoms out.
	s := scores[0]
	assert.Equal(t, 1, s.R)
	assert.Equal(t, 1, s.F)
	assert.Equal(t, 1, s.M)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, "Need Attention", s.Segment)
}

func TestSegmentIdenticalSpendScoresMonetaryOne(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	orders := []dataset.Order{
		orderAt("C1", reference.AddDate(0, 0, -1), 100),
		orderAt("C2", reference.AddDate(0, 0, -90), 100),
		orderAt("C3", reference.AddDate(0, 0, -180), 100),
	}

	scores := Segment(orders, reference, ScaleClassic)
	for _, s := range scores {
		assert.Equal(t, 1, s.M)
		assert.Equal(t, 1, s.F)
	}
}

func TestSegmentEmptyOrders(t *testing.T) {
	assert.Nil(t, Segment(nil, time.Time{}, ScaleClassic))
}

func TestParseScale(t *testing.T) {
	s, err := ParseScale("")
	require.NoError(t, err)
	assert.Equal(t, ScaleClassic, s)

	s, err = ParseScale("compact")
	require.NoError(t, err)
	assert.Equal(t, ScaleCompact, s)

	_, err = ParseScale("deluxe")
	require.Error(t, err)
}

func TestDistribution(t *testing.T) {
	reference := time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)
	scores := Segment(scenarioOrders(reference), reference, ScaleClassic)

	dist := Distribution(scores, ScaleClassic)
	require.Len(t, dist, 5)

	// Band order from best to worst, empty segments included.
	assert.Equal(t, "Champions", dist[0].Segment)
	assert.Equal(t, 0, dist[0].Count)
	assert.Equal(t, "Loyal Customers", dist[1].Segment)
	assert.Equal(t, 1, dist[1].Count)
	assert.Equal(t, "At Risk", dist[3].Segment)
	assert.Equal(t, 1, dist[3].Count)
	assert.Equal(t, "Need Attention", dist[4].Segment)
	assert.Equal(t, 1, dist[4].Count)
}
