package rfm

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkoudela/shoplens/internal/dataset"
)

// Scale selects which of the two scoring variants in use across the
// dashboards is applied. Classic is the canonical default.
type Scale int

const (
	// ScaleClassic scores recency, frequency and monetary 1-5 each,
	// summing to 3-15.
	ScaleClassic Scale = iota
	// ScaleCompact scores recency 1-4 and frequency/monetary 1-5,
	// summing to 3-14.
	ScaleCompact
)

// ParseScale maps a config/flag value to a Scale.
func ParseScale(s string) (Scale, error) {
	switch s {
	case "", "classic":
		return ScaleClassic, nil
	case "compact":
		return ScaleCompact, nil
	}
	return ScaleClassic, fmt.Errorf("unknown rfm scale %q (want classic or compact)", s)
}

func (s Scale) String() string {
	if s == ScaleCompact {
		return "compact"
	}
	return "classic"
}

func (s Scale) recencyBins() int {
	if s == ScaleCompact {
		return 4
	}
	return 5
}

// band maps a minimum combined score to a segment label.
type band struct {
	min   int
	label string
}

// Threshold bands per scale, checked top-down. The compact scale's bands are
// shifted down one to account for its lower maximum.
var segmentBands = map[Scale][]band{
	ScaleClassic: {
		{13, "Champions"},
		{10, "Loyal Customers"},
		{7, "Potential Loyalists"},
		{5, "At Risk"},
		{0, "Need Attention"},
	},
	ScaleCompact: {
		{12, "Champions"},
		{9, "Loyal Customers"},
		{7, "Potential Loyalists"},
		{5, "At Risk"},
		{0, "Need Attention"},
	},
}

// Score is one customer's RFM result: the raw behavioral values plus the
// quantile scores and the segment label derived from them.
type Score struct {
	CustomerID  string          `json:"customer_id"`
	RecencyDays int             `json:"recency_days"`
	Frequency   int             `json:"frequency"`
	Monetary    decimal.Decimal `json:"monetary"`
	R           int             `json:"r_score"`
	F           int             `json:"f_score"`
	M           int             `json:"m_score"`
	Total       int             `json:"rfm_score"`
	Segment     string          `json:"segment"`
}

// Segment scores every customer appearing in orders. Recency is measured
// against reference, or against the latest order date when reference is
// zero. The result is sorted by descending combined score, then customer ID.
//
// Scoring is total: degenerate populations (one customer, all-identical
// values) fall back to the lowest score per dimension, they never error.
func Segment(orders []dataset.Order, reference time.Time, scale Scale) []Score {
	if len(orders) == 0 {
		return nil
	}

	if reference.IsZero() {
		for _, o := range orders {
			if o.Date.After(reference) {
				reference = o.Date
			}
		}
	}

	type accum struct {
		last     time.Time
		count    int
		monetary decimal.Decimal
	}
	byCustomer := make(map[string]*accum)
	ids := make([]string, 0)
	for _, o := range orders {
		a, ok := byCustomer[o.CustomerID]
		if !ok {
			a = &accum{monetary: decimal.Zero}
			byCustomer[o.CustomerID] = a
			ids = append(ids, o.CustomerID)
		}
		a.count++
		a.monetary = a.monetary.Add(o.TotalAmount)
		if o.Date.After(a.last) {
			a.last = o.Date
		}
	}
	sort.Strings(ids)

	recency := make([]float64, len(ids))
	frequency := make([]float64, len(ids))
	monetary := make([]float64, len(ids))
	for i, id := range ids {
		a := byCustomer[id]
		recency[i] = reference.Sub(a.last).Hours() / 24
		if recency[i] < 0 {
			recency[i] = 0
		}
		frequency[i] = float64(a.count)
		monetary[i], _ = a.monetary.Float64()
	}

	rScores := scoreByValue(recency, scale.recencyBins(), true)
	fScores := scoreByRank(frequency, 5)
	mScores := scoreByRank(monetary, 5)

	scores := make([]Score, len(ids))
	for i, id := range ids {
		a := byCustomer[id]
		total := rScores[i] + fScores[i] + mScores[i]
		scores[i] = Score{
			CustomerID:  id,
			RecencyDays: int(recency[i]),
			Frequency:   a.count,
			Monetary:    a.monetary,
			R:           rScores[i],
			F:           fScores[i],
			M:           mScores[i],
			Total:       total,
			Segment:     segmentFor(total, scale),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		return scores[i].CustomerID < scores[j].CustomerID
	})
	return scores
}

func segmentFor(total int, scale Scale) string {
	bands, ok := segmentBands[scale]
	if !ok {
		bands = segmentBands[ScaleClassic]
	}
	for _, b := range bands {
		if total >= b.min {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}

// Distribution counts customers per segment, ordered by the scale's band
// order from best to worst.
func Distribution(scores []Score, scale Scale) []SegmentCount {
	counts := make(map[string]int)
	for _, s := range scores {
		counts[s.Segment]++
	}
	bands := segmentBands[scale]
	out := make([]SegmentCount, 0, len(bands))
	for _, b := range bands {
		out = append(out, SegmentCount{Segment: b.label, Count: counts[b.label]})
	}
	return out
}

type SegmentCount struct {
	Segment string `json:"segment"`
	Count   int    `json:"count"`
}
