package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregation selects how grouped values are reduced.
type Aggregation int

const (
	Sum Aggregation = iota
	Count
	Mean
	NUnique
)

// Request drives one grouped aggregation pass. Keys extracts the group key
// tuple for row i, Value the numeric value (Sum and Mean), ID the identifier
// counted by NUnique. SortByValue orders groups by descending aggregate for
// top-N displays; otherwise groups come back in key order so distributions
// keep every group, including sparse ones.
type Request struct {
	N           int
	Keys        func(i int) []string
	Value       func(i int) decimal.Decimal
	ID          func(i int) string
	Agg         Aggregation
	SortByValue bool
	Limit       int
}

// Group is one aggregated result row. Value carries Sum and Mean results,
// Count carries Count and NUnique results; both are always populated so
// callers can read whichever the aggregation produced.
type Group struct {
	Keys  []string        `json:"keys"`
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

type bucket struct {
	keys  []string
	sum   decimal.Decimal
	count int
	ids   map[string]bool
}

// Aggregate runs one grouped aggregation over rows 0..N-1.
func Aggregate(req Request) []Group {
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for i := 0; i < req.N; i++ {
		keys := req.Keys(i)
		ck := strings.Join(keys, "\x1f")
		b, ok := buckets[ck]
		if !ok {
			b = &bucket{keys: keys, sum: decimal.Zero}
			buckets[ck] = b
			order = append(order, ck)
		}
		b.count++
		if req.Value != nil {
			b.sum = b.sum.Add(req.Value(i))
		}
		if req.Agg == NUnique && req.ID != nil {
			if b.ids == nil {
				b.ids = make(map[string]bool)
			}
			b.ids[req.ID(i)] = true
		}
	}

	groups := make([]Group, 0, len(order))
	for _, ck := range order {
		b := buckets[ck]
		g := Group{Keys: b.keys, Count: b.count}
		switch req.Agg {
		case Sum:
			g.Value = b.sum
		case Count:
			g.Value = decimal.NewFromInt(int64(b.count))
		case Mean:
			g.Value = SafeDiv(b.sum, int64(b.count))
		case NUnique:
			g.Count = len(b.ids)
			g.Value = decimal.NewFromInt(int64(len(b.ids)))
		}
		groups = append(groups, g)
	}

	if req.SortByValue {
		sort.SliceStable(groups, func(i, j int) bool {
			if !groups[i].Value.Equal(groups[j].Value) {
				return groups[i].Value.GreaterThan(groups[j].Value)
			}
			return keyLess(groups[i].Keys, groups[j].Keys)
		})
	} else {
		sort.SliceStable(groups, func(i, j int) bool {
			return keyLess(groups[i].Keys, groups[j].Keys)
		})
	}

	if req.Limit > 0 && len(groups) > req.Limit {
		groups = groups[:req.Limit]
	}
	return groups
}

// keyLess compares key tuples component-wise, numerically when both
// components parse as integers so "2" sorts before "10".
func keyLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		ai, aerr := strconv.Atoi(a[i])
		bi, berr := strconv.Atoi(b[i])
		if aerr == nil && berr == nil {
			return ai < bi
		}
		return a[i] < b[i]
	}
	return len(a) < len(b)
}

// SafeDiv divides a decimal by an integer count, returning zero for a zero
// denominator instead of panicking.
func SafeDiv(num decimal.Decimal, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return num.Div(decimal.NewFromInt(den))
}

// SafeRatio returns num/den as a float, 0 when den is zero. Ratio metrics
// must never surface NaN or a division error.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// SafePercent is SafeRatio scaled to a percentage.
func SafePercent(num, den float64) float64 {
	return SafeRatio(num, den) * 100
}

// SingleKey adapts a one-field key extractor to the Keys form.
func SingleKey(fn func(i int) string) func(i int) []string {
	return func(i int) []string { return []string{fn(i)} }
}

// FormatKey joins a group key tuple for display.
func FormatKey(keys []string) string {
	return strings.Join(keys, " / ")
}
