package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	key   string
	value decimal.Decimal
	id    string
}

func rows() []row {
	return []row{
		{"a", decimal.NewFromInt(10), "x"},
		{"b", decimal.NewFromInt(5), "y"},
		{"a", decimal.NewFromInt(20), "x"},
		{"b", decimal.NewFromInt(5), "z"},
		{"c", decimal.NewFromInt(100), "x"},
	}
}

func request(data []row, agg Aggregation) Request {
	return Request{
		N:     len(data),
		Keys:  SingleKey(func(i int) string { return data[i].key }),
		Value: func(i int) decimal.Decimal { return data[i].value },
		ID:    func(i int) string { return data[i].id },
		Agg:   agg,
	}
}

func TestAggregateSum(t *testing.T) {
	groups := Aggregate(request(rows(), Sum))
	require.Len(t, groups, 3)

	// Key order without SortByValue.
	assert.Equal(t, []string{"a"}, groups[0].Keys)
	assert.Equal(t, "30", groups[0].Value.String())
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "10", groups[1].Value.String())
	assert.Equal(t, "100", groups[2].Value.String())
}

func TestAggregateCount(t *testing.T) {
	groups := Aggregate(request(rows(), Count))
	require.Len(t, groups, 3)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "2", groups[0].Value.String())
}

func TestAggregateMean(t *testing.T) {
	groups := Aggregate(request(rows(), Mean))
	require.Len(t, groups, 3)
	assert.Equal(t, "15", groups[0].Value.String())
	assert.Equal(t, "5", groups[1].Value.String())
}

func TestAggregateNUnique(t *testing.T) {
	groups := Aggregate(request(rows(), NUnique))
	require.Len(t, groups, 3)

	// Group a has x twice, group b has y and z.
	assert.Equal(t, 1, groups[0].Count)
	assert.Equal(t, 2, groups[1].Count)
}

func TestAggregateSortByValueDesc(t *testing.T) {
	req := request(rows(), Sum)
	req.SortByValue = true

	groups := Aggregate(req)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"c"}, groups[0].Keys)
	assert.Equal(t, []string{"a"}, groups[1].Keys)
	assert.Equal(t, []string{"b"}, groups[2].Keys)
}

func TestAggregateLimit(t *testing.T) {
	req := request(rows(), Sum)
	req.SortByValue = true
	req.Limit = 2

	groups := Aggregate(req)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"c"}, groups[0].Keys)
}

func TestAggregateEmptyInput(t *testing.T) {
	groups := Aggregate(request(nil, Sum))
	assert.Empty(t, groups)
}

func TestAggregateNumericKeyOrder(t *testing.T) {
	data := []row{
		{"10", decimal.NewFromInt(1), ""},
		{"2", decimal.NewFromInt(1), ""},
		{"1", decimal.NewFromInt(1), ""},
	}
	groups := Aggregate(request(data, Count))
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"1"}, groups[0].Keys)
	assert.Equal(t, []string{"2"}, groups[1].Keys)
	assert.Equal(t, []string{"10"}, groups[2].Keys)
}

func TestAggregateValueTieFallsBackToKeyOrder(t *testing.T) {
	data := []row{
		{"b", decimal.NewFromInt(5), ""},
		{"a", decimal.NewFromInt(5), ""},
	}
	req := request(data, Sum)
	req.SortByValue = true

	groups := Aggregate(req)
	assert.Equal(t, []string{"a"}, groups[0].Keys)
	assert.Equal(t, []string{"b"}, groups[1].Keys)
}

func TestSafeDivZeroDenominator(t *testing.T) {
	assert.True(t, SafeDiv(decimal.NewFromInt(10), 0).IsZero())
	assert.Equal(t, "5", SafeDiv(decimal.NewFromInt(10), 2).String())
}

func TestSafeRatioAndPercent(t *testing.T) {
	assert.Equal(t, 0.0, SafeRatio(10, 0))
	assert.Equal(t, 2.5, SafeRatio(5, 2))
	assert.Equal(t, 0.0, SafePercent(10, 0))
	assert.Equal(t, 50.0, SafePercent(1, 2))
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "a / b", FormatKey([]string{"a", "b"}))
	assert.Equal(t, "a", FormatKey([]string{"a"}))
}
