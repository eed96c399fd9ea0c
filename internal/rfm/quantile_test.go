package rfm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreByValueSpread(t *testing.T) {
	// With a clean spread every value lands in its own region.
	scores := scoreByValue([]float64{5, 200, 50}, 5, false)
	assert.Equal(t, []int{1, 3, 2}, scores)
}

func TestScoreByValueInverted(t *testing.T) {
	// Inverted scoring ranks the smallest value highest.
	scores := scoreByValue([]float64{5, 200, 50}, 5, true)
	assert.Equal(t, []int{3, 1, 2}, scores)
}

func TestScoreByValueSingleDistinctValue(t *testing.T) {
	scores := scoreByValue([]float64{7, 7, 7, 7}, 5, true)
	assert.Equal(t, []int{1, 1, 1, 1}, scores)
}

func TestScoreByValueEmpty(t *testing.T) {
	assert.Empty(t, scoreByValue(nil, 5, false))
}

func TestScoreByValueDuplicateEdgesCollapse(t *testing.T) {
	// Heavy ties shrink the effective bin count instead of failing; the
	// outlier still separates from the tied mass.
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 100}
	scores := scoreByValue(values, 5, false)
	for i := 0; i < 8; i++ {
		assert.Equal(t, 1, scores[i])
	}
	assert.Greater(t, scores[8], 1)
}

func TestScoreByValueTwoValues(t *testing.T) {
	scores := scoreByValue([]float64{1, 10}, 5, false)
	assert.Equal(t, 1, scores[0])
	assert.Greater(t, scores[1], scores[0])
}

func TestScoreByRankSpread(t *testing.T) {
	scores := scoreByRank([]float64{10, 1, 5}, 5)
	assert.Equal(t, []int{4, 1, 2}, scores)
}

func TestScoreByRankAllIdentical(t *testing.T) {
	scores := scoreByRank([]float64{3, 3, 3}, 5)
	assert.Equal(t, []int{1, 1, 1}, scores)
}

func TestScoreByRankTiesBreakByPosition(t *testing.T) {
	// Ties are ranked in input order, so equal values can land in
	// different bins but never out of order.
	scores := scoreByRank([]float64{1, 1, 1, 1, 2}, 5)
	assert.Equal(t, 5, scores[4])
	for i := 1; i < 4; i++ {
		assert.GreaterOrEqual(t, scores[i], scores[i-1])
	}
}

func TestScoreByRankCoversFullRange(t *testing.T) {
	scores := scoreByRank([]float64{1, 2, 3, 4, 5}, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, scores)
}
