package scoring_test

import (
	"testing"

	"github.com/productPach/tutorio-backend-sub000/internal/scoring"
	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty sequence", nil, 0},
		{"single element", []float64{7}, 7},
		{"odd length takes the central element", []float64{0, 2, 4, 4, 10}, 4},
		{"even length averages the central pair", []float64{1, 2, 3, 10}, 2.5},
		{"unsorted input", []float64{10, 0, 4, 2, 4}, 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, scoring.Median(tt.values), 1e-9)
		})
	}
}

func TestMedianOfCounts(t *testing.T) {
	t.Parallel()

	counts := map[string]int{"t1": 2, "t2": 4, "t3": 4, "t4": 10}
	assert.InDelta(t, 4, scoring.MedianOfCounts(counts), 1e-9)

	assert.Zero(t, scoring.MedianOfCounts(nil))
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 2}
	scoring.Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
