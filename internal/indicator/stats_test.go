package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean_SkipsNaN(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, math.NaN(), 3}), 1e-12)
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
}

func TestSampleStdDev(t *testing.T) {
	// Sample variance of [2,4,4,4,5,5,7,9] = 32/7
	got := SampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(32.0/7.0), got, 1e-12)

	assert.True(t, math.IsNaN(SampleStdDev([]float64{5})), "single observation has no sample stdev")
	assert.Equal(t, 0.0, SampleStdDev([]float64{3, 3, 3}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestStdDev_Rolling(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := StdDev(values, 3)

	if len(got) != 3 {
		t.Fatalf("expected 3 values, got %d", len(got))
	}
	for i, v := range got {
		if !almostEqual(v, 1.0, 1e-12) {
			t.Errorf("std[%d] = %f, want 1", i, v)
		}
	}
}

func TestStdDev_NotEnoughData(t *testing.T) {
	assert.Empty(t, StdDev([]float64{1, 2}, 10))
	assert.Empty(t, StdDev([]float64{1, 2, 3}, 1))
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{8, 6, 4, 2}), 1e-12)
}

func TestPearson_PairwiseComplete(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4}
	y := []float64{10, 20, 999, 40}
	assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
}

func TestPearson_Degenerate(t *testing.T) {
	assert.True(t, math.IsNaN(Pearson([]float64{1}, []float64{2})))
	assert.True(t, math.IsNaN(Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})))
}
