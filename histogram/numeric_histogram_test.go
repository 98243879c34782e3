package histogram

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramMean(t *testing.T) {
	for _, numSamples := range []int{1, 5, 10, 50, 100} {
		h := NewNumericHistogram(nil)
		var allSamples = []float64{}
		for j := 0; j < numSamples; j++ {
			value := float64(rand.Intn(1000)) / 10
			allSamples = append(allSamples, value)
			h.Add(value)
		}

		assert.Equal(t, uint64(numSamples), h.Count())

		var sum float64
		for _, sample := range allSamples {
			sum += sample
		}
		mean := sum / float64(numSamples)
		assert.InDelta(t, mean, h.Mean(), 1e-9, fmt.Sprintf("Mean mismatch for %d samples", numSamples))

		var squares float64
		for _, sample := range allSamples {
			squares += (sample - mean) * (sample - mean)
		}
		assert.InDelta(t, squares/float64(numSamples), h.Variance(), 1e-6,
			fmt.Sprintf("Variance mismatch for %d samples", numSamples))
	}
}

func TestHistogramIgnoresNonFinite(t *testing.T) {
	h := NewNumericHistogram([]float64{1, math.NaN(), math.Inf(1), 3})
	assert.Equal(t, uint64(2), h.Count())
	assert.Equal(t, 1.0, h.Min)
	assert.Equal(t, 3.0, h.Max)
}

func TestHistogramBins(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	h := NewNumericHistogram(values)

	t.Run("Sturges", func(t *testing.T) {
		bins := h.Bins(0)
		require.Len(t, bins, 5)
		for i, bin := range bins {
			assert.Equal(t, float64(2*i), bin.Lower)
			assert.Equal(t, float64(2*i+2), bin.Upper)
			assert.Equal(t, uint64(2), bin.Count)
		}
		assert.Equal(t, 1.0, bins[0].Mid())
	})

	t.Run("Target", func(t *testing.T) {
		bins := h.Bins(3)
		require.Len(t, bins, 2)
		assert.Equal(t, uint64(5), bins[0].Count)
		assert.Equal(t, uint64(5), bins[1].Count)
		assert.Equal(t, 10.0, bins[1].Upper)
	})

	t.Run("CountsAddUp", func(t *testing.T) {
		var values []float64
		for i := 0; i < 500; i++ {
			values = append(values, rand.Float64()*1000-250)
		}
		h := NewNumericHistogram(values)
		for _, n := range []int{0, 1, 7, 20} {
			var total uint64
			bins := h.Bins(n)
			for _, bin := range bins {
				total += bin.Count
			}
			assert.Equal(t, uint64(500), total)
			assert.LessOrEqual(t, bins[0].Lower, h.Min+1e-9)
			assert.GreaterOrEqual(t, bins[len(bins)-1].Upper, h.Max-1e-9)
		}
	})

	t.Run("SingleValue", func(t *testing.T) {
		bins := NewNumericHistogram([]float64{4, 4, 4}).Bins(0)
		require.Len(t, bins, 1)
		assert.Equal(t, uint64(3), bins[0].Count)
		assert.Equal(t, 4.0, bins[0].Mid())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, NewNumericHistogram(nil).Bins(0))
	})
}

func TestSturgesBinCount(t *testing.T) {
	assert.Equal(t, 1, SturgesBinCount(0))
	assert.Equal(t, 1, SturgesBinCount(1))
	assert.Equal(t, 2, SturgesBinCount(2))
	assert.Equal(t, 5, SturgesBinCount(10))
	assert.Equal(t, 11, SturgesBinCount(1000))
}

func TestNiceWidth(t *testing.T) {
	for raw, expected := range map[float64]float64{
		0.7:  1,
		1:    1,
		1.8:  2,
		3:    5,
		7:    10,
		42:   50,
		180:  200,
		0.03: 0.05,
	} {
		assert.InDelta(t, expected, NiceWidth(raw), 1e-9, fmt.Sprintf("raw width %v", raw))
	}
	assert.Equal(t, 1.0, NiceWidth(0))
}
