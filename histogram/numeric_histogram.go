package histogram

import (
	"math"
)

// NumericHistogramStruct keeps every value so that it can be re-binned on demand.
type NumericHistogramStruct struct {
	Values []float64
	Total  uint64
	Min    float64
	Max    float64
	mean   float64
	m2     float64
}

// NumericBin counts the values in [Lower, Upper). The last bin also holds Upper.
type NumericBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count uint64  `json:"count"`
}

func (b NumericBin) Mid() float64 {
	return (b.Lower + b.Upper) / 2
}

func NewNumericHistogram(values []float64) *NumericHistogramStruct {
	h := &NumericHistogramStruct{Values: make([]float64, 0, len(values))}
	for _, value := range values {
		h.Add(value)
	}
	return h
}

// Add ignores NaN and infinite values.
func (h *NumericHistogramStruct) Add(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	if h.Total == 0 || value < h.Min {
		h.Min = value
	}
	if h.Total == 0 || value > h.Max {
		h.Max = value
	}
	h.Values = append(h.Values, value)
	h.Total++

	// Welford's online update.
	delta := value - h.mean
	h.mean += delta / float64(h.Total)
	h.m2 += delta * (value - h.mean)
}

func (h *NumericHistogramStruct) Mean() float64 {
	return h.mean
}

// Variance is the population variance.
func (h *NumericHistogramStruct) Variance() float64 {
	if h.Total == 0 {
		return 0
	}
	return h.m2 / float64(h.Total)
}

func (h *NumericHistogramStruct) Count() uint64 {
	return h.Total
}

// Bins splits [Min, Max] into equal width bins aligned to a rounded width.
// n is the target number of bins; n <= 0 picks it with Sturges' rule.
// The result may hold a bin more or less than n after rounding.
func (h *NumericHistogramStruct) Bins(n int) []NumericBin {
	if h.Total == 0 {
		return nil
	}
	if n <= 0 {
		n = SturgesBinCount(h.Total)
	}

	if h.Min == h.Max {
		return []NumericBin{{Lower: h.Min - 0.5, Upper: h.Max + 0.5, Count: h.Total}}
	}

	width := NiceWidth((h.Max - h.Min) / float64(n))
	lower := math.Floor(h.Min/width) * width
	binCount := int(math.Ceil((h.Max - lower) / width))
	if binCount < 1 {
		binCount = 1
	}

	bins := make([]NumericBin, binCount)
	for i := range bins {
		bins[i].Lower = lower + float64(i)*width
		bins[i].Upper = lower + float64(i+1)*width
	}
	for _, value := range h.Values {
		index := int(math.Floor((value - lower) / width))
		if index >= binCount {
			index = binCount - 1
		}
		if index < 0 {
			index = 0
		}
		bins[index].Count++
	}
	return bins
}

// SturgesBinCount returns ceil(log2(n)) + 1.
func SturgesBinCount(n uint64) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// NiceWidth rounds a raw bin width up to 1, 2 or 5 times a power of ten.
func NiceWidth(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}

	exponent := math.Floor(math.Log10(raw))
	magnitude := math.Pow(10, exponent)
	fraction := raw / magnitude

	var nice float64
	switch {
	case fraction <= 1:
		nice = 1
	case fraction <= 2:
		nice = 2
	case fraction <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * magnitude
}
