package stats

import (
	"math"
	"sort"

	"github.com/nvandessel/radonsim/internal/constants"
)

// Descriptive accumulates values one at a time and answers descriptive
// statistics over everything added so far. All values are retained because
// percentiles need the full distribution.
//
// A Descriptive is not safe for concurrent use. Parallel producers should each
// fill their own accumulator and Merge them afterwards.
type Descriptive struct {
	values []float64
	sum    float64
	logSum float64
	max    float64
	min    float64

	sorted []float64 // cached ascending copy, nil when stale
}

// NewDescriptive returns an accumulator with room for capacity values.
func NewDescriptive(capacity int) *Descriptive {
	if capacity < 0 {
		capacity = 0
	}
	return &Descriptive{values: make([]float64, 0, capacity)}
}

// Add folds v into the accumulator.
func (d *Descriptive) Add(v float64) {
	if len(d.values) == 0 || v > d.max {
		d.max = v
	}
	if len(d.values) == 0 || v < d.min {
		d.min = v
	}
	d.values = append(d.values, v)
	d.sum += v
	if v > 0 {
		d.logSum += math.Log(v)
	}
	d.sorted = nil
}

// Merge folds every value of other into d, in other's insertion order.
func (d *Descriptive) Merge(other *Descriptive) {
	if other == nil {
		return
	}
	for _, v := range other.values {
		d.Add(v)
	}
}

// N returns the number of values added.
func (d *Descriptive) N() int { return len(d.values) }

// Values returns the values in insertion order. Callers must not modify it.
func (d *Descriptive) Values() []float64 { return d.values }

// Sum returns the sum of all values.
func (d *Descriptive) Sum() float64 { return d.sum }

// Mean returns the arithmetic mean, or NaN when empty.
func (d *Descriptive) Mean() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return d.sum / float64(len(d.values))
}

// GeometricMean returns the geometric mean, or NaN when empty.
func (d *Descriptive) GeometricMean() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return math.Exp(d.logSum / float64(len(d.values)))
}

// StdDev returns the bias-corrected standard deviation.
func (d *Descriptive) StdDev() float64 {
	return StdDev(d.values)
}

// Max returns the largest value, or NaN when empty.
func (d *Descriptive) Max() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return d.max
}

// Min returns the smallest value, or NaN when empty.
func (d *Descriptive) Min() float64 {
	if len(d.values) == 0 {
		return math.NaN()
	}
	return d.min
}

// Percentile returns the p-th percentile of the values added so far.
func (d *Descriptive) Percentile(p float64) float64 {
	if d.sorted == nil {
		d.sorted = make([]float64, len(d.values))
		copy(d.sorted, d.values)
		sort.Float64s(d.sorted)
	}
	return PercentileSorted(d.sorted, p)
}

// Summary is a snapshot of a distribution and its derived spread measures.
type Summary struct {
	N             int     `json:"n" yaml:"n"`
	Mean          float64 `json:"mean" yaml:"mean"`
	GeometricMean float64 `json:"geometric_mean" yaml:"geometric_mean"`
	StdDev        float64 `json:"std_dev" yaml:"std_dev"`
	Min           float64 `json:"min" yaml:"min"`
	Max           float64 `json:"max" yaml:"max"`
	Q5            float64 `json:"q5" yaml:"q5"`
	Median        float64 `json:"median" yaml:"median"`
	Q95           float64 `json:"q95" yaml:"q95"`

	// CV is the variation coefficient, StdDev / Mean.
	CV float64 `json:"cv" yaml:"cv"`
	// QD is the quantile deviation, (Q95 - Q5) / Median.
	QD float64 `json:"qd" yaml:"qd"`
	// GSD is the geometric standard deviation.
	GSD float64 `json:"gsd" yaml:"gsd"`
}

// Summarize computes a Summary of the values added so far.
func (d *Descriptive) Summarize() Summary {
	s := Summary{
		N:             d.N(),
		Mean:          d.Mean(),
		GeometricMean: d.GeometricMean(),
		StdDev:        d.StdDev(),
		Min:           d.Min(),
		Max:           d.Max(),
		Q5:            d.Percentile(constants.LowerQuantile),
		Median:        d.Percentile(constants.MedianQuantile),
		Q95:           d.Percentile(constants.UpperQuantile),
	}
	s.CV = VariationCoefficient(s.StdDev, s.Mean)
	s.QD = QuantileDeviation(s.Q5, s.Median, s.Q95)
	s.GSD = GeometricStdDev(d.values, s.GeometricMean)
	return s
}
