// Package stats provides the descriptive statistics used for campaigns and
// whole simulations.
//
// Geometric quantities treat a zero value as a log contribution of 0 instead
// of -Inf, since hourly radon series routinely contain zero readings.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of x, or NaN for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// GeometricMean returns exp(mean(ln x)), with zero values contributing 0 to
// the log sum. It returns NaN for an empty slice.
func GeometricMean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return math.Exp(floats.Sum(logs(x)) / float64(len(x)))
}

// Max returns the largest value of x, or NaN for an empty slice.
func Max(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Max(x)
}

// Min returns the smallest value of x, or NaN for an empty slice.
func Min(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return floats.Min(x)
}

// Median returns the 50th percentile of x.
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Percentile returns the p-th percentile (0 < p <= 100) of x without
// modifying it. See PercentileSorted for the estimator.
func Percentile(x []float64, p float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, p)
}

// PercentileSorted returns the p-th percentile of an ascending slice.
//
// The estimator places the percentile at position p(n+1)/100 (1-based) and
// interpolates linearly between neighbours, clamping to the minimum below
// position 1 and to the maximum at or beyond position n. For p = 50 this is
// the usual median: the middle value, or the mean of the two middle values.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p <= 0 || p > 100 || math.IsNaN(p) {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	pos := p * float64(n+1) / 100
	fpos := math.Floor(pos)
	if pos < 1 {
		return sorted[0]
	}
	if pos >= float64(n) {
		return sorted[n-1]
	}
	lower := sorted[int(fpos)-1]
	upper := sorted[int(fpos)]
	return lower + (pos-fpos)*(upper-lower)
}

// StdDev returns the bias-corrected (n-1) standard deviation of x.
// It returns NaN for fewer than two values.
func StdDev(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.StdDev(x, nil)
}

// VariationCoefficient returns stdDev / mean.
func VariationCoefficient(stdDev, mean float64) float64 {
	return stdDev / mean
}

// QuantileDeviation returns (q95 - q5) / q50.
func QuantileDeviation(q5, q50, q95 float64) float64 {
	return (q95 - q5) / q50
}

// GeometricStdDev returns exp(sqrt(mean((ln(x_i) / geoMean)^2))) over all
// values of x. This is the campaign report's spread measure, not the textbook
// exp(sd(ln x)). Zero values have a log of 0 but still count towards n.
func GeometricStdDev(x []float64, geoMean float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, l := range logs(x) {
		q := l / geoMean
		sum += q * q
	}
	return math.Exp(math.Sqrt(sum / float64(len(x))))
}

// logs returns ln(v) for each positive v and 0 otherwise.
func logs(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v > 0 {
			out[i] = math.Log(v)
		}
	}
	return out
}
