// Copyright (c) 2026 Randlab Team
// Randlab - randomness extraction and validation lab
// This source code is licensed under the MIT license found in the LICENSE file.

// Descriptive statistics shared by the trial and avalanche summaries.

package stats

import "math"

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleStdDev returns the n-1 divisor standard deviation, 0 for fewer
// than two samples.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// PopulationStdDev returns the n divisor standard deviation, 0 for an
// empty slice. Used where the trial set is the full population, not a
// sample of one.
func PopulationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// ConfidenceInterval95 returns the 95% confidence half-width
// 1.96 * s / sqrt(n) with the sample standard deviation; 0 for a single
// observation.
func ConfidenceInterval95(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return 1.96 * SampleStdDev(xs) / math.Sqrt(float64(len(xs)))
}
