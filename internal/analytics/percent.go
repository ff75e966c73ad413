// Package analytics holds the pure building blocks of the marks analytics
// engine: percentage math, filter resolution, histogram bins and the
// empty/computed aggregation result.
package analytics

import "math"

// PassThreshold is the minimum percentage counted as a pass.
const PassThreshold = 40.0

// Percent returns achieved/possible*100. A zero, NaN or infinite denominator
// yields 0 so callers never see NaN or Inf.
func Percent(achieved, possible float64) float64 {
	if possible == 0 || math.IsNaN(possible) || math.IsInf(possible, 0) || math.IsNaN(achieved) {
		return 0
	}
	p := achieved / possible * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// AttendancePercent returns the attendance percentage for a record. Records
// without any tracked days score 0.
func AttendancePercent(presentDays, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	return Percent(float64(presentDays), float64(totalDays))
}

// Round2 rounds half away from zero at the second decimal.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Passed reports whether a percentage meets the pass threshold.
func Passed(percent float64) bool {
	return percent >= PassThreshold
}
