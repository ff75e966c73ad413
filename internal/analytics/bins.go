package analytics

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultBins is the histogram layout used when the caller supplies none.
const DefaultBins = "0-40,40-60,60-75,75-90,90-100"

// Bin is a histogram bucket. Every bin is half-open except the last, which
// also includes its upper bound so 100 is counted.
type Bin struct {
	Low  float64
	High float64
}

// Label renders the bin as "low-high".
func (b Bin) Label() string {
	return strconv.FormatFloat(b.Low, 'f', -1, 64) + "-" + strconv.FormatFloat(b.High, 'f', -1, 64)
}

// ParseBins parses "lo-hi,lo-hi,..." into ordered bins.
func ParseBins(raw string) ([]Bin, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBins
	}
	parts := strings.Split(raw, ",")
	bins := make([]Bin, 0, len(parts))
	for _, part := range parts {
		bounds := strings.Split(part, "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid bin %q", part)
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bin %q: %w", part, err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bin %q: %w", part, err)
		}
		bins = append(bins, Bin{Low: low, High: high})
	}
	return bins, nil
}

// Histogram counts percentages per bin. Each value is tested against every
// bin, so overlapping bins count a value more than once and values outside
// all bins are dropped.
func Histogram(bins []Bin, percents []float64) []int {
	counts := make([]int, len(bins))
	last := len(bins) - 1
	for _, p := range percents {
		for i, b := range bins {
			var in bool
			if i == last {
				in = p >= b.Low && p <= b.High
			} else {
				in = p >= b.Low && p < b.High
			}
			if in {
				counts[i]++
			}
		}
	}
	return counts
}
