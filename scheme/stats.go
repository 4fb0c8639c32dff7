package scheme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// Stats accumulates per-operation timing/rejection samples for an Instance
// and renders the processing_stats() report the C surface prints as a
// human-readable block. Concrete schemes call Record during sign/keygen
// loops; the rendering itself is shared here rather than duplicated per
// scheme package.
type Stats struct {
	samples map[string][]float64
}

// NewStats returns an empty Stats collector.
func NewStats() *Stats {
	return &Stats{samples: make(map[string][]float64)}
}

// Record appends one observation under name (e.g. "keygen_ntt_retries",
// "sign_rejections", "sign_duration_us").
func (s *Stats) Record(name string, value float64) {
	s.samples[name] = append(s.samples[name], value)
}

// Report renders a percentile summary (min/median/p90/max/mean) per metric,
// sorted by name for deterministic output.
func (s *Stats) Report() string {
	var b strings.Builder
	names := make([]string, 0, len(s.samples))
	for n := range s.samples {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		data := s.samples[name]
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		p90, _ := stats.Percentile(data, 90)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		fmt.Fprintf(&b, "%s: n=%d mean=%.3f median=%.3f p90=%.3f min=%.3f max=%.3f\n",
			name, len(data), mean, median, p90, min, max)
	}
	if b.Len() == 0 {
		return "no samples recorded"
	}
	return b.String()
}
