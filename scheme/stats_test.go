package scheme_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestStatsReportWithNoSamplesSaysSo(t *testing.T) {
	s := scheme.NewStats()
	assert.Equal(t, "no samples recorded", s.Report())
}

func TestStatsReportIncludesEachMetricSortedByName(t *testing.T) {
	s := scheme.NewStats()
	s.Record("sign_rejections", 1)
	s.Record("sign_rejections", 3)
	s.Record("keygen_ntt_retries", 2)

	report := s.Report()
	keygenIdx := strings.Index(report, "keygen_ntt_retries")
	signIdx := strings.Index(report, "sign_rejections")
	assert.GreaterOrEqual(t, keygenIdx, 0)
	assert.GreaterOrEqual(t, signIdx, 0)
	assert.Less(t, keygenIdx, signIdx)
	assert.Contains(t, report, "n=2")
	assert.Contains(t, report, "mean=2.000")
}

func TestStatsRecordAccumulatesAcrossCalls(t *testing.T) {
	s := scheme.NewStats()
	for i := 0; i < 5; i++ {
		s.Record("metric", float64(i))
	}
	report := s.Report()
	assert.Contains(t, report, "n=5")
	assert.Contains(t, report, "min=0.000")
	assert.Contains(t, report, "max=4.000")
}
