package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/amortization-engine/amortization"
)

func TestMetrics_ObserveGenerate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveGenerate(amortization.InterestSimple, 12, nil, time.Now())
	m.ObserveGenerate(amortization.InterestSimple, 0, errors.New("boom"), time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchedulesTotal.WithLabelValues("simple", resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SchedulesTotal.WithLabelValues("simple", resultError)))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.RowsTotal))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveGenerate(amortization.InterestClosedForm, 1, nil, time.Now())
	m.ObserveCache(true)
	m.ObserveExport("csv")
}

func TestMetrics_Cache(t *testing.T) {
	m := New(nil)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues("miss")))
}
