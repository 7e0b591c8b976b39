package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("hospital", "api", reg)

	m.DatabaseOperations.WithLabelValues("patients.create", "ok").Inc()
	m.EventsPublished.WithLabelValues("procedure.created").Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("patients.create", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.EventsPublished.WithLabelValues("procedure.created")))

	// a second set on a fresh registry must not panic on duplicate registration
	assert.NotPanics(t, func() { NewMetrics("hospital", "api", prometheus.NewRegistry()) })
}
