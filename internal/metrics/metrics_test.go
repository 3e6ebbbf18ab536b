package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("bbyacht", prometheus.NewRegistry())

	m.ReservationEvent("created")
	m.ReservationEvent("created")
	m.ConflictRejected("create")
	m.PaymentEvent("succeeded", "applied")
	m.AgencyTransition("converted")
	m.ObserveHTTP("/reservations", "POST", "201", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentEvents.WithLabelValues("succeeded", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agencyRequests.WithLabelValues("converted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/reservations", "POST", "201")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ReservationEvent("created")
		m.ConflictRejected("create")
		m.PaymentEvent("failed", "ignored")
		m.AgencyTransition("approved")
		m.ObserveHTTP("/", "GET", "200", time.Millisecond)
	})
}
