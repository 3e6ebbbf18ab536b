// Package metrics exposes prometheus collectors for HTTP traffic, booking events and
// the postgres pool. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	reservations     *prometheus.CounterVec
	conflicts        *prometheus.CounterVec
	paymentEvents    *prometheus.CounterVec
	agencyRequests   *prometheus.CounterVec
	poolAcquired     prometheus.Gauge
	poolIdle         prometheus.Gauge
	poolTotal        prometheus.Gauge
	poolAcquireCount prometheus.Gauge
}

// New registers the collectors on reg under namespace.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_transitions_total",
			Help:      "Reservation lifecycle transitions.",
		}, []string{"event"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Bookings refused because the slot was taken.",
		}, []string{"operation"}),
		paymentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_events_total",
			Help:      "Payment processor events by outcome and processing result.",
		}, []string{"outcome", "result"}),
		agencyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agency_request_transitions_total",
			Help:      "Agency request status transitions.",
		}, []string{"status"}),
		poolAcquired: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_acquired_conns",
			Help:      "Connections currently acquired from the pool.",
		}),
		poolIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_idle_conns",
			Help:      "Idle connections in the pool.",
		}),
		poolTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_total_conns",
			Help:      "Total connections in the pool.",
		}),
		poolAcquireCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_pool_acquire_count",
			Help:      "Cumulative successful acquires.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.reservations,
		m.conflicts,
		m.paymentEvents,
		m.agencyRequests,
		m.poolAcquired,
		m.poolIdle,
		m.poolTotal,
		m.poolAcquireCount,
	)

	return m
}

func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) ReservationEvent(event string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(event).Inc()
}

func (m *Metrics) ConflictRejected(operation string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(operation).Inc()
}

func (m *Metrics) PaymentEvent(outcome, result string) {
	if m == nil {
		return
	}
	m.paymentEvents.WithLabelValues(outcome, result).Inc()
}

func (m *Metrics) AgencyTransition(status string) {
	if m == nil {
		return
	}
	m.agencyRequests.WithLabelValues(status).Inc()
}

// CollectPoolStats samples pool statistics every interval until ctx is done.
func (m *Metrics) CollectPoolStats(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	if m == nil || pool == nil {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		st := pool.Stat()
		m.poolAcquired.Set(float64(st.AcquiredConns()))
		m.poolIdle.Set(float64(st.IdleConns()))
		m.poolTotal.Set(float64(st.TotalConns()))
		m.poolAcquireCount.Set(float64(st.AcquireCount()))

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
