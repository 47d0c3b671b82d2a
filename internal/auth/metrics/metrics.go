package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the auth module: registration volume,
// login outcomes, and the registry round trip on the registration path.
type Metrics struct {
	RegistrationsTotal     prometheus.Counter
	LoginsTotal            *prometheus.CounterVec
	LockoutsTotal          prometheus.Counter
	RegistryLookupDuration prometheus.Histogram
}

// New creates a Metrics instance with all auth module metrics registered.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxadmin_registrations_total",
			Help: "Total number of citizen accounts created",
		}),
		LoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxadmin_logins_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"role", "outcome"}),
		LockoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaxadmin_login_lockouts_total",
			Help: "Total number of logins rejected by the attempt limiter",
		}),
		RegistryLookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxadmin_registry_lookup_duration_seconds",
			Help:    "Duration of citizen registry lookups during registration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementRegistration records a successful registration.
func (m *Metrics) IncrementRegistration() {
	m.RegistrationsTotal.Inc()
}

// IncrementLogin records a login attempt outcome for a role.
func (m *Metrics) IncrementLogin(role, outcome string) {
	m.LoginsTotal.WithLabelValues(role, outcome).Inc()
}

// IncrementLockout records a login rejected before credential verification.
func (m *Metrics) IncrementLockout() {
	m.LockoutsTotal.Inc()
}

// ObserveRegistryLookup records the duration of a registry lookup. Call with
// time.Now() at the start of the lookup.
func (m *Metrics) ObserveRegistryLookup(start time.Time) {
	m.RegistryLookupDuration.Observe(time.Since(start).Seconds())
}
