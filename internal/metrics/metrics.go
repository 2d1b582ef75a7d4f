// Package metrics provides Prometheus counters for the registration and login flows
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels shared by all counters
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Metrics contains the user service Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RegistrationsTotal *prometheus.CounterVec
	LoginsTotal        *prometheus.CounterVec
}

// NewMetrics creates and registers the user service metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_registrations_total",
				Help: "Total number of registration attempts by result",
			},
			[]string{"result"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.RegistrationsTotal)
	reg.MustRegister(m.LoginsTotal)

	return m
}

// RecordRegistration increments the registration counter for the given result
func (m *Metrics) RecordRegistration(result string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}

// RecordLogin increments the login counter for the given result
func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}
