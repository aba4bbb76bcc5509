// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on an explicit [prometheus.Registerer] so tests can
// build isolated instances. Every recording method is safe on a nil *Metrics,
// which lets services run without instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the account counters.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid_credentials"
	ResultLocked   = "locked"
	ResultPending  = "pending"
	ResultBlocked  = "suspended"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics bundles the application collectors.
type Metrics struct {
	registry prometheus.Gatherer

	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	AuthLoginsTotal            *prometheus.CounterVec
	AuthRegistrationsTotal     *prometheus.CounterVec
	AccountTransitionsTotal    *prometheus.CounterVec
	FabricYardsUsedTotal       prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(serviceName, registry, registry)
}

// NewWithRegistry registers the collectors on registerer and serves them from gatherer.
func NewWithRegistry(serviceName string, registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: gatherer,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests.",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "Duration of HTTP requests.",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"method", "route"},
		),
		AuthLoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "auth_logins_total",
				Help:        "Total number of login attempts by outcome.",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		AuthRegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "auth_registrations_total",
				Help:        "Total number of registrations by initial status.",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
		AccountTransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "account_transitions_total",
				Help:        "Administrative account state changes.",
				ConstLabels: constLabels,
			},
			[]string{"action"},
		),
		FabricYardsUsedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "fabric_yards_used_total",
				Help:        "Yards of fabric recorded as used.",
				ConstLabels: constLabels,
			},
		),
	}

	registerer.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDurationSeconds,
		m.AuthLoginsTotal,
		m.AuthRegistrationsTotal,
		m.AccountTransitionsTotal,
		m.FabricYardsUsedTotal,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLogin counts one login attempt.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.AuthLoginsTotal.WithLabelValues(result).Inc()
}

// ObserveRegistration counts one successful signup by the status it received.
func (m *Metrics) ObserveRegistration(status string) {
	if m == nil {
		return
	}
	m.AuthRegistrationsTotal.WithLabelValues(status).Inc()
}

// ObserveTransition counts one administrative account action.
func (m *Metrics) ObserveTransition(action string) {
	if m == nil {
		return
	}
	m.AccountTransitionsTotal.WithLabelValues(action).Inc()
}

// ObserveYardsUsed adds the yardage actually deducted by a usage record.
func (m *Metrics) ObserveYardsUsed(yards float64) {
	if m == nil || yards <= 0 {
		return
	}
	m.FabricYardsUsedTotal.Add(yards)
}

// ObserveHTTP records a finished request.
func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(seconds)
}
