// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActionsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruppenspiel_actions_dispatched_total",
			Help: "Actions dispatched into the store, by type and whether they changed state",
		},
		[]string{"type", "accepted"},
	)
	TurnsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruppenspiel_turns_resolved_total",
			Help: "Dice turns resolved, by landed tile type",
		},
		[]string{"tile"},
	)
	SaveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruppenspiel_save_failures_total",
			Help: "Failed persistence operations, by operation",
		},
		[]string{"op"},
	)
	Migrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruppenspiel_migrations_total",
			Help: "Saved states passed through migration, by result",
		},
		[]string{"result"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gruppenspiel_http_requests_total",
			Help: "HTTP requests served, by route pattern and status class",
		},
		[]string{"route", "status"},
	)
)

func init() {
	prometheus.MustRegister(ActionsDispatched)
	prometheus.MustRegister(TurnsResolved)
	prometheus.MustRegister(SaveFailures)
	prometheus.MustRegister(Migrations)
	prometheus.MustRegister(HTTPRequests)
}
