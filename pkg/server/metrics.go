package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deck_connections_total",
			Help: "Total number of editing connections by transport.",
		},
		[]string{"transport"},
	)

	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deck_connections_active",
		Help: "Number of open editing connections.",
	})

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deck_requests_total",
			Help: "Total number of requests by method and status.",
		},
		[]string{"method", "status"},
	)

	editsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deck_edits_total",
			Help: "Total number of dispatched edits, by whether they changed the document.",
		},
		[]string{"changed"},
	)

	historyStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deck_history_steps_total",
			Help: "Total number of successful undo and redo steps.",
		},
		[]string{"direction"},
	)
)
