// Package metrics exposes Prometheus collectors for tracker activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UnitsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentum_units_logged_total",
		Help: "Total focus units logged",
	})

	UnitsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentum_units_removed_total",
		Help: "Total focus units removed",
	})

	StreaksAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentum_streaks_advanced_total",
		Help: "Total routine completions that advanced a streak",
	})

	StreakLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "momentum_streak_length",
		Help:    "Streak length after each advance",
		Buckets: []float64{1, 2, 3, 5, 7, 14, 30, 60, 100, 365},
	})

	SaveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "momentum_save_failures_total",
		Help: "Failed writes of the user data document, by operation",
	}, []string{"op"})

	FocusSessionsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "momentum_focus_sessions_finished_total",
		Help: "Focus sessions that ran to completion",
	})
)
