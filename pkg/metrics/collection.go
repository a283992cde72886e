// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	lifecycleTransitions  prometheus.CounterVec
	applicationRejections prometheus.CounterVec
	selectionElapsedTime  prometheus.HistogramVec
	selectedPlayers       prometheus.GaugeVec
	organizerHistoryDepth prometheus.GaugeVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	lifecycleTransitions := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_scrim_lifecycle_transitions",
			Help: "A counter of scrim state machine transitions per game",
		}, []string{"game", "from_state", "to_state"})

	applicationRejections := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_scrim_application_rejections",
			Help: "A counter of rejected scrim applications per reason",
		}, []string{"game", "reason"})

	//nolint:promlinter
	selectionElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ab_scrim_selection_elapsed_time_ms",
			Help:    "A histogram of matchmaking strategy selection elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"game", "strategy"})

	selectedPlayers := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_scrim_selected_players",
			Help: "A gauge of players selected by the last strategy pass",
		}, []string{"game", "strategy", "numPlayers"})

	organizerHistoryDepth := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_scrim_organizer_history_depth",
			Help: "A gauge of the organizer session undo history depth",
		}, []string{"game"})

	return prometheusMetrics{
		lifecycleTransitions:  *lifecycleTransitions,
		applicationRejections: *applicationRejections,
		selectionElapsedTime:  *selectionElapsedTime,
		selectedPlayers:       *selectedPlayers,
		organizerHistoryDepth: *organizerHistoryDepth,
	}
}

func (metrics prometheusMetrics) LifecycleTransition(game string, fromState string, toState string) {
	metrics.lifecycleTransitions.With(prometheus.Labels{"game": game, "from_state": fromState, "to_state": toState}).Add(float64(1))
}

func (metrics prometheusMetrics) ApplicationRejected(game string, reason string) {
	metrics.applicationRejections.With(prometheus.Labels{"game": game, "reason": reason}).Add(float64(1))
}

func (metrics prometheusMetrics) AddSelectionElapsedTimeMs(game, strategy string, elapsedTime time.Duration) {
	metrics.selectionElapsedTime.With(prometheus.Labels{"game": game, "strategy": strategy}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) SelectedPlayers(game string, strategy string, numPlayers int) {
	metrics.selectedPlayers.With(prometheus.Labels{"game": game, "strategy": strategy, "numPlayers": strconv.Itoa(numPlayers)}).Set(float64(numPlayers))
}

func (metrics prometheusMetrics) OrganizerHistoryDepth(game string, depth int) {
	metrics.organizerHistoryDepth.With(prometheus.Labels{"game": game}).Set(float64(depth))
}
