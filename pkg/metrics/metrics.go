// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ScrimMetrics interface {
	LifecycleTransition(game string, fromState string, toState string)
	ApplicationRejected(game string, reason string)
	AddSelectionElapsedTimeMs(game, strategy string, elapsedTime time.Duration)
	SelectedPlayers(game string, strategy string, numPlayers int)
	OrganizerHistoryDepth(game string, depth int)
}

func NewMetrics(registry *prometheus.Registry) ScrimMetrics {
	return setupPrometheusMetrics(registry)
}
