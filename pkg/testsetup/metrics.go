// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) LifecycleTransition(game string, fromState string, toState string) {
}

func (s stubMetricsCollection) ApplicationRejected(game string, reason string) {
}

func (s stubMetricsCollection) AddSelectionElapsedTimeMs(game, strategy string, elapsedTime time.Duration) {
}

func (s stubMetricsCollection) SelectedPlayers(game string, strategy string, numPlayers int) {
}

func (s stubMetricsCollection) OrganizerHistoryDepth(game string, depth int) {
}

func NewMetrics() metrics.ScrimMetrics {
	return stubMetricsCollection{}
}
