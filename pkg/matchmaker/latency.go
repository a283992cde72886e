// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"sort"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/mathutil"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// pool reusable object to reduce garbage collection during threshold
// expansion passes
var pool = models.NewPool()

// LatencyStrategy keeps candidates at or below the scrim's latency gate,
// lowest latency first. When the gate leaves slots unfilled, the threshold
// expands step by step up to a hard ceiling, keeping the largest qualifying
// set found.
type LatencyStrategy struct {
	cfg *config.Config
}

// NewLatencyStrategy returns the latency-based strategy.
func NewLatencyStrategy(cfg *config.Config) *LatencyStrategy {
	return &LatencyStrategy{cfg: cfg}
}

func (st *LatencyStrategy) Name() string {
	return StrategyLatency
}

func (st *LatencyStrategy) Select(rootScope *envelope.Scope, candidates []models.User, target models.ScrimSettings) ([]models.User, error) {
	scope := rootScope.NewChildScope("LatencyStrategy.Select")
	defer scope.Finish()

	slots := target.Slots()
	threshold := st.bestThreshold(candidates, target, slots)

	selected := make([]models.User, 0, slots)
	for _, candidate := range candidates {
		if st.qualifies(candidate, target, threshold) {
			selected = append(selected, candidate)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return latencyOf(selected[i], target.Game) < latencyOf(selected[j], target.Game)
	})
	selected = selected[:mathutil.Min(len(selected), slots)]

	scope.SetAttributes(envelope.SelectedPlayersTag, len(selected))
	scope.Log.Infof("MATCHMAKER: latency strategy selected %d of %d candidates at threshold %dms", len(selected), len(candidates), threshold)
	return selected, nil
}

// bestThreshold expands the scrim's latency gate in configured steps until
// the qualifying set fills the slots or the ceiling is hit, and returns the
// smallest threshold that produced the largest set.
func (st *LatencyStrategy) bestThreshold(candidates []models.User, target models.ScrimSettings, slots int) int {
	if target.LatencyMaxMs == models.LatencyUnlimited {
		return models.LatencyUnlimited
	}

	scratch := pool.Users.Get()
	defer pool.Users.Put(scratch[:0])

	bestThreshold := target.LatencyMaxMs
	bestCount := -1
	for threshold := target.LatencyMaxMs; ; threshold += st.cfg.LatencyExpansionStepMs {
		scratch = scratch[:0]
		for _, candidate := range candidates {
			if st.qualifies(candidate, target, threshold) {
				scratch = append(scratch, candidate)
			}
		}
		if len(scratch) > bestCount {
			bestCount = len(scratch)
			bestThreshold = threshold
		}
		if bestCount >= slots || threshold >= st.cfg.LatencyExpansionMaxMs {
			break
		}
	}
	return bestThreshold
}

func (st *LatencyStrategy) qualifies(candidate models.User, target models.ScrimSettings, threshold int) bool {
	profile, ok := candidate.ProfileFor(target.Game)
	if !ok {
		return false
	}
	return threshold == models.LatencyUnlimited || profile.LatencyMs <= threshold
}

func latencyOf(candidate models.User, game string) int {
	profile, _ := candidate.ProfileFor(game)
	return profile.LatencyMs
}
