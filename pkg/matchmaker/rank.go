// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"sort"

	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/mathutil"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// RankStrategy keeps candidates whose rank lies inside the scrim's rank
// window and prefers those closest to the window midpoint. Ties keep the
// candidate order.
type RankStrategy struct{}

// NewRankStrategy returns the rank-based strategy.
func NewRankStrategy() *RankStrategy {
	return &RankStrategy{}
}

func (st *RankStrategy) Name() string {
	return StrategyRank
}

func (st *RankStrategy) Select(rootScope *envelope.Scope, candidates []models.User, target models.ScrimSettings) ([]models.User, error) {
	scope := rootScope.NewChildScope("RankStrategy.Select")
	defer scope.Finish()

	qualified := slices.Filter(candidates, func(candidate models.User) bool {
		profile, ok := candidate.ProfileFor(target.Game)
		return ok && profile.Rank >= target.RankMin && profile.Rank <= target.RankMax
	})

	midpoint := float64(target.RankMin+target.RankMax) / 2
	sort.SliceStable(qualified, func(i, j int) bool {
		return distanceToMidpoint(qualified[i], target.Game, midpoint) < distanceToMidpoint(qualified[j], target.Game, midpoint)
	})

	selected := qualified[:mathutil.Min(len(qualified), target.Slots())]
	scope.SetAttributes(envelope.SelectedPlayersTag, len(selected))
	scope.Log.Infof("MATCHMAKER: rank strategy selected %d of %d candidates", len(selected), len(candidates))
	return selected, nil
}

func distanceToMidpoint(candidate models.User, game string, midpoint float64) float64 {
	profile, _ := candidate.ProfileFor(game)
	return mathutil.AbsDiff(float64(profile.Rank), midpoint)
}
