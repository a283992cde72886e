// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/mathutil"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// Score weights of the history strategy. The total score is on a 100-point
// scale: fair play up to 40, completion rate up to 30, experience up to 20,
// role diversity up to 10.
const (
	fairPlayWeight       = 40.0
	completionWeight     = 30.0
	experienceCap        = 20.0
	experiencePerGame    = 1.0 / 5.0
	diversityBonusFirst  = 10.0
	diversityBonusSecond = 7.0
	diversityBonusLater  = 3.0
)

// HistoryStrategy selects candidates by behavioral trust. Candidates below
// the fair play floor or above the abandon rate ceiling are never selected,
// whatever their score; candidates without a behavior record are treated the
// same way. The remaining candidates are picked greedily by score, with a cap
// on how often one primary role may be picked, then backfilled past the cap
// if slots stay open.
type HistoryStrategy struct {
	cfg     *config.Config
	records BehaviorSource
}

// NewHistoryStrategy returns the history-based strategy.
func NewHistoryStrategy(cfg *config.Config, records BehaviorSource) *HistoryStrategy {
	return &HistoryStrategy{cfg: cfg, records: records}
}

func (st *HistoryStrategy) Name() string {
	return StrategyHistory
}

type scoredCandidate struct {
	user      models.User
	role      models.Role
	baseScore float64
	picked    bool
}

func (st *HistoryStrategy) Select(rootScope *envelope.Scope, candidates []models.User, target models.ScrimSettings) ([]models.User, error) {
	scope := rootScope.NewChildScope("HistoryStrategy.Select")
	defer scope.Finish()

	if st.records == nil {
		return nil, fmt.Errorf("%w: behavior source", models.ErrNotFound)
	}

	eligible := st.eligibleCandidates(scope, candidates, target.Game)
	slots := target.Slots()
	roleCap := mathutil.Max(2, slots/st.cfg.RoleCapDivisor)

	selected := make([]models.User, 0, slots)
	scores := make([]float64, 0, slots)
	roleCounts := map[models.Role]int{}

	// Main pass honors the role cap; the backfill pass ignores it. The
	// diversity bonus depends on roles picked so far, so the best candidate
	// is re-evaluated every round.
	for _, capped := range []bool{true, false} {
		for len(selected) < slots {
			index := st.pickBest(eligible, roleCounts, roleCap, capped)
			if index < 0 {
				break
			}
			eligible[index].picked = true
			selected = append(selected, eligible[index].user)
			scores = append(scores, eligible[index].baseScore+diversityBonus(roleCounts[eligible[index].role]))
			roleCounts[eligible[index].role]++
		}
	}

	if len(scores) > 0 {
		mean, stddev := stat.MeanStdDev(scores, nil)
		scope.Log.Infof("MATCHMAKER: history strategy selected %d of %d candidates (score mean=%.1f stddev=%.1f)", len(selected), len(candidates), mean, stddev)
	} else {
		scope.Log.Infof("MATCHMAKER: history strategy selected 0 of %d candidates", len(candidates))
	}
	scope.SetAttributes(envelope.SelectedPlayersTag, len(selected))
	return selected, nil
}

// eligibleCandidates applies the trust gate and precomputes the score parts
// that do not depend on picks made during selection.
func (st *HistoryStrategy) eligibleCandidates(scope *envelope.Scope, candidates []models.User, game string) []scoredCandidate {
	eligible := make([]scoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		record, ok := st.records.RecordFor(candidate.ID)
		if !ok {
			scope.Log.WithField("userID", candidate.ID).Debug("MATCHMAKER: no behavior record, candidate skipped")
			continue
		}
		if record.FairPlay < st.cfg.HistoryFairPlayFloor || record.AbandonRate() > st.cfg.HistoryAbandonRateLimit {
			continue
		}

		profile, _ := candidate.ProfileFor(game)
		eligible = append(eligible, scoredCandidate{
			user:      candidate,
			role:      profile.PrimaryRole,
			baseScore: baseScore(record),
		})
	}
	return eligible
}

// pickBest returns the index of the highest scoring unpicked candidate, or -1
// when none qualifies. Ties keep candidate order.
func (st *HistoryStrategy) pickBest(eligible []scoredCandidate, roleCounts map[models.Role]int, roleCap int, capped bool) int {
	best := -1
	bestScore := 0.0
	for i := range eligible {
		if eligible[i].picked {
			continue
		}
		if capped && roleCounts[eligible[i].role] >= roleCap {
			continue
		}
		score := eligible[i].baseScore + diversityBonus(roleCounts[eligible[i].role])
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

func baseScore(record models.BehaviorRecord) float64 {
	experience := mathutil.Min(experienceCap, float64(record.GamesPlayed)*experiencePerGame)
	return record.FairPlay*fairPlayWeight + (1-record.AbandonRate())*completionWeight + experience
}

// diversityBonus rewards primary roles not yet represented in this selection
// pass.
func diversityBonus(alreadyPicked int) float64 {
	switch alreadyPicked {
	case 0:
		return diversityBonusFirst
	case 1:
		return diversityBonusSecond
	default:
		return diversityBonusLater
	}
}
