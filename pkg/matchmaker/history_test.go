// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"testing"

	"github.com/onsi/gomega"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/games"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/testsetup"
)

// trustedRecord is a long, clean history: experience and completion maxed out
// so tests can steer scores through fair play alone.
func trustedRecord(userID string, fairPlay float64) models.BehaviorRecord {
	return models.BehaviorRecord{
		UserID:      userID,
		GamesPlayed: 100,
		FairPlay:    fairPlay,
	}
}

func idsOf(users []models.User) []string {
	ids := make([]string, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}

func TestHistoryStrategy_trustGate(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	trusted := testsetup.NewUser(games.Valorant, 1500, 50, "duelist")
	lowFairPlay := testsetup.NewUser(games.Valorant, 1500, 50, "sentinel")
	frequentAbandoner := testsetup.NewUser(games.Valorant, 1500, 50, "controller")
	noRecord := testsetup.NewUser(games.Valorant, 1500, 50, "initiator")

	records := testsetup.StubBehaviorSource{Records: map[string]models.BehaviorRecord{
		trusted.ID:     trustedRecord(trusted.ID, 0.9),
		lowFairPlay.ID: trustedRecord(lowFairPlay.ID, 0.4),
		frequentAbandoner.ID: {
			UserID:         frequentAbandoner.ID,
			GamesPlayed:    100,
			GamesAbandoned: 31,
			FairPlay:       0.9,
		},
	}}
	strategy := NewHistoryStrategy(testsetup.NewConfig(), records)
	target := newTarget(games.Valorant, 2, 0, 3000, models.LatencyUnlimited)

	selected, err := strategy.Select(g.TestScope, []models.User{trusted, lowFairPlay, frequentAbandoner, noRecord}, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	// untrusted candidates stay out even though three slots stay open
	g.Expect(idsOf(selected)).To(gomega.Equal([]string{trusted.ID}))
}

func TestHistoryStrategy_gateBoundariesAreInclusive(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	atFloor := testsetup.NewUser(games.Valorant, 1500, 50, "duelist")
	atLimit := testsetup.NewUser(games.Valorant, 1500, 50, "sentinel")

	records := testsetup.StubBehaviorSource{Records: map[string]models.BehaviorRecord{
		atFloor.ID: trustedRecord(atFloor.ID, 0.5),
		atLimit.ID: {
			UserID:         atLimit.ID,
			GamesPlayed:    100,
			GamesAbandoned: 30,
			FairPlay:       0.9,
		},
	}}
	strategy := NewHistoryStrategy(testsetup.NewConfig(), records)
	target := newTarget(games.Valorant, 2, 0, 3000, models.LatencyUnlimited)

	selected, err := strategy.Select(g.TestScope, []models.User{atFloor, atLimit}, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(selected).To(gomega.HaveLen(2))
}

func TestHistoryStrategy_roleCapThenBackfill(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	duelists := []models.User{
		testsetup.NewUser(games.Valorant, 1500, 50, "duelist"),
		testsetup.NewUser(games.Valorant, 1500, 50, "duelist"),
		testsetup.NewUser(games.Valorant, 1500, 50, "duelist"),
	}
	sentinels := []models.User{
		testsetup.NewUser(games.Valorant, 1500, 50, "sentinel"),
		testsetup.NewUser(games.Valorant, 1500, 50, "sentinel"),
	}

	records := map[string]models.BehaviorRecord{}
	for _, user := range duelists {
		records[user.ID] = trustedRecord(user.ID, 1.0)
	}
	for _, user := range sentinels {
		records[user.ID] = trustedRecord(user.ID, 0.8)
	}

	strategy := NewHistoryStrategy(testsetup.NewConfig(), testsetup.StubBehaviorSource{Records: records})
	target := newTarget(games.Valorant, 2, 0, 3000, models.LatencyUnlimited)

	candidates := append(append([]models.User{}, duelists...), sentinels...)
	selected, err := strategy.Select(g.TestScope, candidates, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	// role cap is 2: the third duelist loses its slot to the lower scoring
	// sentinels
	g.Expect(idsOf(selected)).To(gomega.Equal([]string{
		duelists[0].ID, duelists[1].ID, sentinels[0].ID, sentinels[1].ID,
	}))

	// without enough other roles the cap is waived to fill the roster
	candidates = append(append([]models.User{}, duelists...), sentinels[0])
	selected, err = strategy.Select(g.TestScope, candidates, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(idsOf(selected)).To(gomega.Equal([]string{
		duelists[0].ID, duelists[1].ID, sentinels[0].ID, duelists[2].ID,
	}))
}

func TestHistoryStrategy_deterministicAndNonMutating(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	candidates := []models.User{
		testsetup.NewUser(games.Valorant, 1500, 50, "duelist"),
		testsetup.NewUser(games.Valorant, 1500, 50, "sentinel"),
		testsetup.NewUser(games.Valorant, 1500, 50, "controller"),
	}
	records := map[string]models.BehaviorRecord{}
	for i, user := range candidates {
		records[user.ID] = trustedRecord(user.ID, 0.6+float64(i)*0.1)
	}
	strategy := NewHistoryStrategy(testsetup.NewConfig(), testsetup.StubBehaviorSource{Records: records})
	target := newTarget(games.Valorant, 1, 0, 3000, models.LatencyUnlimited)
	before := idsOf(candidates)

	first, err := strategy.Select(g.TestScope, candidates, target)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	second, err := strategy.Select(g.TestScope, candidates, target)
	g.Expect(err).ToNot(gomega.HaveOccurred())

	g.Expect(second).To(gomega.Equal(first))
	g.Expect(idsOf(candidates)).To(gomega.Equal(before))
}

func TestHistoryStrategy_prefersHigherFairPlay(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	lower := testsetup.NewUser(games.Valorant, 1500, 50, "duelist")
	higher := testsetup.NewUser(games.Valorant, 1500, 50, "sentinel")

	records := testsetup.StubBehaviorSource{Records: map[string]models.BehaviorRecord{
		lower.ID:  trustedRecord(lower.ID, 0.7),
		higher.ID: trustedRecord(higher.ID, 0.95),
	}}
	strategy := NewHistoryStrategy(testsetup.NewConfig(), records)
	target := newTarget(games.Valorant, 1, 0, 3000, models.LatencyUnlimited)

	selected, err := strategy.Select(g.TestScope, []models.User{lower, higher}, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(idsOf(selected)).To(gomega.Equal([]string{higher.ID, lower.ID}))
}

func TestHistoryStrategy_missingBehaviorSource(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	strategy := NewHistoryStrategy(testsetup.NewConfig(), nil)
	target := newTarget(games.Valorant, 1, 0, 3000, models.LatencyUnlimited)

	_, err := strategy.Select(g.TestScope, nil, target)

	g.Expect(err).To(gomega.MatchError(models.ErrNotFound))
}
