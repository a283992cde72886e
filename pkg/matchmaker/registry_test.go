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

func TestRegistry_defaultStrategies(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	registry := NewDefaultRegistry(testsetup.NewConfig(), testsetup.StubBehaviorSource{}, testsetup.NewMetrics())

	g.Expect(registry.Names()).To(gomega.ConsistOf(StrategyRank, StrategyLatency, StrategyHistory))

	for _, name := range []string{StrategyRank, StrategyLatency, StrategyHistory} {
		strategy, err := registry.ByName(name)
		g.Expect(err).ToNot(gomega.HaveOccurred())
		g.Expect(strategy.Name()).To(gomega.Equal(name))
	}

	_, err := registry.ByName("random")
	g.Expect(err).To(gomega.MatchError(models.ErrNotFound))
}

func TestRegistry_instrumentedStrategyDelegates(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	registry := NewDefaultRegistry(testsetup.NewConfig(), testsetup.StubBehaviorSource{}, testsetup.NewMetrics())
	strategy, err := registry.ByName(StrategyRank)
	g.Expect(err).ToNot(gomega.HaveOccurred())

	candidates := testsetup.NewUsersWithRanks(games.Valorant, 1700, 1400)
	target := newTarget(games.Valorant, 1, 1500, 2000, models.LatencyUnlimited)

	selected, err := strategy.Select(g.TestScope, candidates, target)

	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(selected).To(gomega.HaveLen(1))
}
