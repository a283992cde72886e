// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker provides the candidate selection strategies for scrims.
// A strategy is a one-shot ranking over a supplied candidate list: it never
// mutates its inputs, returns at most the scrim's slot count, and is
// deterministic given identical inputs.
package matchmaker

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/metrics"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// Strategy names, used as registry keys and metric labels.
const (
	StrategyRank    = "rank"
	StrategyLatency = "latency"
	StrategyHistory = "history"
)

// Strategy ranks and selects candidate players for a scrim's open slots.
type Strategy interface {
	// Name returns the registry key of this strategy.
	Name() string

	// Select returns at most target.Slots() users drawn from candidates.
	// Fewer are returned when not enough candidates qualify; a selection is
	// never padded with unqualified users. Neither candidates nor target is
	// mutated.
	Select(scope *envelope.Scope, candidates []models.User, target models.ScrimSettings) ([]models.User, error)
}

// BehaviorSource supplies per-user behavior records to the history strategy.
// Records are owned and mutated exclusively by the game completion reporting
// pipeline; the strategy only reads them.
type BehaviorSource interface {
	RecordFor(userID string) (models.BehaviorRecord, bool)
}

// Registry looks strategies up by name. It is immutable after construction
// and safe to share process-wide.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a registry from an explicit strategy list.
func NewRegistry(strategies ...Strategy) *Registry {
	byName := make(map[string]Strategy, len(strategies))
	for _, strategy := range strategies {
		byName[strategy.Name()] = strategy
	}
	return &Registry{strategies: byName}
}

// NewDefaultRegistry builds the standard three-strategy registry. Metrics may
// be nil.
func NewDefaultRegistry(cfg *config.Config, records BehaviorSource, m metrics.ScrimMetrics) *Registry {
	strategies := []Strategy{
		NewRankStrategy(),
		NewLatencyStrategy(cfg),
		NewHistoryStrategy(cfg, records),
	}
	if m != nil {
		for i, strategy := range strategies {
			strategies[i] = Instrumented(strategy, m)
		}
	}
	return NewRegistry(strategies...)
}

// ByName returns the registered strategy for name.
func (r *Registry) ByName(name string) (Strategy, error) {
	strategy, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: strategy %q", models.ErrNotFound, name)
	}
	return strategy, nil
}

// Names returns the registered strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}

// Instrumented wraps a strategy with selection metrics.
func Instrumented(strategy Strategy, m metrics.ScrimMetrics) Strategy {
	return instrumentedStrategy{inner: strategy, metrics: m}
}

type instrumentedStrategy struct {
	inner   Strategy
	metrics metrics.ScrimMetrics
}

func (i instrumentedStrategy) Name() string {
	return i.inner.Name()
}

func (i instrumentedStrategy) Select(scope *envelope.Scope, candidates []models.User, target models.ScrimSettings) ([]models.User, error) {
	started := time.Now()
	selected, err := i.inner.Select(scope, candidates, target)
	i.metrics.AddSelectionElapsedTimeMs(target.Game, i.inner.Name(), time.Since(started))
	if err == nil {
		i.metrics.SelectedPlayers(target.Game, i.inner.Name(), len(selected))
	}
	return selected, err
}
