// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"testing"

	"github.com/caarlos0/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, 10, cfg.StartGraceMinute)
	assert.Equal(t, 20, cfg.LatencyExpansionStepMs)
	assert.Equal(t, 300, cfg.LatencyExpansionMaxMs)
	assert.Equal(t, 0.5, cfg.HistoryFairPlayFloor)
	assert.Equal(t, 0.30, cfg.HistoryAbandonRateLimit)
	assert.Equal(t, 3, cfg.RoleCapDivisor)
}

func TestConfig_envOverride(t *testing.T) {
	t.Setenv("START_GRACE_MINUTE", "30")
	t.Setenv("HISTORY_FAIR_PLAY_FLOOR", "0.75")

	cfg := &Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, 30, cfg.StartGraceMinute)
	assert.Equal(t, 0.75, cfg.HistoryFairPlayFloor)
}
