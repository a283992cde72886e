// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

type Config struct {
	StartGraceMinute        int     `env:"START_GRACE_MINUTE"          envDefault:"10"   envDocs:"how many minutes before the scheduled time a confirmed scrim may be started"`
	LatencyExpansionStepMs  int     `env:"LATENCY_EXPANSION_STEP_MS"   envDefault:"20"   envDocs:"latency threshold increment per expansion pass in the latency strategy"`
	LatencyExpansionMaxMs   int     `env:"LATENCY_EXPANSION_MAX_MS"    envDefault:"300"  envDocs:"hard ceiling for latency threshold expansion in the latency strategy"`
	HistoryFairPlayFloor    float64 `env:"HISTORY_FAIR_PLAY_FLOOR"     envDefault:"0.5"  envDocs:"minimum fair play score for a candidate to be eligible in the history strategy"`
	HistoryAbandonRateLimit float64 `env:"HISTORY_ABANDON_RATE_LIMIT"  envDefault:"0.30" envDocs:"maximum abandon rate for a candidate to be eligible in the history strategy"`
	RoleCapDivisor          int     `env:"ROLE_CAP_DIVISOR"            envDefault:"3"    envDocs:"slots divided by this caps per-role picks in the history strategy (floor of 2)"`
}
