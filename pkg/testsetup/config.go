// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"github.com/caarlos0/env"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
)

// NewConfig parses a config from the environment, so tests run with the
// documented defaults unless a test overrides a variable.
func NewConfig() *config.Config {
	configuration := &config.Config{}
	if err := env.Parse(configuration); err != nil {
		panic(err)
	}
	return configuration
}
