// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

var (
	timeNow   = time.Now()
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(timeNow.UnixNano())), 0)
	ulidMutex = sync.Mutex{}
)

// GenerateUserID returns a monotonic ulid, so generated users sort in
// creation order.
func GenerateUserID() string {
	ulidMutex.Lock()
	defer ulidMutex.Unlock()
	return ulid.MustNew(ulid.Timestamp(timeNow), entropy).String()
}

// NewUser builds a test user with one profile for the given game.
func NewUser(game string, rank int, latencyMs int, primaryRole models.Role) models.User {
	id := GenerateUserID()
	return models.User{
		ID:       id,
		Username: fmt.Sprintf("player-%s", id[len(id)-6:]),
		Profiles: map[string]models.PlayerProfile{
			game: {
				Game:        game,
				Rank:        rank,
				LatencyMs:   latencyMs,
				PrimaryRole: primaryRole,
			},
		},
	}
}

// NewUsersWithRanks builds one test user per rank, all for the same game.
func NewUsersWithRanks(game string, ranks ...int) []models.User {
	users := make([]models.User, 0, len(ranks))
	for _, rank := range ranks {
		users = append(users, NewUser(game, rank, 50, models.RoleNone))
	}
	return users
}

// NewUsersWithLatencies builds one test user per latency, all for the same
// game.
func NewUsersWithLatencies(game string, latencies ...int) []models.User {
	users := make([]models.User, 0, len(latencies))
	for _, latency := range latencies {
		users = append(users, NewUser(game, 1500, latency, models.RoleNone))
	}
	return users
}
