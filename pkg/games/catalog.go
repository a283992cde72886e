// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package games holds the closed set of supported games with their static
// role and format tables. The catalog is immutable after init; no lookup
// mutates it, so it is safe to share process-wide without locking.
package games

import (
	"fmt"
	"sync"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/utils"
)

const (
	LeagueOfLegends = "league_of_legends"
	Valorant        = "valorant"
	CounterStrike   = "counter_strike"
)

// Game carries the reference data of one supported game. Roles belong to
// exactly one game.
type Game struct {
	Name    string
	Roles   []models.Role
	Formats []models.Format
}

var (
	leagueOfLegends = Game{
		Name:  LeagueOfLegends,
		Roles: []models.Role{"top", "jungle", "mid", "adc", "support"},
		Formats: []models.Format{
			{Name: "5v5", PlayersPerTeam: 5},
		},
	}

	valorant = Game{
		Name:  Valorant,
		Roles: []models.Role{"duelist", "initiator", "controller", "sentinel", "flex"},
		Formats: []models.Format{
			{Name: "5v5", PlayersPerTeam: 5},
		},
	}

	counterStrike = Game{
		Name:  CounterStrike,
		Roles: []models.Role{"igl", "entry", "awper", "support", "lurker"},
		Formats: []models.Format{
			{Name: "5v5", PlayersPerTeam: 5},
			{Name: "wingman", PlayersPerTeam: 2},
		},
	}
)

// Catalog answers role and format lookups for the supported games.
type Catalog struct {
	games map[string]Game
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// Default returns the process-wide catalog, built once.
func Default() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = NewCatalog(leagueOfLegends, valorant, counterStrike)
	})
	return defaultCatalog
}

// NewCatalog builds a catalog from an explicit game list. Mostly useful for
// tests that want a smaller table.
func NewCatalog(games ...Game) *Catalog {
	byName := make(map[string]Game, len(games))
	for _, game := range games {
		byName[game.Name] = game
	}
	return &Catalog{games: byName}
}

// ByName returns the game's reference data.
func (c *Catalog) ByName(name string) (Game, error) {
	game, ok := c.games[name]
	if !ok {
		return Game{}, fmt.Errorf("%w: game %q", models.ErrNotFound, name)
	}
	return game, nil
}

// RolesFor returns the role table of a game.
func (c *Catalog) RolesFor(game string) ([]models.Role, error) {
	found, err := c.ByName(game)
	if err != nil {
		return nil, err
	}
	roles := make([]models.Role, len(found.Roles))
	copy(roles, found.Roles)
	return roles, nil
}

// FormatsFor returns the format table of a game.
func (c *Catalog) FormatsFor(game string) ([]models.Format, error) {
	found, err := c.ByName(game)
	if err != nil {
		return nil, err
	}
	formats := make([]models.Format, len(found.Formats))
	copy(formats, found.Formats)
	return formats, nil
}

// IsValidRole reports whether role belongs to game. Unknown games have no
// valid roles.
func (c *Catalog) IsValidRole(game string, role models.Role) bool {
	found, ok := c.games[game]
	if !ok {
		return false
	}
	return utils.Contains(found.Roles, role)
}

// IsValidFormat reports whether the format matches one the game offers.
func (c *Catalog) IsValidFormat(game string, format models.Format) bool {
	found, ok := c.games[game]
	if !ok {
		return false
	}
	for _, offered := range found.Formats {
		if offered.Name == format.Name && offered.PlayersPerTeam == format.PlayersPerTeam {
			return true
		}
	}
	return false
}
