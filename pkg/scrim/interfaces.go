// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package scrim implements the scrim aggregate and its lifecycle state
// machine. A scrim moves through player recruitment, lobby formation,
// attendance confirmation, play, and completion; every operation is delegated
// to the current state, which decides legality and side effects.
package scrim

import (
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

/*
The scrim core owns no I/O. Identities, persistence, notification delivery,
and game reference data are consumed through the collaborator interfaces
below; the coordinator wires them together and the aggregate itself only
talks to the notification sink.

Notification delivery is fire-and-forget: a sink failure is logged on the
scope and never rolls back the transition that produced the event.
*/

// UserDirectory resolves player and organizer identities.
type UserDirectory interface {
	// FindByID returns the user for the given ID, or models.ErrNotFound.
	FindByID(scope *envelope.Scope, id string) (models.User, error)

	// FindByUsername returns the user for the given username, or models.ErrNotFound.
	FindByUsername(scope *envelope.Scope, username string) (models.User, error)
}

// ScrimRepository persists scrim aggregates. The encoding is entirely the
// implementation's concern; the core only requires at-most-one in-flight
// mutation per scrim ID.
type ScrimRepository interface {
	Save(scope *envelope.Scope, scrim *Scrim) error
	FindByID(scope *envelope.Scope, id string) (*Scrim, error)
	Update(scope *envelope.Scope, scrim *Scrim) error
	Delete(scope *envelope.Scope, id string) error
	FindAll(scope *envelope.Scope) ([]*Scrim, error)
}

// NotificationSink receives lifecycle events for fan-out to players. Failures
// must not surface as core errors.
type NotificationSink interface {
	Notify(scope *envelope.Scope, event models.LifecycleEvent, scrim *Scrim, recipients []string) error
}

// GameCatalog exposes read-only game reference data.
type GameCatalog interface {
	// RolesFor returns the role table of a game, or models.ErrNotFound.
	RolesFor(game string) ([]models.Role, error)

	// FormatsFor returns the format table of a game, or models.ErrNotFound.
	FormatsFor(game string) ([]models.Format, error)

	// IsValidRole reports whether role belongs to game.
	IsValidRole(game string, role models.Role) bool
}
