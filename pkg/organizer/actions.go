// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package organizer

import (
	"fmt"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// Action is one reversible roster edit. Each variant captures enough
// pre-state on execute to reverse itself exactly; the variant set is closed
// within this package.
type Action interface {
	Name() string

	canExecute(scope *envelope.Scope, s *Session) error
	execute(scope *envelope.Scope, s *Session) error
	undo(scope *envelope.Scope, s *Session) error
}

// Invite adds a user to the working roster with an optional role and stores
// an auto-accepted application on the scrim. Undo removes both.
type Invite struct {
	User models.User
	Role models.Role
}

func (a *Invite) Name() string { return "invite" }

func (a *Invite) canExecute(_ *envelope.Scope, s *Session) error {
	if len(s.roster) >= s.scrim.Slots() {
		return fmt.Errorf("%w: scrim %s", models.ErrRosterFull, s.scrim.ID)
	}
	if a.Role != models.RoleNone && !s.catalog.IsValidRole(s.scrim.Settings.Game, a.Role) {
		return fmt.Errorf("%w: role %s for game %s", models.ErrRoleNotInGame, a.Role, s.scrim.Settings.Game)
	}
	if holder := s.roleHolder(a.Role); holder >= 0 {
		return fmt.Errorf("%w: role %s held by user %s", models.ErrRoleTaken, a.Role, s.roster[holder].UserID)
	}
	if s.slotIndex(a.User.ID) >= 0 {
		return fmt.Errorf("%w: user %s", models.ErrUserAlreadyInRoster, a.User.ID)
	}
	if _, exists := s.scrim.ApplicationFor(a.User.ID); exists {
		return fmt.Errorf("%w: user %s", models.ErrDuplicateApplication, a.User.ID)
	}
	return nil
}

func (a *Invite) execute(scope *envelope.Scope, s *Session) error {
	if _, err := s.scrim.RecordInvite(scope, a.User); err != nil {
		return err
	}
	s.roster = append(s.roster, models.RosterSlot{
		UserID:   a.User.ID,
		Username: a.User.Username,
		Role:     a.Role,
	})
	return nil
}

func (a *Invite) undo(scope *envelope.Scope, s *Session) error {
	if err := s.scrim.WithdrawApplication(scope, a.User.ID); err != nil {
		return err
	}
	index := s.slotIndex(a.User.ID)
	if index < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.User.ID)
	}
	s.roster = append(s.roster[:index], s.roster[index+1:]...)
	return nil
}

// AssignRole overwrites one roster member's role, saving the previous role
// for undo.
type AssignRole struct {
	UserID  string
	NewRole models.Role

	previousRole models.Role
}

func (a *AssignRole) Name() string { return "assignRole" }

func (a *AssignRole) canExecute(_ *envelope.Scope, s *Session) error {
	index := s.slotIndex(a.UserID)
	if index < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.UserID)
	}
	if !s.catalog.IsValidRole(s.scrim.Settings.Game, a.NewRole) {
		return fmt.Errorf("%w: role %s for game %s", models.ErrRoleNotInGame, a.NewRole, s.scrim.Settings.Game)
	}
	if holder := s.roleHolder(a.NewRole); holder >= 0 && holder != index {
		return fmt.Errorf("%w: role %s held by user %s", models.ErrRoleTaken, a.NewRole, s.roster[holder].UserID)
	}
	return nil
}

func (a *AssignRole) execute(_ *envelope.Scope, s *Session) error {
	index := s.slotIndex(a.UserID)
	if index < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.UserID)
	}
	a.previousRole = s.roster[index].Role
	s.roster[index].Role = a.NewRole
	return nil
}

func (a *AssignRole) undo(_ *envelope.Scope, s *Session) error {
	index := s.slotIndex(a.UserID)
	if index < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.UserID)
	}
	s.roster[index].Role = a.previousRole
	return nil
}

// SwapRoles exchanges the roles of two roster members as a single atomic
// action, so undoing it is one step. Both roles are re-validated against the
// scrim's game on execute; a swap may only exchange roles the game knows.
type SwapRoles struct {
	UserAID string
	UserBID string
}

func (a *SwapRoles) Name() string { return "swapRoles" }

func (a *SwapRoles) canExecute(_ *envelope.Scope, s *Session) error {
	if a.UserAID == a.UserBID {
		return fmt.Errorf("%w: cannot swap a user with themselves", models.ErrValidation)
	}
	indexA := s.slotIndex(a.UserAID)
	if indexA < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.UserAID)
	}
	indexB := s.slotIndex(a.UserBID)
	if indexB < 0 {
		return fmt.Errorf("%w: roster slot of user %s", models.ErrNotFound, a.UserBID)
	}

	for _, role := range []models.Role{s.roster[indexA].Role, s.roster[indexB].Role} {
		if role != models.RoleNone && !s.catalog.IsValidRole(s.scrim.Settings.Game, role) {
			return fmt.Errorf("%w: role %s for game %s", models.ErrRoleNotInGame, role, s.scrim.Settings.Game)
		}
	}
	return nil
}

func (a *SwapRoles) execute(_ *envelope.Scope, s *Session) error {
	return a.swap(s)
}

func (a *SwapRoles) undo(_ *envelope.Scope, s *Session) error {
	return a.swap(s)
}

func (a *SwapRoles) swap(s *Session) error {
	indexA := s.slotIndex(a.UserAID)
	indexB := s.slotIndex(a.UserBID)
	if indexA < 0 || indexB < 0 {
		return fmt.Errorf("%w: roster slots of users %s and %s", models.ErrNotFound, a.UserAID, a.UserBID)
	}
	s.roster[indexA].Role, s.roster[indexB].Role = s.roster[indexB].Role, s.roster[indexA].Role
	return nil
}
