// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package organizer implements the pre-confirmation working view of a scrim
// roster. An organizer session executes reversible actions against its own
// roster list and an explicit LIFO history; confirming the scrim materializes
// the roster into attendances and locks the session for good.
package organizer

import (
	"fmt"

	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/metrics"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/scrim"
)

// Session wraps one scrim before confirmation. The history stack, the roster
// list, and the scrim's application list stay mutually consistent after every
// execute/undo pair; callers must serialize access the same way they do for
// the scrim itself.
type Session struct {
	scrim   *scrim.Scrim
	catalog scrim.GameCatalog
	roster  []models.RosterSlot
	history []Action
	locked  bool
	metrics metrics.ScrimMetrics
}

// Option customizes a session at construction time.
type Option func(*Session)

// WithMetrics attaches organizer metrics.
func WithMetrics(m metrics.ScrimMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession opens an organizer session over the scrim.
func NewSession(target *scrim.Scrim, catalog scrim.GameCatalog, opts ...Option) *Session {
	session := &Session{
		scrim:   target,
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(session)
	}
	return session
}

// Roster returns a deep copy of the working roster.
func (s *Session) Roster() []models.RosterSlot {
	copied, err := copystructure.Copy(s.roster)
	if err != nil {
		logrus.Warn("failed copy roster:", err)
		return nil
	}
	return copied.([]models.RosterSlot)
}

// HistoryDepth returns how many actions can currently be undone.
func (s *Session) HistoryDepth() int {
	return len(s.history)
}

// Locked reports whether the session confirmed its scrim.
func (s *Session) Locked() bool {
	return s.locked
}

// Execute runs one organizer action and pushes it onto the undo history.
// The session must be unlocked and the scrim still forming its roster.
func (s *Session) Execute(rootScope *envelope.Scope, action Action) error {
	scope := rootScope.NewChildScope("Session.Execute")
	defer scope.Finish()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := action.canExecute(scope, s); err != nil {
		return err
	}
	if err := action.execute(scope, s); err != nil {
		return err
	}

	s.history = append(s.history, action)
	s.recordDepth()
	scope.Log.WithField("action", action.Name()).Info("ORGANIZER: action executed")
	return nil
}

// UndoLast pops the most recent action and reverses it. A confirmed session
// has no history left, so undoing it reports an empty history rather than a
// locked session.
func (s *Session) UndoLast(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("Session.UndoLast")
	defer scope.Finish()

	if len(s.history) == 0 {
		return models.ErrNothingToUndo
	}
	if err := s.ensureMutable(); err != nil {
		return err
	}

	last := s.history[len(s.history)-1]
	if err := last.undo(scope, s); err != nil {
		return err
	}
	s.history = s.history[:len(s.history)-1]
	s.recordDepth()
	scope.Log.WithField("action", last.Name()).Info("ORGANIZER: action undone")
	return nil
}

// Confirm materializes every roster slot into a confirmed attendance with its
// assigned role, clears the undo history, and locks the session permanently.
// Confirmed assignments are committed facts; there is no undo past this
// point. The scrim's lifecycle advances with the roster: a full, confirmed
// roster forms the lobby and moves the scrim to CONFIRMED, ready to start.
func (s *Session) Confirm(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("Session.Confirm")
	defer scope.Finish()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if err := s.scrim.ConfirmRoster(scope, s.roster); err != nil {
		return err
	}
	for i := range s.roster {
		s.roster[i].Confirmed = true
	}

	s.history = nil
	s.locked = true
	s.recordDepth()
	scope.Log.WithField("scrimID", s.scrim.ID).Info("ORGANIZER: scrim confirmed, session locked")
	return nil
}

func (s *Session) ensureMutable() error {
	if s.locked {
		return fmt.Errorf("%w: session already confirmed its scrim", models.ErrSessionLocked)
	}
	if name := s.scrim.StateName(); name != models.StateSeeking && name != models.StateLobbyFormed {
		return fmt.Errorf("%w: scrim is %s", models.ErrSessionLocked, name)
	}
	return nil
}

func (s *Session) recordDepth() {
	if s.metrics != nil {
		s.metrics.OrganizerHistoryDepth(s.scrim.Settings.Game, len(s.history))
	}
}

func (s *Session) slotIndex(userID string) int {
	for i := range s.roster {
		if s.roster[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Session) roleHolder(role models.Role) int {
	if role == models.RoleNone {
		return -1
	}
	for i := range s.roster {
		if s.roster[i].Role == role {
			return i
		}
	}
	return -1
}
