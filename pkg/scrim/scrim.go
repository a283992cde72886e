// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scrim

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/common"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/metrics"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"

	pie "github.com/elliotchance/pie/v2"
)

// Scrim is the aggregate root for one scheduled practice match. It owns the
// application and attendance collections and delegates every lifecycle
// operation to its current state. Operations on a single scrim must be
// serialized by the caller; different scrims are fully independent.
type Scrim struct {
	ID          string
	OrganizerID string
	Settings    models.ScrimSettings
	CreatedAt   time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	Stats       *models.ScrimStats

	applications []*models.Application
	attendances  []*models.Attendance
	state        scrimState

	cfg     *config.Config
	sink    NotificationSink
	metrics metrics.ScrimMetrics
}

// Option customizes a scrim at construction time.
type Option func(*Scrim)

// WithNotificationSink attaches a sink for lifecycle events.
func WithNotificationSink(sink NotificationSink) Option {
	return func(s *Scrim) { s.sink = sink }
}

// WithMetrics attaches lifecycle metrics.
func WithMetrics(m metrics.ScrimMetrics) Option {
	return func(s *Scrim) { s.metrics = m }
}

// NewScrim creates a scrim in the SEEKING state from validated settings.
func NewScrim(cfg *config.Config, organizer models.User, settings models.ScrimSettings, opts ...Option) (*Scrim, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	scrim := &Scrim{
		ID:          common.GenerateUUID(),
		OrganizerID: organizer.ID,
		Settings:    settings,
		CreatedAt:   time.Now().UTC(),
		state:       seeking(),
		cfg:         cfg,
	}
	for _, opt := range opts {
		opt(scrim)
	}

	return scrim, nil
}

// StateName returns the current lifecycle state tag.
func (s *Scrim) StateName() models.ScrimState {
	return s.state.name()
}

// Slots returns the roster size of this scrim.
func (s *Scrim) Slots() int {
	return s.Settings.Slots()
}

// Applications returns a deep copy of the stored applications, rejected ones
// included.
func (s *Scrim) Applications() []*models.Application {
	return models.CopyApplications(s.applications)
}

// Attendances returns a deep copy of the current attendance round.
func (s *Scrim) Attendances() []*models.Attendance {
	return models.CopyAttendances(s.attendances)
}

// ScrimSnapshot is a point-in-time observer view of a scrim, detached from
// the aggregate.
type ScrimSnapshot struct {
	ID           string
	OrganizerID  string
	State        models.ScrimState
	Settings     models.ScrimSettings
	Applications []*models.Application
	Attendances  []*models.Attendance
	Stats        *models.ScrimStats
}

// Snapshot returns a deep copy of the scrim's observable data.
func (s *Scrim) Snapshot() ScrimSnapshot {
	snapshot := ScrimSnapshot{
		ID:           s.ID,
		OrganizerID:  s.OrganizerID,
		State:        s.state.name(),
		Settings:     s.Settings,
		Applications: models.CopyApplications(s.applications),
		Attendances:  models.CopyAttendances(s.attendances),
	}
	if s.Stats != nil {
		stats := *s.Stats
		stats.ConfirmedPlayers = append([]string(nil), s.Stats.ConfirmedPlayers...)
		stats.RolesPlayed = append([]models.Role(nil), s.Stats.RolesPlayed...)
		snapshot.Stats = &stats
	}
	return snapshot
}

// ApplicationFor returns the stored application of one user.
func (s *Scrim) ApplicationFor(userID string) (*models.Application, bool) {
	application := s.applicationOf(userID)
	if application == nil {
		return nil, false
	}
	copied := *application
	return &copied, true
}

// Apply validates the applicant against the scrim's rank window and latency
// gate and stores the resulting application. A rejected application is stored
// too, with its reason, as an audit trail; rejection is not an error. The
// duplicate check runs before the state machine so re-application always
// fails the same way regardless of state.
func (s *Scrim) Apply(rootScope *envelope.Scope, user models.User) (*models.Application, error) {
	scope := rootScope.NewChildScope("Scrim.Apply")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	if s.applicationOf(user.ID) != nil {
		return nil, fmt.Errorf("%w: user %s", models.ErrDuplicateApplication, user.ID)
	}

	profile, ok := user.ProfileFor(s.Settings.Game)
	if !ok {
		return nil, fmt.Errorf("%w: user %s has no profile for game %s", models.ErrValidation, user.ID, s.Settings.Game)
	}

	return s.state.apply(scope, s, user, profile)
}

// ConfirmAttendance marks one pending attendance as confirmed or rejected.
// A rejection discards the whole confirmation round and reopens recruitment.
func (s *Scrim) ConfirmAttendance(rootScope *envelope.Scope, userID string, accept bool) error {
	scope := rootScope.NewChildScope("Scrim.ConfirmAttendance")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	return s.state.confirmAttendance(scope, s, userID, accept)
}

// Start moves a confirmed scrim into play. Allowed only once the grace window
// before the scheduled time has opened.
func (s *Scrim) Start(rootScope *envelope.Scope, now time.Time) error {
	scope := rootScope.NewChildScope("Scrim.Start")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	return s.state.start(scope, s, now)
}

// Finish completes a scrim in play and generates its completion statistics.
func (s *Scrim) Finish(rootScope *envelope.Scope, now time.Time) (*models.ScrimStats, error) {
	scope := rootScope.NewChildScope("Scrim.Finish")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	return s.state.finish(scope, s, now)
}

// Cancel terminates the scrim. A scrim in play must finish first; finished
// and cancelled scrims stay terminal.
func (s *Scrim) Cancel(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("Scrim.Cancel")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	return s.state.cancel(scope, s)
}

// RecordInvite stores an auto-accepted application on behalf of the
// organizer, bypassing the rank and latency gates. Legal only while the
// roster is still being formed; the organizer session calls this when an
// Invite action executes.
func (s *Scrim) RecordInvite(rootScope *envelope.Scope, user models.User) (*models.Application, error) {
	scope := rootScope.NewChildScope("Scrim.RecordInvite")
	defer scope.Finish()

	if name := s.state.name(); name != models.StateSeeking && name != models.StateLobbyFormed {
		return nil, fmt.Errorf("%w: invite while %s", models.ErrInvalidTransition, name)
	}
	if s.applicationOf(user.ID) != nil {
		return nil, fmt.Errorf("%w: user %s", models.ErrDuplicateApplication, user.ID)
	}
	if len(s.acceptedApplications()) >= s.Slots() {
		return nil, fmt.Errorf("%w: scrim %s", models.ErrRosterFull, s.ID)
	}

	// Invited users need no profile for the scrim's game; an absent profile
	// snapshots as zero values.
	profile, _ := user.ProfileFor(s.Settings.Game)
	application := models.NewApplication(s.ID, user, profile)
	if err := application.Accept(); err != nil {
		return nil, err
	}
	s.applications = append(s.applications, application)

	scope.Log.WithField("userID", user.ID).Info("SCRIM: organizer invite recorded")
	return application, nil
}

// WithdrawApplication removes a stored application, reversing an invite.
func (s *Scrim) WithdrawApplication(rootScope *envelope.Scope, userID string) error {
	scope := rootScope.NewChildScope("Scrim.WithdrawApplication")
	defer scope.Finish()

	if s.applicationOf(userID) == nil {
		return fmt.Errorf("%w: application of user %s", models.ErrNotFound, userID)
	}
	s.applications = pie.Filter(s.applications, func(a *models.Application) bool {
		return a.UserID != userID
	})

	scope.Log.WithField("userID", userID).Info("SCRIM: application withdrawn")
	return nil
}

// ConfirmRoster materializes an organizer roster into confirmed attendances
// and advances the lifecycle the same way player confirmations do: a roster
// that fills every slot forms the lobby first, and once every attendance in
// the round is confirmed the scrim moves to CONFIRMED. A partial roster
// leaves the scrim recruiting; its confirmed attendances carry over into the
// lobby once the remaining slots fill. The organizer session calls this when
// it confirms.
func (s *Scrim) ConfirmRoster(rootScope *envelope.Scope, roster []models.RosterSlot) error {
	scope := rootScope.NewChildScope("Scrim.ConfirmRoster")
	defer scope.Finish()
	scope.SetAttributes(envelope.ScrimIDTag, s.ID)

	if name := s.state.name(); name != models.StateSeeking && name != models.StateLobbyFormed {
		return fmt.Errorf("%w: confirm roster while %s", models.ErrInvalidTransition, name)
	}

	if s.state.name() == models.StateSeeking && len(s.acceptedApplications()) >= s.Slots() {
		formLobby(scope, s)
	}
	for _, slot := range roster {
		if _, err := s.grantAttendance(scope, slot.UserID, slot.Role); err != nil {
			return err
		}
	}
	if s.state.name() == models.StateLobbyFormed && allConfirmed(s) {
		s.transitionTo(scope, confirmed(), models.EventScrimConfirmed, s.participantIDs())
	}

	scope.Log.WithField("rosterSize", len(roster)).Info("SCRIM: organizer roster confirmed")
	return nil
}

// grantAttendance confirms the user's pending attendance, creating one first
// if this confirmation round has none for them, and records the assigned
// role.
func (s *Scrim) grantAttendance(scope *envelope.Scope, userID string, role models.Role) (*models.Attendance, error) {
	attendance := s.pendingAttendanceOf(userID)
	switch {
	case attendance != nil:
		if err := attendance.Confirm(); err != nil {
			return nil, err
		}
	case s.confirmedAttendanceOf(userID) != nil:
		attendance = s.confirmedAttendanceOf(userID)
	default:
		attendance = models.NewAttendance(s.ID, userID)
		if err := attendance.Confirm(); err != nil {
			return nil, err
		}
		s.attendances = append(s.attendances, attendance)
	}
	attendance.AssignedRole = role

	scope.Log.WithField("userID", userID).Info("SCRIM: attendance granted by organizer")
	return attendance, nil
}

func (s *Scrim) applicationOf(userID string) *models.Application {
	for _, application := range s.applications {
		if application.UserID == userID {
			return application
		}
	}
	return nil
}

func (s *Scrim) attendanceOf(userID string) *models.Attendance {
	for _, attendance := range s.attendances {
		if attendance.UserID == userID {
			return attendance
		}
	}
	return nil
}

func (s *Scrim) confirmedAttendanceOf(userID string) *models.Attendance {
	for _, attendance := range s.attendances {
		if attendance.UserID == userID && attendance.Status == models.AttendanceConfirmed {
			return attendance
		}
	}
	return nil
}

func (s *Scrim) pendingAttendanceOf(userID string) *models.Attendance {
	for _, attendance := range s.attendances {
		if attendance.UserID == userID && attendance.Status == models.AttendancePending {
			return attendance
		}
	}
	return nil
}

func (s *Scrim) acceptedApplications() []*models.Application {
	return pie.Filter(s.applications, func(a *models.Application) bool {
		return a.Status == models.ApplicationAccepted
	})
}

func (s *Scrim) participantIDs() []string {
	return pie.Map(s.acceptedApplications(), func(a *models.Application) string {
		return a.UserID
	})
}

// transitionTo swaps the active state, counts the transition, and emits the
// lifecycle event. Must only be called after all mutations of the transition
// succeeded.
func (s *Scrim) transitionTo(scope *envelope.Scope, next scrimState, event models.LifecycleEvent, recipients []string) {
	from := s.state.name()
	s.state = next
	scope.SetAttributes(envelope.ScrimStateTag, string(next.name()))
	scope.Log.WithField("scrimID", s.ID).Infof("SCRIM: %s -> %s", from, next.name())

	if s.metrics != nil {
		s.metrics.LifecycleTransition(s.Settings.Game, string(from), string(next.name()))
	}
	s.emit(scope, event, recipients)
}

// emit delivers a lifecycle event to the sink. Delivery failures are logged
// and never propagated; the transition that produced the event stands.
func (s *Scrim) emit(scope *envelope.Scope, event models.LifecycleEvent, recipients []string) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Notify(scope, event, s, recipients); err != nil {
		scope.Log.WithField("event", string(event)).Warnf("SCRIM: notification delivery failed: %v", err)
	}
}

func (s *Scrim) countRejection(reason string) {
	if s.metrics != nil {
		s.metrics.ApplicationRejected(s.Settings.Game, reason)
	}
}
