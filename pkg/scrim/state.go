// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scrim

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/common"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/utils"
)

// scrimState owns the business rules of one lifecycle stage. Implementations
// validate, mutate the aggregate's collections, and may replace the active
// state through transitionTo. Any operation a state does not override is an
// invalid transition that leaves the aggregate untouched.
type scrimState interface {
	name() models.ScrimState
	apply(scope *envelope.Scope, s *Scrim, user models.User, profile models.PlayerProfile) (*models.Application, error)
	confirmAttendance(scope *envelope.Scope, s *Scrim, userID string, accept bool) error
	start(scope *envelope.Scope, s *Scrim, now time.Time) error
	finish(scope *envelope.Scope, s *Scrim, now time.Time) (*models.ScrimStats, error)
	cancel(scope *envelope.Scope, s *Scrim) error
}

func invalidOp(op string, state models.ScrimState) error {
	return fmt.Errorf("%w: %s while %s", models.ErrInvalidTransition, op, state)
}

// deniedOps rejects every operation. Each concrete state embeds it and
// overrides only what its row of the transition table allows.
type deniedOps struct {
	stateName models.ScrimState
}

func (d deniedOps) name() models.ScrimState {
	return d.stateName
}

func (d deniedOps) apply(_ *envelope.Scope, _ *Scrim, _ models.User, _ models.PlayerProfile) (*models.Application, error) {
	return nil, invalidOp("apply", d.stateName)
}

func (d deniedOps) confirmAttendance(_ *envelope.Scope, _ *Scrim, _ string, _ bool) error {
	return invalidOp("confirmAttendance", d.stateName)
}

func (d deniedOps) start(_ *envelope.Scope, _ *Scrim, _ time.Time) error {
	return invalidOp("start", d.stateName)
}

func (d deniedOps) finish(_ *envelope.Scope, _ *Scrim, _ time.Time) (*models.ScrimStats, error) {
	return nil, invalidOp("finish", d.stateName)
}

func (d deniedOps) cancel(_ *envelope.Scope, _ *Scrim) error {
	return invalidOp("cancel", d.stateName)
}

// cancellableOps is deniedOps plus the shared cancel rule of the three
// pre-play states.
type cancellableOps struct {
	deniedOps
}

func (c cancellableOps) cancel(scope *envelope.Scope, s *Scrim) error {
	s.transitionTo(scope, cancelled(), models.EventScrimCancelled, s.participantIDs())
	return nil
}

func seeking() scrimState {
	return seekingState{cancellableOps{deniedOps{models.StateSeeking}}}
}

func lobbyFormed() scrimState {
	return lobbyFormedState{cancellableOps{deniedOps{models.StateLobbyFormed}}}
}

func confirmed() scrimState {
	return confirmedState{cancellableOps{deniedOps{models.StateConfirmed}}}
}

func inProgress() scrimState {
	return inProgressState{deniedOps{models.StateInProgress}}
}

func finished() scrimState {
	return finishedState{deniedOps{models.StateFinished}}
}

func cancelled() scrimState {
	return cancelledState{deniedOps{models.StateCancelled}}
}

// seekingState accepts applications until every slot has one, then forms the
// lobby.
type seekingState struct {
	cancellableOps
}

func (st seekingState) apply(scope *envelope.Scope, s *Scrim, user models.User, profile models.PlayerProfile) (*models.Application, error) {
	// Organizer invites can fill every slot without forming the lobby; the
	// scrim then waits for the session to confirm, not for more applicants.
	if len(s.acceptedApplications()) >= s.Slots() {
		return nil, fmt.Errorf("%w: scrim %s", models.ErrRosterFull, s.ID)
	}

	application := models.NewApplication(s.ID, user, profile)

	if reason := st.rejectionReason(s, profile); reason != "" {
		if err := application.Reject(reason); err != nil {
			return nil, err
		}
		s.applications = append(s.applications, application)
		s.countRejection(reason)
		s.emit(scope, models.EventApplicationRejected, []string{user.ID})
		scope.Log.WithField("userID", user.ID).Infof("SCRIM: application rejected: %s", reason)
		return application, nil
	}

	if err := application.Accept(); err != nil {
		return nil, err
	}
	s.applications = append(s.applications, application)
	s.emit(scope, models.EventApplicationAccepted, []string{user.ID})
	scope.Log.WithField("userID", user.ID).Info("SCRIM: application accepted")

	if len(s.acceptedApplications()) >= s.Slots() {
		formLobby(scope, s)
	}

	return application, nil
}

func (st seekingState) rejectionReason(s *Scrim, profile models.PlayerProfile) string {
	if profile.Rank < s.Settings.RankMin || profile.Rank > s.Settings.RankMax {
		return models.RejectReasonRankOutOfWindow
	}
	if s.Settings.LatencyMaxMs != models.LatencyUnlimited && profile.LatencyMs > s.Settings.LatencyMaxMs {
		return models.RejectReasonLatencyTooHigh
	}
	return ""
}

// formLobby spawns a pending attendance for every accepted applicant who has
// none yet and moves to LOBBY_FORMED. Attendances the organizer session
// already confirmed are committed facts and must survive lobby formation.
func formLobby(scope *envelope.Scope, s *Scrim) {
	for _, application := range s.acceptedApplications() {
		if s.attendanceOf(application.UserID) == nil {
			s.attendances = append(s.attendances, models.NewAttendance(s.ID, application.UserID))
		}
	}

	s.transitionTo(scope, lobbyFormed(), models.EventLobbyFormed, s.participantIDs())
}

// lobbyFormedState collects attendance confirmations. A single rejection
// discards the whole confirmation round: the rejecting user's application is
// dropped, every attendance is cleared, and recruitment reopens. Attendances
// are regenerated from scratch once the lobby refills.
type lobbyFormedState struct {
	cancellableOps
}

func (st lobbyFormedState) confirmAttendance(scope *envelope.Scope, s *Scrim, userID string, accept bool) error {
	attendance := s.pendingAttendanceOf(userID)
	if attendance == nil {
		return fmt.Errorf("%w: pending attendance of user %s", models.ErrNotFound, userID)
	}

	if !accept {
		if err := attendance.Reject(); err != nil {
			return err
		}
		s.emit(scope, models.EventAttendanceRejected, []string{userID})

		if err := s.WithdrawApplication(scope, userID); err != nil {
			return err
		}
		s.attendances = nil
		s.transitionTo(scope, seeking(), models.EventLobbyReset, s.participantIDs())
		return nil
	}

	if err := attendance.Confirm(); err != nil {
		return err
	}
	s.emit(scope, models.EventAttendanceConfirmed, []string{userID})
	scope.Log.WithField("userID", userID).Info("SCRIM: attendance confirmed")

	if allConfirmed(s) {
		s.transitionTo(scope, confirmed(), models.EventScrimConfirmed, s.participantIDs())
	}
	return nil
}

// allConfirmed reports whether the current confirmation round is complete.
func allConfirmed(s *Scrim) bool {
	confirmed := utils.CountIf(s.attendances, func(a *models.Attendance) bool {
		return a.Status == models.AttendanceConfirmed
	})
	return confirmed > 0 && confirmed == len(s.attendances)
}

// confirmedState waits for the grace window before the scheduled time.
type confirmedState struct {
	cancellableOps
}

func (st confirmedState) start(scope *envelope.Scope, s *Scrim, now time.Time) error {
	grace := time.Duration(s.cfg.StartGraceMinute) * time.Minute
	earliest := s.Settings.ScheduledAt.Add(-grace)
	if now.Before(earliest) {
		return fmt.Errorf("%w: earliest start is %s", models.ErrStartTooEarly, earliest.Format(time.RFC3339))
	}

	s.StartedAt = now
	s.transitionTo(scope, inProgress(), models.EventScrimStarted, s.participantIDs())
	return nil
}

// inProgressState only finishes; a scrim in play cannot be cancelled.
type inProgressState struct {
	deniedOps
}

func (st inProgressState) finish(scope *envelope.Scope, s *Scrim, now time.Time) (*models.ScrimStats, error) {
	s.FinishedAt = now
	s.Stats = models.BuildScrimStats(s.ID, s.Settings, s.attendances, s.StartedAt, now)
	scope.Log.Infof("SCRIM: stats generated %s", common.LogJSONFormatter(s.Stats))
	s.transitionTo(scope, finished(), models.EventScrimFinished, s.participantIDs())
	return s.Stats, nil
}

func (st inProgressState) cancel(_ *envelope.Scope, s *Scrim) error {
	return fmt.Errorf("%w: scrim %s is in progress and must finish first", models.ErrInvalidTransition, s.ID)
}

type finishedState struct {
	deniedOps
}

type cancelledState struct {
	deniedOps
}
