// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package models contains the scrim domain entities shared by the state machine,
// the organizer session, and the matchmaking strategies.
package models

import (
	"fmt"
	"time"

	validator "github.com/AccelByte/justice-input-validation-go"
	"github.com/elliotchance/pie/v2"
	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/common"
)

// ScrimState is the lifecycle state tag of a scrim aggregate.
type ScrimState string

const (
	StateSeeking     ScrimState = "SEEKING"
	StateLobbyFormed ScrimState = "LOBBY_FORMED"
	StateConfirmed   ScrimState = "CONFIRMED"
	StateInProgress  ScrimState = "IN_PROGRESS"
	StateFinished    ScrimState = "FINISHED"
	StateCancelled   ScrimState = "CANCELLED"
)

// LifecycleEvent identifies an externally visible scrim transition. Events are
// delivered to the notification sink and are never part of correctness.
type LifecycleEvent string

const (
	EventApplicationAccepted LifecycleEvent = "applicationAccepted"
	EventApplicationRejected LifecycleEvent = "applicationRejected"
	EventLobbyFormed         LifecycleEvent = "lobbyFormed"
	EventLobbyReset          LifecycleEvent = "lobbyReset"
	EventAttendanceConfirmed LifecycleEvent = "attendanceConfirmed"
	EventAttendanceRejected  LifecycleEvent = "attendanceRejected"
	EventScrimConfirmed      LifecycleEvent = "scrimConfirmed"
	EventScrimStarted        LifecycleEvent = "scrimStarted"
	EventScrimFinished       LifecycleEvent = "scrimFinished"
	EventScrimCancelled      LifecycleEvent = "scrimCancelled"
)

// Application rejection reasons stored for the audit trail and exported as
// metric labels.
const (
	RejectReasonRankOutOfWindow = "rank outside the scrim rank window"
	RejectReasonLatencyTooHigh  = "latency above the scrim maximum"
)

// LatencyUnlimited disables the latency gate on a scrim.
const LatencyUnlimited = -1

// Role is a game-specific role name. Roles belong to exactly one game; the
// games catalog owns the tables.
type Role string

// RoleNone marks an attendance or roster slot without an assigned role.
const RoleNone Role = ""

// Format is a team format offered by a game.
type Format struct {
	Name           string `json:"name"            valid:"required"`
	PlayersPerTeam int    `json:"players_per_team"`
}

// PlayerProfile is a user's standing in one game. Rank and latency are
// snapshotted onto applications at apply time.
type PlayerProfile struct {
	Game        string `json:"game"`
	Rank        int    `json:"rank"`
	LatencyMs   int    `json:"latency_ms"`
	PrimaryRole Role   `json:"primary_role"`
}

// User is a player or organizer identity resolved through the user directory.
type User struct {
	ID       string                   `json:"id"       valid:"required"`
	Username string                   `json:"username" valid:"required"`
	Profiles map[string]PlayerProfile `json:"profiles"`
}

// ProfileFor returns the user's profile for the given game.
func (u User) ProfileFor(game string) (PlayerProfile, bool) {
	profile, ok := u.Profiles[game]
	return profile, ok
}

// ScrimSettings are the organizer-supplied parameters of a scrim.
type ScrimSettings struct {
	Game        string    `json:"game"   valid:"required"`
	Format      Format    `json:"format"`
	ScheduledAt time.Time `json:"scheduled_at"`
	RankMin     int       `json:"rank_min"`
	RankMax     int       `json:"rank_max"`

	// LatencyMaxMs below or equal LatencyUnlimited means no latency gate.
	LatencyMaxMs int `json:"latency_max_ms"`
}

// Slots returns the roster size implied by the format.
func (s ScrimSettings) Slots() int {
	return s.Format.PlayersPerTeam * 2
}

// Validate checks the settings a scrim is created from.
func (s ScrimSettings) Validate() error {
	if _, err := validator.ValidateStruct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if s.Format.PlayersPerTeam < 1 {
		return fmt.Errorf("%w: format needs at least one player per team", ErrValidation)
	}
	if s.RankMin > s.RankMax {
		return fmt.Errorf("%w: rank window minimum exceeds maximum", ErrValidation)
	}
	if s.LatencyMaxMs < LatencyUnlimited {
		return fmt.Errorf("%w: latency maximum must be %d or a non-negative value", ErrValidation, LatencyUnlimited)
	}
	if s.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled time is required", ErrValidation)
	}
	return nil
}

// ApplicationStatus is the resolution state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is one user's request to join a scrim roster. Rank and latency
// are immutable snapshots taken when the user applied.
type Application struct {
	ID              string            `json:"id"`
	ScrimID         string            `json:"scrim_id"`
	UserID          string            `json:"user_id"`
	Username        string            `json:"username"`
	Rank            int               `json:"rank"`
	LatencyMs       int               `json:"latency_ms"`
	Status          ApplicationStatus `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// NewApplication snapshots the user's profile for the scrim's game into a
// pending application.
func NewApplication(scrimID string, user User, profile PlayerProfile) *Application {
	return &Application{
		ID:        common.GenerateUUID(),
		ScrimID:   scrimID,
		UserID:    user.ID,
		Username:  user.Username,
		Rank:      profile.Rank,
		LatencyMs: profile.LatencyMs,
		Status:    ApplicationPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Accept resolves a pending application. Resolution is one-way.
func (a *Application) Accept() error {
	if a.Status != ApplicationPending {
		return fmt.Errorf("%w: application %s is %s", ErrApplicationResolved, a.ID, a.Status)
	}
	a.Status = ApplicationAccepted
	return nil
}

// Reject resolves a pending application with a human-readable reason.
func (a *Application) Reject(reason string) error {
	if a.Status != ApplicationPending {
		return fmt.Errorf("%w: application %s is %s", ErrApplicationResolved, a.ID, a.Status)
	}
	if reason == "" {
		return fmt.Errorf("%w: rejection needs a reason", ErrValidation)
	}
	a.Status = ApplicationRejected
	a.RejectionReason = reason
	return nil
}

// AttendanceStatus is the resolution state of an attendance.
type AttendanceStatus string

const (
	AttendancePending   AttendanceStatus = "PENDING"
	AttendanceConfirmed AttendanceStatus = "CONFIRMED"
	AttendanceRejected  AttendanceStatus = "REJECTED"
)

// Attendance is a roster member's acknowledgment that they will show up,
// spawned in bulk when the lobby forms.
type Attendance struct {
	ID           string           `json:"id"`
	ScrimID      string           `json:"scrim_id"`
	UserID       string           `json:"user_id"`
	Status       AttendanceStatus `json:"status"`
	AssignedRole Role             `json:"assigned_role,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewAttendance creates a pending attendance for an accepted applicant.
func NewAttendance(scrimID, userID string) *Attendance {
	return &Attendance{
		ID:        common.GenerateUUID(),
		ScrimID:   scrimID,
		UserID:    userID,
		Status:    AttendancePending,
		CreatedAt: time.Now().UTC(),
	}
}

// HasRole reports whether the organizer assigned a role to this attendance.
func (c *Attendance) HasRole() bool {
	return c.AssignedRole != RoleNone
}

// Confirm resolves a pending attendance. Resolution is one-way.
func (c *Attendance) Confirm() error {
	if c.Status != AttendancePending {
		return fmt.Errorf("%w: attendance %s is %s", ErrAttendanceResolved, c.ID, c.Status)
	}
	c.Status = AttendanceConfirmed
	return nil
}

// Reject resolves a pending attendance.
func (c *Attendance) Reject() error {
	if c.Status != AttendancePending {
		return fmt.Errorf("%w: attendance %s is %s", ErrAttendanceResolved, c.ID, c.Status)
	}
	c.Status = AttendanceRejected
	return nil
}

// RosterSlot is the organizer's working view of one roster seat. It exists
// only inside an organizer session. Identity is the user; the role may change
// without changing identity.
type RosterSlot struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	Confirmed bool   `json:"confirmed"`
}

// SameUser reports whether two slots refer to the same roster member.
func (p RosterSlot) SameUser(other RosterSlot) bool {
	return p.UserID == other.UserID
}

// BehaviorRecord tracks a user's completion and abandonment history plus a
// fair play score in [0,1]. The matchmaking engine reads it; only the game
// completion reporting pipeline writes it.
type BehaviorRecord struct {
	UserID         string  `json:"user_id"`
	GamesPlayed    int     `json:"games_played"`
	GamesAbandoned int     `json:"games_abandoned"`
	FairPlay       float64 `json:"fair_play"`
}

// AbandonRate returns the fraction of played games the user abandoned.
// GamesPlayed counts every started game, abandoned ones included.
func (h BehaviorRecord) AbandonRate() float64 {
	if h.GamesPlayed == 0 {
		return 0
	}
	return float64(h.GamesAbandoned) / float64(h.GamesPlayed)
}

// RecordCompletion registers a finished game and nudges fair play back up.
func (h *BehaviorRecord) RecordCompletion() {
	h.GamesPlayed++
	h.FairPlay = min(1.0, h.FairPlay+0.01)
}

// RecordAbandon registers an abandoned game.
func (h *BehaviorRecord) RecordAbandon() {
	h.GamesPlayed++
	h.GamesAbandoned++
	h.FairPlay = max(0.0, h.FairPlay-0.05)
}

// ScrimStats is the completion summary generated when a scrim finishes.
type ScrimStats struct {
	ScrimID          string        `json:"scrim_id"`
	Game             string        `json:"game"`
	Format           Format        `json:"format"`
	Duration         time.Duration `json:"duration"`
	ConfirmedPlayers []string      `json:"confirmed_players"`
	RolesPlayed      []Role        `json:"roles_played"`
}

// BuildScrimStats summarizes confirmed attendances for a finished scrim.
func BuildScrimStats(scrimID string, settings ScrimSettings, attendances []*Attendance, startedAt, finishedAt time.Time) *ScrimStats {
	confirmed := pie.Filter(attendances, func(c *Attendance) bool {
		return c.Status == AttendanceConfirmed
	})
	roles := pie.Unique(pie.Filter(
		pie.Map(confirmed, func(c *Attendance) Role { return c.AssignedRole }),
		func(r Role) bool { return r != RoleNone },
	))

	return &ScrimStats{
		ScrimID:  scrimID,
		Game:     settings.Game,
		Format:   settings.Format,
		Duration: finishedAt.Sub(startedAt),
		ConfirmedPlayers: pie.Map(confirmed, func(c *Attendance) string {
			return c.UserID
		}),
		RolesPlayed: roles,
	}
}

// CopyApplications deep-copies an application list, for snapshots handed to
// observers.
func CopyApplications(applications []*Application) []*Application {
	copied, err := copystructure.Copy(applications)
	if err != nil {
		logrus.Warn("failed copy applications:", err)
		return nil
	}
	return copied.([]*Application)
}

// CopyAttendances deep-copies an attendance list.
func CopyAttendances(attendances []*Attendance) []*Attendance {
	copied, err := copystructure.Copy(attendances)
	if err != nil {
		logrus.Warn("failed copy attendances:", err)
		return nil
	}
	return copied.([]*Attendance)
}
