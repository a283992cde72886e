// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the scrim core wraps exactly one of these,
// so callers can classify failures with errors.Is without matching strings.
var (
	ErrInvalidTransition = errors.New("operation is not legal in the current scrim state")
	ErrValidation        = errors.New("input failed scrim domain rules")
	ErrNotFound          = errors.New("referenced entity does not exist in this aggregate")
	ErrSessionLocked     = errors.New("organizer session is locked")
	ErrNothingToUndo     = errors.New("organizer action history is empty")
)

var (
	ErrDuplicateApplication = fmt.Errorf("%w: user already applied to this scrim", ErrValidation)
	ErrRankOutOfWindow      = fmt.Errorf("%w: rank is outside the scrim rank window", ErrValidation)
	ErrLatencyTooHigh       = fmt.Errorf("%w: latency is above the scrim maximum", ErrValidation)
	ErrRoleNotInGame        = fmt.Errorf("%w: role does not belong to the scrim game", ErrValidation)
	ErrRoleTaken            = fmt.Errorf("%w: role is already taken by another roster member", ErrValidation)
	ErrUserAlreadyInRoster  = fmt.Errorf("%w: user is already in the roster", ErrValidation)
	ErrRosterFull           = fmt.Errorf("%w: every roster slot already has an accepted player", ErrValidation)
	ErrStartTooEarly        = fmt.Errorf("%w: scrim cannot start before the grace window opens", ErrValidation)
	ErrApplicationResolved  = fmt.Errorf("%w: application is already accepted or rejected", ErrInvalidTransition)
	ErrAttendanceResolved   = fmt.Errorf("%w: attendance is already confirmed or rejected", ErrInvalidTransition)
)

type errorCode struct {
	err  error
	code int
}

// Most specific errors first, kinds last, so a wrapped error resolves to its
// narrowest registered code.
var errorCodes = []errorCode{
	{ErrDuplicateApplication, 520110},
	{ErrRankOutOfWindow, 520111},
	{ErrLatencyTooHigh, 520112},
	{ErrRoleNotInGame, 520113},
	{ErrRoleTaken, 520114},
	{ErrUserAlreadyInRoster, 520115},
	{ErrRosterFull, 520119},
	{ErrStartTooEarly, 520116},
	{ErrApplicationResolved, 520117},
	{ErrAttendanceResolved, 520118},
	{ErrInvalidTransition, 520101},
	{ErrValidation, 520102},
	{ErrNotFound, 520103},
	{ErrSessionLocked, 520104},
	{ErrNothingToUndo, 520105},
}

// ErrorCode returns a code for the error.
// It returns 20002 if the error is not registered.
func ErrorCode(err error) int {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return 20002
}
