// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scrim

import (
	"fmt"
	"time"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/config"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/metrics"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
)

// Coordinator wires the scrim aggregate to its collaborators: it resolves
// identities through the directory, persists every successful mutation
// through the repository, and hands the notification sink to new scrims.
// Failed operations are not persisted.
type Coordinator struct {
	cfg       *config.Config
	directory UserDirectory
	repo      ScrimRepository
	catalog   GameCatalog
	sink      NotificationSink
	metrics   metrics.ScrimMetrics
}

// NewCoordinator returns a coordinator over the given collaborators. The
// sink and metrics may be nil.
func NewCoordinator(cfg *config.Config, directory UserDirectory, repo ScrimRepository, catalog GameCatalog, sink NotificationSink, m metrics.ScrimMetrics) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		directory: directory,
		repo:      repo,
		catalog:   catalog,
		sink:      sink,
		metrics:   m,
	}
}

// CreateScrim validates the settings against the game catalog and persists a
// new scrim owned by the organizer.
func (c *Coordinator) CreateScrim(rootScope *envelope.Scope, organizerID string, settings models.ScrimSettings) (*Scrim, error) {
	scope := rootScope.NewChildScope("Coordinator.CreateScrim")
	defer scope.Finish()

	organizer, err := c.directory.FindByID(scope, organizerID)
	if err != nil {
		return nil, err
	}

	formats, err := c.catalog.FormatsFor(settings.Game)
	if err != nil {
		return nil, err
	}
	if !formatOffered(formats, settings.Format) {
		return nil, fmt.Errorf("%w: game %s does not offer format %s", models.ErrValidation, settings.Game, settings.Format.Name)
	}

	scrim, err := NewScrim(c.cfg, organizer, settings, WithNotificationSink(c.sink), WithMetrics(c.metrics))
	if err != nil {
		return nil, err
	}
	if err := c.repo.Save(scope, scrim); err != nil {
		return nil, err
	}

	scope.Log.WithField("scrimID", scrim.ID).Info("COORDINATOR: scrim created")
	return scrim, nil
}

// GetScrim loads one scrim.
func (c *Coordinator) GetScrim(rootScope *envelope.Scope, scrimID string) (*Scrim, error) {
	scope := rootScope.NewChildScope("Coordinator.GetScrim")
	defer scope.Finish()

	return c.repo.FindByID(scope, scrimID)
}

// ListScrims returns all persisted scrims.
func (c *Coordinator) ListScrims(rootScope *envelope.Scope) ([]*Scrim, error) {
	scope := rootScope.NewChildScope("Coordinator.ListScrims")
	defer scope.Finish()

	return c.repo.FindAll(scope)
}

// Apply resolves the applicant and applies them to the scrim. The stored
// application, accepted or rejected, is returned after persisting.
func (c *Coordinator) Apply(rootScope *envelope.Scope, scrimID, userID string) (*models.Application, error) {
	scope := rootScope.NewChildScope("Coordinator.Apply")
	defer scope.Finish()

	user, err := c.directory.FindByID(scope, userID)
	if err != nil {
		return nil, err
	}

	var application *models.Application
	err = c.mutate(scope, scrimID, func(scrim *Scrim) error {
		application, err = scrim.Apply(scope, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// ConfirmAttendance records one attendance answer on the scrim.
func (c *Coordinator) ConfirmAttendance(rootScope *envelope.Scope, scrimID, userID string, accept bool) error {
	scope := rootScope.NewChildScope("Coordinator.ConfirmAttendance")
	defer scope.Finish()

	return c.mutate(scope, scrimID, func(scrim *Scrim) error {
		return scrim.ConfirmAttendance(scope, userID, accept)
	})
}

// Start moves the scrim into play.
func (c *Coordinator) Start(rootScope *envelope.Scope, scrimID string, now time.Time) error {
	scope := rootScope.NewChildScope("Coordinator.Start")
	defer scope.Finish()

	return c.mutate(scope, scrimID, func(scrim *Scrim) error {
		return scrim.Start(scope, now)
	})
}

// Finish completes the scrim and returns its statistics.
func (c *Coordinator) Finish(rootScope *envelope.Scope, scrimID string, now time.Time) (*models.ScrimStats, error) {
	scope := rootScope.NewChildScope("Coordinator.Finish")
	defer scope.Finish()

	var stats *models.ScrimStats
	err := c.mutate(scope, scrimID, func(scrim *Scrim) error {
		var ferr error
		stats, ferr = scrim.Finish(scope, now)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Cancel terminates the scrim.
func (c *Coordinator) Cancel(rootScope *envelope.Scope, scrimID string) error {
	scope := rootScope.NewChildScope("Coordinator.Cancel")
	defer scope.Finish()

	return c.mutate(scope, scrimID, func(scrim *Scrim) error {
		return scrim.Cancel(scope)
	})
}

// mutate loads the scrim, runs the operation, and persists only on success.
func (c *Coordinator) mutate(scope *envelope.Scope, scrimID string, op func(*Scrim) error) error {
	scrim, err := c.repo.FindByID(scope, scrimID)
	if err != nil {
		return err
	}
	if err := op(scrim); err != nil {
		return err
	}
	return c.repo.Update(scope, scrim)
}

func formatOffered(formats []models.Format, format models.Format) bool {
	for _, offered := range formats {
		if offered.Name == format.Name && offered.PlayersPerTeam == format.PlayersPerTeam {
			return true
		}
	}
	return false
}
