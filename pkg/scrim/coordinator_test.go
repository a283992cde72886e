// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package scrim_test

import (
	"testing"
	"time"

	"github.com/onsi/gomega"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/games"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/scrim"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/testsetup"
)

func newCoordinator(users []models.User) (*scrim.Coordinator, *testsetup.StubScrimRepository, *testsetup.StubNotificationSink) {
	repo := testsetup.NewStubScrimRepository()
	sink := &testsetup.StubNotificationSink{}
	directory := testsetup.StubUserDirectory{Users: users}
	coordinator := scrim.NewCoordinator(testsetup.NewConfig(), directory, repo, games.Default(), sink, testsetup.NewMetrics())
	return coordinator, repo, sink
}

func TestCoordinator_createScrim(t *testing.T) {
	g := testsetup.WithGomega(t)
	organizer := testsetup.NewUser(games.Valorant, 1700, 30, models.RoleNone)
	coordinator, repo, _ := newCoordinator([]models.User{organizer})

	settings := models.ScrimSettings{
		Game:         games.Valorant,
		Format:       models.Format{Name: "5v5", PlayersPerTeam: 5},
		ScheduledAt:  time.Now().Add(2 * time.Hour),
		RankMin:      1500,
		RankMax:      2000,
		LatencyMaxMs: 100,
	}

	created, err := coordinator.CreateScrim(g.TestScope, organizer.ID, settings)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(created.StateName()).To(gomega.Equal(models.StateSeeking))
	g.Expect(created.Slots()).To(gomega.Equal(10))
	g.Expect(repo.Saves).To(gomega.Equal(1))

	loaded, err := coordinator.GetScrim(g.TestScope, created.ID)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(loaded.ID).To(gomega.Equal(created.ID))
}

func TestCoordinator_createScrimRejectsUnknownOrganizerAndFormat(t *testing.T) {
	g := testsetup.WithGomega(t)
	organizer := testsetup.NewUser(games.Valorant, 1700, 30, models.RoleNone)
	coordinator, repo, _ := newCoordinator([]models.User{organizer})

	settings := models.ScrimSettings{
		Game:         games.Valorant,
		Format:       models.Format{Name: "5v5", PlayersPerTeam: 5},
		ScheduledAt:  time.Now().Add(2 * time.Hour),
		RankMin:      1500,
		RankMax:      2000,
		LatencyMaxMs: 100,
	}

	_, err := coordinator.CreateScrim(g.TestScope, "nobody", settings)
	g.Expect(err).To(gomega.MatchError(models.ErrNotFound))

	offGameFormat := settings
	offGameFormat.Format = models.Format{Name: "wingman", PlayersPerTeam: 2}
	_, err = coordinator.CreateScrim(g.TestScope, organizer.ID, offGameFormat)
	g.Expect(err).To(gomega.MatchError(models.ErrValidation))

	g.Expect(repo.Saves).To(gomega.Equal(0))
}

func TestCoordinator_applyPersistsOnlyOnSuccess(t *testing.T) {
	g := testsetup.WithGomega(t)
	organizer := testsetup.NewUser(games.Valorant, 1700, 30, models.RoleNone)
	applicant := testsetup.NewUser(games.Valorant, 1650, 40, models.RoleNone)
	coordinator, repo, _ := newCoordinator([]models.User{organizer, applicant})

	settings := models.ScrimSettings{
		Game:         games.Valorant,
		Format:       models.Format{Name: "5v5", PlayersPerTeam: 5},
		ScheduledAt:  time.Now().Add(2 * time.Hour),
		RankMin:      1500,
		RankMax:      2000,
		LatencyMaxMs: 100,
	}
	created, err := coordinator.CreateScrim(g.TestScope, organizer.ID, settings)
	g.Expect(err).ToNot(gomega.HaveOccurred())

	application, err := coordinator.Apply(g.TestScope, created.ID, applicant.ID)
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(application.Status).To(gomega.Equal(models.ApplicationAccepted))
	g.Expect(repo.Updates).To(gomega.Equal(1))

	// duplicate application fails and is not persisted
	_, err = coordinator.Apply(g.TestScope, created.ID, applicant.ID)
	g.Expect(err).To(gomega.MatchError(models.ErrDuplicateApplication))
	g.Expect(repo.Updates).To(gomega.Equal(1))

	// unknown scrim surfaces the repository error
	_, err = coordinator.Apply(g.TestScope, "missing", applicant.ID)
	g.Expect(err).To(gomega.MatchError(models.ErrNotFound))
}

func TestCoordinator_fullLifecycle(t *testing.T) {
	g := testsetup.WithGomega(t)
	organizer := testsetup.NewUser(games.CounterStrike, 1700, 30, models.RoleNone)
	players := []models.User{
		testsetup.NewUser(games.CounterStrike, 1600, 20, "igl"),
		testsetup.NewUser(games.CounterStrike, 1700, 25, "awper"),
		testsetup.NewUser(games.CounterStrike, 1800, 30, "entry"),
		testsetup.NewUser(games.CounterStrike, 1900, 35, "lurker"),
	}
	coordinator, _, sink := newCoordinator(append([]models.User{organizer}, players...))

	when := time.Now().Add(2 * time.Hour)
	created, err := coordinator.CreateScrim(g.TestScope, organizer.ID, models.ScrimSettings{
		Game:         games.CounterStrike,
		Format:       models.Format{Name: "wingman", PlayersPerTeam: 2},
		ScheduledAt:  when,
		RankMin:      1500,
		RankMax:      2000,
		LatencyMaxMs: 100,
	})
	g.Expect(err).ToNot(gomega.HaveOccurred())

	for _, player := range players {
		_, err := coordinator.Apply(g.TestScope, created.ID, player.ID)
		g.Expect(err).ToNot(gomega.HaveOccurred())
	}
	g.Expect(created.StateName()).To(gomega.Equal(models.StateLobbyFormed))

	for _, player := range players {
		g.Expect(coordinator.ConfirmAttendance(g.TestScope, created.ID, player.ID, true)).To(gomega.Succeed())
	}
	g.Expect(created.StateName()).To(gomega.Equal(models.StateConfirmed))

	g.Expect(coordinator.Start(g.TestScope, created.ID, when)).To(gomega.Succeed())

	stats, err := coordinator.Finish(g.TestScope, created.ID, when.Add(time.Hour))
	g.Expect(err).ToNot(gomega.HaveOccurred())
	g.Expect(stats.ConfirmedPlayers).To(gomega.HaveLen(4))
	g.Expect(created.StateName()).To(gomega.Equal(models.StateFinished))

	g.Expect(sink.Seen(models.EventLobbyFormed)).To(gomega.BeTrue())
	g.Expect(sink.Seen(models.EventScrimConfirmed)).To(gomega.BeTrue())
	g.Expect(sink.Seen(models.EventScrimStarted)).To(gomega.BeTrue())
	g.Expect(sink.Seen(models.EventScrimFinished)).To(gomega.BeTrue())
}
