// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"fmt"
	"sync"

	"github.com/AccelByte/extend-scrim-coordinator/pkg/envelope"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/models"
	"github.com/AccelByte/extend-scrim-coordinator/pkg/scrim"
)

// StubUserDirectory resolves users from a fixed list.
type StubUserDirectory struct {
	Users []models.User
}

func (s StubUserDirectory) FindByID(_ *envelope.Scope, id string) (models.User, error) {
	for _, user := range s.Users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
}

func (s StubUserDirectory) FindByUsername(_ *envelope.Scope, username string) (models.User, error) {
	for _, user := range s.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, fmt.Errorf("%w: username %s", models.ErrNotFound, username)
}

// StubScrimRepository keeps scrims in a map. Aggregates are shared by
// reference; good enough for single-goroutine tests.
type StubScrimRepository struct {
	mu      sync.Mutex
	scrims  map[string]*scrim.Scrim
	Saves   int
	Updates int
}

func NewStubScrimRepository() *StubScrimRepository {
	return &StubScrimRepository{scrims: map[string]*scrim.Scrim{}}
}

func (s *StubScrimRepository) Save(_ *envelope.Scope, sc *scrim.Scrim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrims[sc.ID] = sc
	s.Saves++
	return nil
}

func (s *StubScrimRepository) FindByID(_ *envelope.Scope, id string) (*scrim.Scrim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found, ok := s.scrims[id]
	if !ok {
		return nil, fmt.Errorf("%w: scrim %s", models.ErrNotFound, id)
	}
	return found, nil
}

func (s *StubScrimRepository) Update(_ *envelope.Scope, sc *scrim.Scrim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scrims[sc.ID]; !ok {
		return fmt.Errorf("%w: scrim %s", models.ErrNotFound, sc.ID)
	}
	s.scrims[sc.ID] = sc
	s.Updates++
	return nil
}

func (s *StubScrimRepository) Delete(_ *envelope.Scope, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scrims, id)
	return nil
}

func (s *StubScrimRepository) FindAll(_ *envelope.Scope) ([]*scrim.Scrim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*scrim.Scrim, 0, len(s.scrims))
	for _, sc := range s.scrims {
		all = append(all, sc)
	}
	return all, nil
}

// RecordedEvent is one notification observed by the stub sink.
type RecordedEvent struct {
	Event      models.LifecycleEvent
	ScrimID    string
	Recipients []string
}

// StubNotificationSink records delivered events. Set FailWith to simulate a
// broken delivery channel.
type StubNotificationSink struct {
	Events   []RecordedEvent
	FailWith error
}

func (s *StubNotificationSink) Notify(_ *envelope.Scope, event models.LifecycleEvent, sc *scrim.Scrim, recipients []string) error {
	s.Events = append(s.Events, RecordedEvent{Event: event, ScrimID: sc.ID, Recipients: recipients})
	return s.FailWith
}

// Seen reports whether the sink observed the event at least once.
func (s *StubNotificationSink) Seen(event models.LifecycleEvent) bool {
	for _, recorded := range s.Events {
		if recorded.Event == event {
			return true
		}
	}
	return false
}

// StubBehaviorSource serves behavior records from a map keyed by user ID.
type StubBehaviorSource struct {
	Records map[string]models.BehaviorRecord
}

func (s StubBehaviorSource) RecordFor(userID string) (models.BehaviorRecord, bool) {
	record, ok := s.Records[userID]
	return record, ok
}
