package prefs

import (
	"context"
	"time"
)

// StubRepository is an in-memory Repository for tests. With provisioned set
// to false it behaves like a deployment whose preference table was never
// migrated.
type StubRepository struct {
	provisioned bool
	data        map[string]Preferences
}

func NewStubRepository(provisioned bool) *StubRepository {
	return &StubRepository{
		provisioned: provisioned,
		data:        map[string]Preferences{},
	}
}

func (s *StubRepository) Get(_ context.Context, userID string) (*Preferences, error) {
	if !s.provisioned {
		return nil, ErrNotProvisioned
	}
	prefs, ok := s.data[userID]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

func (s *StubRepository) Upsert(_ context.Context, prefs Preferences) error {
	if !s.provisioned {
		return ErrNotProvisioned
	}
	prefs.UpdatedAt = time.Now()
	s.data[prefs.UserID] = prefs
	return nil
}
