package prefs

import (
	"context"
	"encoding/json"
	"errors"

	log "github.com/sirupsen/logrus"
)

type ReadResult struct {
	Preferences *Preferences
	// Disabled is set when the backing table is not provisioned. The feature
	// is reported as off instead of failing the request.
	Disabled bool
}

type Service interface {
	Get(ctx context.Context, userID string) (ReadResult, error)
	// Save upserts the document and reports whether it was actually persisted.
	Save(ctx context.Context, userID string, data json.RawMessage) (persisted bool, err error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context, userID string) (ReadResult, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotProvisioned) {
			log.Debug("preference storage not provisioned, reporting disabled")
			return ReadResult{Disabled: true}, nil
		}
		return ReadResult{}, err
	}
	return ReadResult{Preferences: prefs}, nil
}

func (s *ServiceImpl) Save(ctx context.Context, userID string, data json.RawMessage) (bool, error) {
	err := s.repo.Upsert(ctx, Preferences{UserID: userID, Data: data})
	if err != nil {
		if errors.Is(err, ErrNotProvisioned) {
			log.Warnf("preference storage not provisioned, acknowledging write for user %s without persisting", userID)
			return false, nil
		}
		return false, err
	}
	return true, nil
}
