package service

import (
	"context"
	"strings"

	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileStore persists farmer profiles
type ProfileStore interface {
	Upsert(ctx context.Context, profile *model.Profile) error
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// ProfileService manages farmer profiles
type ProfileService struct {
	profiles ProfileStore
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles ProfileStore, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// Save creates or updates the profile keyed by email
func (s *ProfileService) Save(ctx context.Context, profile *model.Profile) error {
	if strings.TrimSpace(profile.Email) == "" {
		return ErrMissingIdentity
	}

	return s.profiles.Upsert(ctx, profile)
}

// Get returns the profile for the email
func (s *ProfileService) Get(ctx context.Context, email string) (*model.Profile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrMissingIdentity
	}

	return s.profiles.GetByEmail(ctx, email)
}
