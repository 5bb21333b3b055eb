package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Require loads the caller, failing for anonymous callers.
func (s *UserService) Require(ctx context.Context, caller session.Identity) (models.User, error) {
	if !caller.Authenticated() {
		return models.User{}, ErrNotAuthenticated
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return models.User{}, fmt.Errorf("load current user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, caller session.Identity) ([]models.User, error) {
	user, err := s.Require(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := HasPermission(user, models.PermissionAdmin, models.PermissionPermissionUpdate); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdatePermissions replaces the target user's permission set.
func (s *UserService) UpdatePermissions(ctx context.Context, caller session.Identity, userID string, permissions models.Permissions) (models.User, error) {
	current, err := s.Require(ctx, caller)
	if err != nil {
		return models.User{}, err
	}
	if err := HasPermission(current, models.PermissionAdmin, models.PermissionPermissionUpdate); err != nil {
		return models.User{}, err
	}

	updated, err := s.users.UpdatePermissions(ctx, userID, permissions.Normalize())
	if err != nil {
		return models.User{}, err
	}

	s.log.Info().
		Str("user_id", updated.ID).
		Str("by", current.ID).
		Strs("permissions", updated.Permissions.Strings()).
		Msg("permissions updated")
	return updated, nil
}
