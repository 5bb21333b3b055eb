package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/ids"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type ItemService struct {
	items ItemStore
	users UserStore
	log   zerolog.Logger
}

func NewItemService(items ItemStore, users UserStore, log zerolog.Logger) *ItemService {
	return &ItemService{items: items, users: users, log: log}
}

type CreateItemInput struct {
	Title       string
	Description string
	Price       int
	Image       string
	LargeImage  string
}

func (s *ItemService) Create(ctx context.Context, caller session.Identity, input CreateItemInput) (models.Item, error) {
	if !caller.Authenticated() {
		return models.Item{}, ErrNotAuthenticated
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.Item{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Price < 0 {
		return models.Item{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	owner := caller.UserID
	item, err := s.items.Create(ctx, models.Item{
		ID:          ids.New(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		LargeImage:  input.LargeImage,
		UserID:      &owner,
	})
	if err != nil {
		return models.Item{}, err
	}

	s.log.Info().Str("item_id", item.ID).Str("user_id", owner).Msg("item created")
	return item, nil
}

// Update applies patch to any item; ownership is not checked.
func (s *ItemService) Update(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return models.Item{}, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return s.items.Update(ctx, id, patch)
}

// Delete removes an item the caller owns, or any item when the caller holds
// ADMIN or ITEMDELETE.
func (s *ItemService) Delete(ctx context.Context, caller session.Identity, id string) (models.Item, error) {
	if !caller.Authenticated() {
		return models.Item{}, ErrNotAuthenticated
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return models.Item{}, err
	}

	ownsItem := item.UserID != nil && *item.UserID == caller.UserID
	if !ownsItem {
		user, err := s.users.GetByID(ctx, caller.UserID)
		if err != nil {
			return models.Item{}, fmt.Errorf("load current user: %w", err)
		}
		if err := HasPermission(user, models.PermissionAdmin, models.PermissionItemDelete); err != nil {
			return models.Item{}, err
		}
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return models.Item{}, err
	}

	s.log.Info().Str("item_id", id).Str("user_id", caller.UserID).Bool("owner", ownsItem).Msg("item deleted")
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (models.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	if q.Skip < 0 || q.First < 0 {
		return nil, fmt.Errorf("%w: skip and first must not be negative", ErrInvalidInput)
	}
	return s.items.List(ctx, q)
}

func (s *ItemService) Count(ctx context.Context, filter models.ItemFilter) (int, error) {
	return s.items.Count(ctx, filter)
}
