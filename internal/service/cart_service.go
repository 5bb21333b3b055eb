package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/ids"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type CartService struct {
	carts CartStore
	items ItemStore
	log   zerolog.Logger
}

func NewCartService(carts CartStore, items ItemStore, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, items: items, log: log}
}

// Add puts one unit of itemID in the caller's cart, incrementing the
// existing row when there is one.
func (s *CartService) Add(ctx context.Context, caller session.Identity, itemID string) (models.CartItem, error) {
	if !caller.Authenticated() {
		return models.CartItem{}, ErrNotAuthenticated
	}

	existing, err := s.carts.FindByUserAndItem(ctx, caller.UserID, itemID)
	switch {
	case err == nil:
		s.log.Debug().Str("cart_item_id", existing.ID).Msg("item already in cart, incrementing")
		return s.carts.IncrementQuantity(ctx, existing.ID, 1)
	case !errors.Is(err, repository.ErrCartItemNotFound):
		return models.CartItem{}, err
	}

	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return models.CartItem{}, err
	}

	return s.carts.Create(ctx, models.CartItem{
		ID:       ids.New(),
		UserID:   caller.UserID,
		ItemID:   itemID,
		Quantity: 1,
	})
}

func (s *CartService) Remove(ctx context.Context, caller session.Identity, cartItemID string) (models.CartItem, error) {
	if !caller.Authenticated() {
		return models.CartItem{}, ErrNotAuthenticated
	}

	ci, err := s.carts.GetByID(ctx, cartItemID)
	if err != nil {
		return models.CartItem{}, err
	}
	if ci.UserID != caller.UserID {
		return models.CartItem{}, fmt.Errorf("%w: this cart item is not yours", ErrForbidden)
	}

	if err := s.carts.Delete(ctx, ci.ID); err != nil {
		return models.CartItem{}, err
	}
	return ci, nil
}

func (s *CartService) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.carts.ListByUser(ctx, userID)
}
