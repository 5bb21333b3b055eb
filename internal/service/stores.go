package service

import (
	"context"
	"time"

	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByResetToken(ctx context.Context, token string, notBefore time.Time) (models.User, error)
	SetResetToken(ctx context.Context, id string, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, id string, token string, passwordHash string) (models.User, error)
	UpdatePermissions(ctx context.Context, id string, permissions models.Permissions) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type ItemStore interface {
	Create(ctx context.Context, item models.Item) (models.Item, error)
	GetByID(ctx context.Context, id string) (models.Item, error)
	Update(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q models.ItemQuery) ([]models.Item, error)
	Count(ctx context.Context, filter models.ItemFilter) (int, error)
}

type CartStore interface {
	FindByUserAndItem(ctx context.Context, userID string, itemID string) (models.CartItem, error)
	Create(ctx context.Context, ci models.CartItem) (models.CartItem, error)
	IncrementQuantity(ctx context.Context, id string, delta int) (models.CartItem, error)
	GetByID(ctx context.Context, id string) (models.CartItem, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
}

type OrderStore interface {
	CreateFromCart(ctx context.Context, order models.Order, cartItemIDs []string) (models.Order, error)
	GetByID(ctx context.Context, id string) (models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// Mailer hands a message off for delivery.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type PaymentGateway interface {
	Charge(ctx context.Context, req models.ChargeRequest) (models.Charge, error)
}
