package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/ids"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

// MaxOrderTotal is the largest total an order may carry. Totals are exposed
// as a 32-bit GraphQL Int.
const MaxOrderTotal = math.MaxInt32

type OrderService struct {
	orders   OrderStore
	carts    CartStore
	users    UserStore
	payments PaymentGateway
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewOrderService(
	orders OrderStore,
	carts CartStore,
	users UserStore,
	payments PaymentGateway,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		users:    users,
		payments: payments,
		cfg:      cfg,
		log:      log,
	}
}

// Create charges the caller's cart total against paymentToken, then records
// the order and empties the charged cart rows.
func (s *OrderService) Create(ctx context.Context, caller session.Identity, paymentToken string) (models.Order, error) {
	if !caller.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}
	if strings.TrimSpace(paymentToken) == "" {
		return models.Order{}, fmt.Errorf("%w: payment token is required", ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return models.Order{}, fmt.Errorf("load current user: %w", err)
	}

	cart, err := s.carts.ListByUser(ctx, user.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("load cart: %w", err)
	}

	var (
		chargeable []models.CartItem
		cartIDs    []string
	)
	for _, ci := range cart {
		if ci.Item == nil {
			continue
		}
		chargeable = append(chargeable, ci)
		cartIDs = append(cartIDs, ci.ID)
	}
	if len(chargeable) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	amount := models.CartTotal(chargeable)
	if amount > MaxOrderTotal {
		return models.Order{}, fmt.Errorf("%w: order total %d exceeds %d", ErrInvalidInput, amount, MaxOrderTotal)
	}
	s.log.Info().Str("user_id", user.ID).Int64("amount", amount).Msg("charging cart")

	charge, err := s.charge(ctx, models.ChargeRequest{
		Amount:      amount,
		Currency:    s.cfg.Payment.Currency,
		Source:      paymentToken,
		Description: fmt.Sprintf("Order for %s", user.Email),
		Email:       user.Email,
	})
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:       ids.New(),
		UserID:   user.ID,
		Total:    amount,
		ChargeID: charge.ID,
		Items:    make([]models.OrderItem, 0, len(chargeable)),
	}
	for _, ci := range chargeable {
		order.Items = append(order.Items, models.OrderItem{
			ID:          ids.New(),
			Title:       ci.Item.Title,
			Description: ci.Item.Description,
			Price:       ci.Item.Price,
			Image:       ci.Item.Image,
			LargeImage:  ci.Item.LargeImage,
			Quantity:    ci.Quantity,
		})
	}

	created, err := s.orders.CreateFromCart(ctx, order, cartIDs)
	if err != nil {
		s.log.Error().Err(err).Str("charge_id", charge.ID).Str("user_id", user.ID).Msg("charge succeeded but order was not saved")
		return models.Order{}, fmt.Errorf("save order: %w", err)
	}
	return created, nil
}

func (s *OrderService) charge(ctx context.Context, req models.ChargeRequest) (models.Charge, error) {
	if s.cfg.Payment.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Payment.Timeout)
		defer cancel()
	}
	return s.payments.Charge(ctx, req)
}

// Get returns an order the caller owns, or any order for ADMIN.
func (s *OrderService) Get(ctx context.Context, caller session.Identity, id string) (models.Order, error) {
	if !caller.Authenticated() {
		return models.Order{}, ErrNotAuthenticated
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID == caller.UserID {
		return order, nil
	}

	user, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.Order{}, ErrNotAuthenticated
		}
		return models.Order{}, err
	}
	if err := HasPermission(user, models.PermissionAdmin); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, caller session.Identity) ([]models.Order, error) {
	if !caller.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, caller.UserID)
}
