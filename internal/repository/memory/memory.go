// Package memory provides in-process implementations of the repositories
// with the same contracts as the Postgres ones, including the unique
// constraints the services rely on.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository"
)

// Store holds every table so cart and order rows can join against items.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	users  map[string]models.User
	items  map[string]models.Item
	carts  map[string]models.CartItem
	orders map[string]models.Order
}

func NewStore() *Store {
	return &Store{
		now:    time.Now,
		users:  make(map[string]models.User),
		items:  make(map[string]models.Item),
		carts:  make(map[string]models.CartItem),
		orders: make(map[string]models.Order),
	}
}

// SetClock overrides the timestamp source used for created/updated columns.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Users() *UserRepository   { return &UserRepository{s: s} }
func (s *Store) Items() *ItemRepository   { return &ItemRepository{s: s} }
func (s *Store) Carts() *CartRepository   { return &CartRepository{s: s} }
func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return models.User{}, repository.ErrEmailTaken
		}
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Permissions = append(models.Permissions(nil), user.Permissions...)
	r.s.users[user.ID] = user
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *UserRepository) FindByResetToken(_ context.Context, token string, notBefore time.Time) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matches []models.User
	for _, u := range r.s.users {
		if u.ResetToken == nil || *u.ResetToken != token || u.ResetTokenExpiry == nil {
			continue
		}
		if u.ResetTokenExpiry.Before(notBefore) {
			continue
		}
		matches = append(matches, u)
	}
	if len(matches) == 0 {
		return models.User{}, repository.ErrUserNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	return matches[0], nil
}

func (r *UserRepository) SetResetToken(_ context.Context, id string, token string, expiry time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiry = &expiry
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) ResetPassword(_ context.Context, id string, token string, passwordHash string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.ResetToken == nil || *u.ResetToken != token {
		return models.User{}, repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiry = nil
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return u, nil
}

func (r *UserRepository) UpdatePermissions(_ context.Context, id string, permissions models.Permissions) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	u.Permissions = append(models.Permissions(nil), permissions...)
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return u, nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepository) ClearExpiredResetTokens(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, u := range r.s.users {
		if u.ResetToken == nil || u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.Before(cutoff) {
			continue
		}
		u.ResetToken, u.ResetTokenExpiry = nil, nil
		r.s.users[id] = u
		n++
	}
	return n, nil
}

type ItemRepository struct{ s *Store }

func (r *ItemRepository) Create(_ context.Context, item models.Item) (models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	item.CreatedAt, item.UpdatedAt = now, now
	r.s.items[item.ID] = item
	return item, nil
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return models.Item{}, repository.ErrItemNotFound
	}
	return item, nil
}

func (r *ItemRepository) Update(_ context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.items[id]
	if !ok {
		return models.Item{}, repository.ErrItemNotFound
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.LargeImage != nil {
		item.LargeImage = *patch.LargeImage
	}
	if !patch.Empty() {
		item.UpdatedAt = r.s.now()
	}
	r.s.items[id] = item
	return item, nil
}

func (r *ItemRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return repository.ErrItemNotFound
	}
	delete(r.s.items, id)
	for cid, ci := range r.s.carts {
		if ci.ItemID == id {
			delete(r.s.carts, cid)
		}
	}
	return nil
}

func (r *ItemRepository) List(_ context.Context, q models.ItemQuery) ([]models.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := r.filtered(q.Filter)
	sort.SliceStable(items, itemLess(items, q.OrderBy))

	if q.Skip > 0 {
		if q.Skip >= len(items) {
			return []models.Item{}, nil
		}
		items = items[q.Skip:]
	}
	if q.First > 0 && q.First < len(items) {
		items = items[:q.First]
	}
	return items, nil
}

func (r *ItemRepository) Count(_ context.Context, filter models.ItemFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.filtered(filter)), nil
}

func (r *ItemRepository) filtered(f models.ItemFilter) []models.Item {
	contains := func(haystack string, needle *string) bool {
		return needle == nil || strings.Contains(strings.ToLower(haystack), strings.ToLower(*needle))
	}

	items := make([]models.Item, 0, len(r.s.items))
	for _, item := range r.s.items {
		if !contains(item.Title, f.TitleContains) || !contains(item.Description, f.DescriptionContains) {
			continue
		}
		if f.Search != nil && !contains(item.Title, f.Search) && !contains(item.Description, f.Search) {
			continue
		}
		items = append(items, item)
	}
	return items
}

func itemLess(items []models.Item, order models.ItemOrder) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case models.ItemOrderCreatedAtAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case models.ItemOrderPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case models.ItemOrderPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case models.ItemOrderTitleAsc:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case models.ItemOrderTitleDesc:
			if a.Title != b.Title {
				return a.Title > b.Title
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}
}

type CartRepository struct{ s *Store }

func (r *CartRepository) FindByUserAndItem(_ context.Context, userID string, itemID string) (models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, ci := range r.s.carts {
		if ci.UserID == userID && ci.ItemID == itemID {
			return ci, nil
		}
	}
	return models.CartItem{}, repository.ErrCartItemNotFound
}

func (r *CartRepository) Create(_ context.Context, ci models.CartItem) (models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.carts {
		if existing.UserID == ci.UserID && existing.ItemID == ci.ItemID {
			existing.Quantity += ci.Quantity
			r.s.carts[id] = existing
			return existing, nil
		}
	}
	ci.CreatedAt = r.s.now()
	ci.Item = nil
	r.s.carts[ci.ID] = ci
	return ci, nil
}

func (r *CartRepository) IncrementQuantity(_ context.Context, id string, delta int) (models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ci, ok := r.s.carts[id]
	if !ok {
		return models.CartItem{}, repository.ErrCartItemNotFound
	}
	ci.Quantity += delta
	r.s.carts[id] = ci
	return ci, nil
}

func (r *CartRepository) GetByID(_ context.Context, id string) (models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ci, ok := r.s.carts[id]
	if !ok {
		return models.CartItem{}, repository.ErrCartItemNotFound
	}
	return ci, nil
}

func (r *CartRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.carts[id]; !ok {
		return repository.ErrCartItemNotFound
	}
	delete(r.s.carts, id)
	return nil
}

func (r *CartRepository) ListByUser(_ context.Context, userID string) ([]models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var cart []models.CartItem
	for _, ci := range r.s.carts {
		if ci.UserID != userID {
			continue
		}
		if item, ok := r.s.items[ci.ItemID]; ok {
			item := item
			ci.Item = &item
		}
		cart = append(cart, ci)
	}
	sort.Slice(cart, func(i, j int) bool {
		if cart[i].CreatedAt.Equal(cart[j].CreatedAt) {
			return cart[i].ID < cart[j].ID
		}
		return cart[i].CreatedAt.Before(cart[j].CreatedAt)
	})
	return cart, nil
}

type OrderRepository struct{ s *Store }

func (r *OrderRepository) CreateFromCart(_ context.Context, order models.Order, cartItemIDs []string) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	order.CreatedAt, order.UpdatedAt = now, now
	order.Items = append([]models.OrderItem(nil), order.Items...)
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.s.orders[order.ID] = order

	for _, id := range cartItemIDs {
		if ci, ok := r.s.carts[id]; ok && ci.UserID == order.UserID {
			delete(r.s.carts, id)
		}
	}
	return order, nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return models.Order{}, repository.ErrOrderNotFound
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var orders []models.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
