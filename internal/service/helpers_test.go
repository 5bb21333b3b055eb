package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository/memory"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeGateway struct {
	requests []models.ChargeRequest
	err      error
}

func (g *fakeGateway) Charge(_ context.Context, req models.ChargeRequest) (models.Charge, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return models.Charge{}, g.err
	}
	return models.Charge{ID: "ch_test", Amount: req.Amount, Currency: req.Currency, Status: "succeeded"}, nil
}

type fakeObjectStore struct {
	keys  []string
	types []string
	err   error
}

func (s *fakeObjectStore) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	s.keys = append(s.keys, key)
	s.types = append(s.types, contentType)
	return "https://cdn.test/" + key, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	cfg     *config.AppConfig
	store   *memory.Store
	clock   *testClock
	mailer  *fakeMailer
	gateway *fakeGateway
	objects *fakeObjectStore

	auth   *AuthService
	users  *UserService
	items  *ItemService
	carts  *CartService
	orders *OrderService
	images *ImageService
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		FrontendURL: "http://localhost:7777",
		Security: config.SecurityConfig{
			AppSecret:     "test-secret",
			SessionTTL:    365 * 24 * time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Mail:    config.MailConfig{From: "shop@example.com"},
		Payment: config.PaymentConfig{Currency: "usd", Timeout: time.Second},
		Storage: config.StorageConfig{MaxBytes: 1024},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testConfig()
	clock := &testClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	store.SetClock(clock.Now)
	log := zerolog.Nop()

	env := &testEnv{
		cfg:     cfg,
		store:   store,
		clock:   clock,
		mailer:  &fakeMailer{},
		gateway: &fakeGateway{},
		objects: &fakeObjectStore{},
	}
	env.auth = NewAuthService(store.Users(), env.mailer, cfg, log)
	env.auth.now = clock.Now
	env.users = NewUserService(store.Users(), log)
	env.items = NewItemService(store.Items(), store.Users(), log)
	env.carts = NewCartService(store.Carts(), store.Items(), log)
	env.orders = NewOrderService(store.Orders(), store.Carts(), store.Users(), env.gateway, cfg, log)
	env.images = NewImageService(env.objects, cfg.Storage.MaxBytes, log)
	env.images.now = clock.Now
	return env
}

func (e *testEnv) signup(t *testing.T, email string) session.Identity {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), SignupInput{Email: email, Password: "secret", Name: "Test User"})
	if err != nil {
		t.Fatalf("signup %s: %v", email, err)
	}
	return session.Identity{UserID: res.User.ID}
}

func (e *testEnv) grant(t *testing.T, id session.Identity, perms ...models.Permission) {
	t.Helper()
	if _, err := e.store.Users().UpdatePermissions(context.Background(), id.UserID, perms); err != nil {
		t.Fatalf("grant: %v", err)
	}
}

func (e *testEnv) createItem(t *testing.T, owner session.Identity, title string, price int) models.Item {
	t.Helper()
	item, err := e.items.Create(context.Background(), owner, CreateItemInput{Title: title, Description: title + " description", Price: price})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}
