package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/mail"
	"github.com/romanbrito/onlineStorePrisma/internal/middleware"
	"github.com/romanbrito/onlineStorePrisma/internal/models"
	"github.com/romanbrito/onlineStorePrisma/internal/repository/memory"
	"github.com/romanbrito/onlineStorePrisma/internal/service"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Message) error { return nil }

type okGateway struct{}

func (okGateway) Charge(_ context.Context, req models.ChargeRequest) (models.Charge, error) {
	return models.Charge{ID: "ch_1", Amount: req.Amount, Currency: req.Currency, Status: "succeeded"}, nil
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		FrontendURL: "http://localhost:7777",
		Security: config.SecurityConfig{
			AppSecret:     "test-secret",
			SessionTTL:    365 * 24 * time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Payment: config.PaymentConfig{Currency: "usd", Timeout: time.Second},
	}
	log := zerolog.Nop()
	store := memory.NewStore()

	svc := Services{
		Auth:   service.NewAuthService(store.Users(), nopMailer{}, cfg, log),
		Users:  service.NewUserService(store.Users(), log),
		Items:  service.NewItemService(store.Items(), store.Users(), log),
		Carts:  service.NewCartService(store.Carts(), store.Items(), log),
		Orders: service.NewOrderService(store.Orders(), store.Carts(), store.Users(), okGateway{}, cfg, log),
	}
	schema := NewSchema(NewResolver(svc, cfg, log))

	router := gin.New()
	router.Use(middleware.Session(cfg, log))
	router.POST("/graphql", Handler(schema, log))
	return &testServer{router: router, store: store}
}

func (s *testServer) do(t *testing.T, token string, query string, vars map[string]interface{}) (gqlResponse, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	var resp gqlResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

const signupMutation = `mutation($email: String!, $password: String!, $name: String!) {
  signup(email: $email, password: $password, name: $name) { id email name permissions }
}`

func (s *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	resp, w := s.do(t, "", signupMutation, map[string]interface{}{"email": email, "password": "p1", "name": "Test"})
	if len(resp.Errors) > 0 {
		t.Fatalf("signup: %s", resp.Errors[0].Message)
	}
	var user struct{ ID string }
	decode(t, resp.Data["signup"], &user)
	return user.ID, sessionCookie(t, w).Value
}

func TestSignupThenMe(t *testing.T) {
	s := newTestServer(t)

	resp, w := s.do(t, "", signupMutation, map[string]interface{}{
		"email": "Test@X.com", "password": "p1", "name": "Test",
	})
	if len(resp.Errors) > 0 {
		t.Fatalf("signup: %s", resp.Errors[0].Message)
	}

	var created struct {
		ID          string
		Email       string
		Permissions []string
	}
	decode(t, resp.Data["signup"], &created)
	if created.Email != "test@x.com" {
		t.Fatalf("email = %q, want test@x.com", created.Email)
	}
	if len(created.Permissions) != 1 || created.Permissions[0] != "USER" {
		t.Fatalf("permissions = %v", created.Permissions)
	}

	cookie := sessionCookie(t, w)
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.MaxAge != 31536000 {
		t.Errorf("cookie max-age = %d, want 31536000", cookie.MaxAge)
	}

	resp, _ = s.do(t, cookie.Value, `{ me { id email } }`, nil)
	var me struct {
		ID    string
		Email string
	}
	decode(t, resp.Data["me"], &me)
	if me.ID != created.ID || me.Email != "test@x.com" {
		t.Fatalf("me = %+v, want %s", me, created.ID)
	}
}

func TestMeAnonymous(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, "", `{ me { id } }`, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected error %s", resp.Errors[0].Message)
	}
	if string(resp.Data["me"]) != "null" {
		t.Fatalf("me = %s, want null", resp.Data["me"])
	}
}

func TestSigninErrorsAreDistinct(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "jo@x.com")

	const signin = `mutation($email: String!, $password: String!) { signin(email: $email, password: $password) { id } }`

	resp, _ := s.do(t, "", signin, map[string]interface{}{"email": "jo@x.com", "password": "bad"})
	if len(resp.Errors) != 1 || resp.Errors[0].Message != service.ErrInvalidPassword.Error() {
		t.Fatalf("wrong password errors = %+v", resp.Errors)
	}

	resp, _ = s.do(t, "", signin, map[string]interface{}{"email": "nobody@x.com", "password": "p1"})
	if len(resp.Errors) != 1 || resp.Errors[0].Message != service.ErrNoSuchUser.Error() {
		t.Fatalf("unknown email errors = %+v", resp.Errors)
	}
	if resp.Errors[0].Extensions["code"] != "NOT_FOUND" {
		t.Fatalf("code = %v", resp.Errors[0].Extensions["code"])
	}

	resp, w := s.do(t, "", signin, map[string]interface{}{"email": "JO@x.com", "password": "p1"})
	if len(resp.Errors) > 0 {
		t.Fatalf("signin: %s", resp.Errors[0].Message)
	}
	sessionCookie(t, w)
}

func TestSignoutClearsCookie(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "out@x.com")

	resp, w := s.do(t, token, `mutation { signout { message } }`, nil)
	var msg struct{ Message string }
	decode(t, resp.Data["signout"], &msg)
	if msg.Message != "Goodbye!" {
		t.Fatalf("message = %q", msg.Message)
	}
	if c := sessionCookie(t, w); c.MaxAge >= 0 || c.Value != "" {
		t.Fatalf("cookie not cleared: %+v", c)
	}
}

func TestAddToCartTwice(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "cart@x.com")

	resp, _ := s.do(t, token, `mutation { createItem(title: "Hat", description: "Warm", price: 1500) { id } }`, nil)
	var item struct{ ID string }
	decode(t, resp.Data["createItem"], &item)

	const add = `mutation($id: ID!) { addToCart(id: $id) { id quantity } }`
	for i := 0; i < 2; i++ {
		resp, _ = s.do(t, token, add, map[string]interface{}{"id": item.ID})
		if len(resp.Errors) > 0 {
			t.Fatalf("addToCart: %s", resp.Errors[0].Message)
		}
	}

	resp, _ = s.do(t, token, `{ me { cart { quantity item { id title } } } }`, nil)
	var me struct {
		Cart []struct {
			Quantity int
			Item     struct{ ID, Title string }
		}
	}
	decode(t, resp.Data["me"], &me)
	if len(me.Cart) != 1 || me.Cart[0].Quantity != 2 || me.Cart[0].Item.ID != item.ID {
		t.Fatalf("cart = %+v", me.Cart)
	}
}

func TestDeleteItemForbiddenForStranger(t *testing.T) {
	s := newTestServer(t)
	_, owner := s.signup(t, "owner@x.com")
	_, stranger := s.signup(t, "stranger@x.com")

	resp, _ := s.do(t, owner, `mutation { createItem(title: "Hat", description: "Warm", price: 1500) { id } }`, nil)
	var item struct{ ID string }
	decode(t, resp.Data["createItem"], &item)

	const del = `mutation($id: ID!) { deleteItem(id: $id) { id } }`
	resp, _ = s.do(t, stranger, del, map[string]interface{}{"id": item.ID})
	if len(resp.Errors) != 1 || resp.Errors[0].Extensions["code"] != "FORBIDDEN" {
		t.Fatalf("stranger delete errors = %+v", resp.Errors)
	}

	resp, _ = s.do(t, owner, del, map[string]interface{}{"id": item.ID})
	if len(resp.Errors) > 0 {
		t.Fatalf("owner delete: %s", resp.Errors[0].Message)
	}
}

func TestItemsQueries(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "shop@x.com")
	for _, title := range []string{"Red Hat", "Blue Hat", "Scarf"} {
		resp, _ := s.do(t, token, `mutation($t: String!) { createItem(title: $t, description: "d", price: 100) { id } }`,
			map[string]interface{}{"t": title})
		if len(resp.Errors) > 0 {
			t.Fatalf("createItem: %s", resp.Errors[0].Message)
		}
	}

	resp, _ := s.do(t, "", `{
  items(where: {title_contains: "hat"}, orderBy: title_ASC) { title image user { email } }
  itemsConnection(where: {title_contains: "hat"}) { aggregate { count } }
}`, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("items: %s", resp.Errors[0].Message)
	}

	var items []struct {
		Title string
		Image *string
		User  struct{ Email string }
	}
	decode(t, resp.Data["items"], &items)
	if len(items) != 2 || items[0].Title != "Blue Hat" || items[1].Title != "Red Hat" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Image != nil || items[0].User.Email != "shop@x.com" {
		t.Fatalf("unexpected item fields %+v", items[0])
	}

	var conn struct{ Aggregate struct{ Count int } }
	decode(t, resp.Data["itemsConnection"], &conn)
	if conn.Aggregate.Count != 2 {
		t.Fatalf("count = %d", conn.Aggregate.Count)
	}

	resp, _ = s.do(t, "", `{ item(where: {id: "missing"}) { id } }`, nil)
	if string(resp.Data["item"]) != "null" {
		t.Fatalf("missing item = %s", resp.Data["item"])
	}
}

func TestCreateOrderEmptiesCart(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "buyer@x.com")

	resp, _ := s.do(t, token, `mutation { createItem(title: "Hat", description: "Warm", price: 1250) { id } }`, nil)
	var item struct{ ID string }
	decode(t, resp.Data["createItem"], &item)
	for i := 0; i < 2; i++ {
		s.do(t, token, `mutation($id: ID!) { addToCart(id: $id) { id } }`, map[string]interface{}{"id": item.ID})
	}

	resp, _ = s.do(t, token, `mutation { createOrder(token: "tok_visa") { id total charge items { title quantity price } } }`, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("createOrder: %s", resp.Errors[0].Message)
	}
	var order struct {
		ID     string
		Total  int
		Charge string
		Items  []struct {
			Title    string
			Quantity int
			Price    int
		}
	}
	decode(t, resp.Data["createOrder"], &order)
	if order.Total != 2500 || order.Charge != "ch_1" || len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("order = %+v", order)
	}

	resp, _ = s.do(t, token, `{ me { cart { id } } orders { id } }`, nil)
	var me struct{ Cart []struct{ ID string } }
	decode(t, resp.Data["me"], &me)
	if len(me.Cart) != 0 {
		t.Fatalf("cart not emptied: %+v", me.Cart)
	}
	var orders []struct{ ID string }
	decode(t, resp.Data["orders"], &orders)
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("orders = %+v", orders)
	}

	resp, _ = s.do(t, token, `mutation { createOrder(token: "tok_visa") { id } }`, nil)
	if len(resp.Errors) != 1 || resp.Errors[0].Message != service.ErrEmptyCart.Error() {
		t.Fatalf("second order errors = %+v", resp.Errors)
	}
}

func TestUpdatePermissionsRejectsUnknownLabel(t *testing.T) {
	s := newTestServer(t)
	adminID, admin := s.signup(t, "admin@x.com")
	if _, err := s.store.Users().UpdatePermissions(context.Background(), adminID, models.Permissions{models.PermissionAdmin}); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	targetID, _ := s.signup(t, "target@x.com")

	const update = `mutation($perms: [Permission!]!, $id: ID!) { updatePermissions(permissions: $perms, userId: $id) { permissions } }`
	resp, _ := s.do(t, admin, update, map[string]interface{}{"perms": []string{"ITEMCREATE", "USER"}, "id": targetID})
	if len(resp.Errors) > 0 {
		t.Fatalf("updatePermissions: %s", resp.Errors[0].Message)
	}
	var user struct{ Permissions []string }
	decode(t, resp.Data["updatePermissions"], &user)
	if len(user.Permissions) != 2 || user.Permissions[0] != "ITEMCREATE" {
		t.Fatalf("permissions = %v", user.Permissions)
	}

	resp, _ = s.do(t, admin, `{ users { email } }`, nil)
	var users []struct{ Email string }
	decode(t, resp.Data["users"], &users)
	if len(users) != 2 {
		t.Fatalf("users = %+v", users)
	}

	resp, _ = s.do(t, admin, update, map[string]interface{}{"perms": []string{"ROOT"}, "id": targetID})
	if len(resp.Errors) == 0 {
		t.Fatal("expected an error for an unknown permission")
	}
}

func TestBadRequestBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSignupLongPasswordIsBadUserInput(t *testing.T) {
	s := newTestServer(t)
	resp, _ := s.do(t, "", signupMutation, map[string]interface{}{
		"email":    "long@x.com",
		"password": strings.Repeat("a", 80),
		"name":     "Long",
	})
	if len(resp.Errors) != 1 {
		t.Fatalf("errors = %+v", resp.Errors)
	}
	if code := resp.Errors[0].Extensions["code"]; code != "BAD_USER_INPUT" {
		t.Fatalf("code = %v, want BAD_USER_INPUT", code)
	}
}
