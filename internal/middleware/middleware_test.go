package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
	"github.com/romanbrito/onlineStorePrisma/internal/security"
	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{Security: config.SecurityConfig{AppSecret: "test-secret", SessionTTL: time.Hour}}
}

func whoAmI(c *gin.Context) {
	c.String(http.StatusOK, session.FromContext(c.Request.Context()).UserID)
}

func TestSessionMiddleware(t *testing.T) {
	cfg := testConfig()
	valid, err := security.GenerateSessionToken(cfg.Security.AppSecret, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}
	forged, _ := security.GenerateSessionToken("other-secret", "user-1", time.Hour)

	router := gin.New()
	router.Use(Session(cfg, zerolog.Nop()))
	router.GET("/", whoAmI)

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{name: "valid cookie", cookie: valid, want: "user-1"},
		{name: "no cookie", want: ""},
		{name: "forged cookie", cookie: forged, want: ""},
		{name: "garbage cookie", cookie: "abc", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, the request must never be rejected", w.Code)
			}
			if w.Body.String() != tt.want {
				t.Fatalf("identity = %q, want %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	cfg := testConfig()
	token, _ := security.GenerateSessionToken(cfg.Security.AppSecret, "user-1", time.Hour)

	router := gin.New()
	router.Use(Session(cfg, zerolog.Nop()), RequireIdentity())
	router.GET("/", whoAmI)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "user-1" {
		t.Fatalf("authenticated: status %d body %q", w.Code, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS("http://localhost:7777/"))
	router.POST("/graphql", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	preflight.Header.Set("Origin", "http://localhost:7777")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, preflight)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:7777" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow credentials = %q", got)
	}

	foreign := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, foreign)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(zerolog.Nop()), Recovery(zerolog.Nop()))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("request id = %q", got)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("generated request id missing")
	}
}

func TestRecoveryGraphQLShape(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.POST("/graphql", func(c *gin.Context) { panic("resolver blew up") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"errors":[{"message":"internal server error"}]`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLoggerUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	router := gin.New()
	router.Use(RequestID(log), Logger(log))
	router.POST("/graphql", func(c *gin.Context) {
		c.Set(OperationKey, "Me")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set(requestIDHeader, "req-log")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"request_id":"req-log"`, `"operation":"Me"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %s", want, out)
		}
	}
}
