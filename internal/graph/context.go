package graph

import (
	"context"
	"net/http"

	"github.com/romanbrito/onlineStorePrisma/internal/session"
)

type writerKey struct{}

func withResponseWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

func responseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(writerKey{}).(http.ResponseWriter)
	return w
}

func (r *Resolver) setSessionCookie(ctx context.Context, token string) {
	w := responseWriter(ctx)
	if w == nil {
		r.log.Warn().Msg("no response writer in context, session cookie not set")
		return
	}
	session.SetCookie(w, token, session.CookieOptions{
		MaxAge: r.cfg.Security.SessionTTL,
		Secure: r.cfg.Security.SecureCookies,
	})
}

func (r *Resolver) clearSessionCookie(ctx context.Context) {
	if w := responseWriter(ctx); w != nil {
		session.ClearCookie(w, r.cfg.Security.SecureCookies)
	}
}
