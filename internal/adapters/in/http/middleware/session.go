// backend/internal/adapters/in/http/middleware/session.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the anonymous browser session cookie. The same id
// keys the cart document and the checkout handoff slots.
const SessionCookieName = "boutique_session"

// sessionCookieTTL mirrors the cart TTL so cookie and cart expire together.
const sessionCookieTTL = 7 * 24 * time.Hour

type ctxKey struct{ name string }

var ctxKeySessionID = ctxKey{name: "sessionId"}

// Session resolves the browser session id, minting a uuid cookie on first
// contact. Resolution order:
//
//  1. X-Session-Id header (SPA clients that manage the id themselves)
//  2. boutique_session cookie
//  3. new uuid, set as cookie on the response
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get("X-Session-Id"))

		if sid == "" {
			if c, err := r.Cookie(SessionCookieName); err == nil {
				sid = strings.TrimSpace(c.Value)
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionCookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctxKeySessionID, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session id resolved by Session.
func SessionID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeySessionID)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}
