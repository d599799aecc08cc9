// backend/internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias so wiring code can take
// *middleware.FirebaseAuthClient without importing the firebase package.
type FirebaseAuthClient = fbauth.Client

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// OptionalAuth verifies "Authorization: Bearer <ID_TOKEN>" when present and
// stores uid/email in the context. The storefront stays fully usable for
// anonymous shoppers: a missing or invalid token just means no identity,
// never a 401. Checkout uses the email (when present) for the confirmation
// mail.
type OptionalAuth struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *OptionalAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.FirebaseAuth == nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			log.Printf("[OptionalAuth] path=%s token rejected: %v", r.URL.Path, err)
			next.ServeHTTP(w, r)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUID, uid)
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 && strings.TrimSpace(e) != "" {
				ctx = context.WithValue(ctx, ctxKeyEmail, strings.TrimSpace(e))
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUIDAndEmail returns the verified Firebase uid and email, when a
// valid token accompanied the request.
func CurrentUIDAndEmail(r *http.Request) (uid string, email string, ok bool) {
	vUID := r.Context().Value(ctxKeyUID)
	u, okUID := vUID.(string)
	if !okUID || strings.TrimSpace(u) == "" {
		return "", "", false
	}

	uid = strings.TrimSpace(u)

	vEmail := r.Context().Value(ctxKeyEmail)
	if vEmail != nil {
		if e, okEmail := vEmail.(string); okEmail {
			email = strings.TrimSpace(e)
		}
	}
	return uid, email, true
}
