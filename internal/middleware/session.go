package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fleetdash/backend/internal/domain"
)

// SessionCookie is the cookie the login endpoint sets alongside returning the token.
const SessionCookie = "fleetdash_session"

// Verifier turns a session token into a session. *auth.Service satisfies it.
type Verifier interface {
	Verify(token string) (domain.Session, error)
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session LoadSession attached to ctx, if any.
func SessionFrom(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.Session)
	return s, ok
}

// Token extracts the session token from an "Authorization: Bearer" header,
// falling back to the session cookie.
func Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// LoadSession attaches the verified session to the request context when the
// request carries a valid token. It never rejects: invalid or missing tokens
// simply leave the context without a session.
func LoadSession(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := Token(r); token != "" {
				if s, err := v.Verify(token); err == nil {
					r = r.WithContext(WithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// unauthenticatedBody is the 401 response. Redirect tells the client where
// to send the user to sign in.
type unauthenticatedBody struct {
	Error    errorDetail `json:"error"`
	Redirect string      `json:"redirect"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequireSession rejects requests that LoadSession did not attach a session
// to. The response is 401 with the entry point in both the Location header
// and the JSON body.
func RequireSession(entryPoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFrom(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Location", entryPoint)
			w.Header().Set("WWW-Authenticate", `Bearer realm="fleetdash"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(unauthenticatedBody{
				Error:    errorDetail{Code: "unauthenticated", Message: "sign in to continue"},
				Redirect: entryPoint,
			})
		})
	}
}
