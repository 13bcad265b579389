package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/middleware"
)

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionBody struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Session sessionBody  `json:"session"`
	User    userResponse `json:"user"`
}

// sessionResponse mirrors what the dashboard's route guard consumes. Loading
// is always false: by the time the server answers, the session is resolved.
type sessionResponse struct {
	Session  *sessionBody `json:"session"`
	Loading  bool         `json:"loading"`
	Redirect string       `json:"redirect,omitempty"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	u, err := s.auth.Register(r.Context(), body.Email, body.FullName, body.Password)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// Login handles POST /auth/login. The token is returned in the body and also
// set as an HttpOnly cookie for browser clients.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Token:   res.Token,
		Session: sessionToBody(res.Session),
		User:    userToResponse(res.User),
	})
}

// Logout handles POST /auth/logout by expiring the session cookie.
// Bearer tokens stay valid until they expire.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /auth/session. It is public: an absent session is
// reported with the sign-in entry point rather than rejected.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, sessionResponse{Redirect: s.entryPoint})
		return
	}
	body := sessionToBody(sess)
	writeJSON(w, http.StatusOK, sessionResponse{Session: &body})
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func userToResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
}

func sessionToBody(s domain.Session) sessionBody {
	return sessionBody{UserID: s.UserID, Email: s.Email, ExpiresAt: s.ExpiresAt}
}
