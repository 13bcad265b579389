package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdash/backend/internal/auth"
	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/handler"
	"github.com/fleetdash/backend/internal/middleware"
)

func userFixture() domain.User {
	return domain.User{
		ID:        testSession.UserID,
		Email:     testSession.Email,
		FullName:  "Ops Desk",
		CreatedAt: now,
	}
}

// ---- POST /auth/register ---------------------------------------------------

func TestRegister_201(t *testing.T) {
	var gotEmail, gotName, gotPassword string
	svc := &mockAuthServicer{
		register: func(_ context.Context, email, fullName, password string) (domain.User, error) {
			gotEmail, gotName, gotPassword = email, fullName, password
			u := userFixture()
			u.PasswordHash = "$2a$10$secret"
			return u, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"email":     "ops@example.com",
		"full_name": "Ops Desk",
		"password":  "correct horse",
	})
	rec := serve(newHTTPHandler(handler.Deps{Auth: svc}), httptest.NewRequest(http.MethodPost, "/auth/register", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ops@example.com", gotEmail)
	assert.Equal(t, "Ops Desk", gotName)
	assert.Equal(t, "correct horse", gotPassword)
	assert.NotContains(t, rec.Body.String(), "secret", "password hash must never be returned")

	var resp struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testSession.UserID, resp.ID)
}

func TestRegister_409_DuplicateEmail(t *testing.T) {
	svc := &mockAuthServicer{
		register: func(context.Context, string, string, string) (domain.User, error) {
			return domain.User{}, fmt.Errorf("auth.Service.Register: %w", domain.ErrConflict)
		},
	}
	body := jsonBody(t, map[string]any{"email": "ops@example.com", "full_name": "Ops", "password": "12345678"})

	rec := serve(newHTTPHandler(handler.Deps{Auth: svc}), httptest.NewRequest(http.MethodPost, "/auth/register", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Error.Code)
}

func TestRegister_400_UnknownField(t *testing.T) {
	body := jsonBody(t, map[string]any{"email": "ops@example.com", "role": "admin"})

	rec := serve(newHTTPHandler(handler.Deps{Auth: &mockAuthServicer{}}), httptest.NewRequest(http.MethodPost, "/auth/register", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- POST /auth/login ------------------------------------------------------

func TestLogin_200_SetsCookie(t *testing.T) {
	svc := &mockAuthServicer{
		login: func(_ context.Context, email, password string) (auth.LoginResult, error) {
			return auth.LoginResult{Token: "signed.jwt.token", Session: testSession, User: userFixture()}, nil
		},
	}
	body := jsonBody(t, map[string]any{"email": "ops@example.com", "password": "correct horse"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("X-Forwarded-Proto", "https")

	rec := serve(newHTTPHandler(handler.Deps{Auth: svc}), req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token   string `json:"token"`
		Session struct {
			UserID    uuid.UUID `json:"user_id"`
			ExpiresAt time.Time `json:"expires_at"`
		} `json:"session"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "signed.jwt.token", resp.Token)
	assert.Equal(t, testSession.UserID, resp.Session.UserID)
	assert.True(t, testSession.ExpiresAt.Equal(resp.Session.ExpiresAt))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, middleware.SessionCookie, c.Name)
	assert.Equal(t, "signed.jwt.token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestLogin_401_BadCredentials(t *testing.T) {
	svc := &mockAuthServicer{
		login: func(context.Context, string, string) (auth.LoginResult, error) {
			return auth.LoginResult{}, fmt.Errorf("auth.Service.Login: %w: invalid email or password", domain.ErrUnauthorized)
		},
	}
	body := jsonBody(t, map[string]any{"email": "ops@example.com", "password": "nope"})

	rec := serve(newHTTPHandler(handler.Deps{Auth: svc}), httptest.NewRequest(http.MethodPost, "/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decodeError(t, rec).Error.Message)
	assert.Empty(t, rec.Result().Cookies())
}

// ---- POST /auth/logout -----------------------------------------------------

func TestLogout_204_ClearsCookie(t *testing.T) {
	rec := serve(newHTTPHandler(handler.Deps{Auth: &mockAuthServicer{}}), httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Equal(t, "", cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

// ---- GET /auth/session -----------------------------------------------------

func TestGetSession_Authenticated(t *testing.T) {
	rec := serve(newHTTPHandler(handler.Deps{}), authed(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Session *struct {
			UserID uuid.UUID `json:"user_id"`
			Email  string    `json:"email"`
		} `json:"session"`
		Loading  bool   `json:"loading"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Session)
	assert.Equal(t, testSession.UserID, resp.Session.UserID)
	assert.False(t, resp.Loading)
	assert.Empty(t, resp.Redirect)
}

func TestGetSession_Anonymous_ReportsEntryPoint(t *testing.T) {
	h := newHTTPHandler(handler.Deps{AuthEntryPoint: "/login"})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"session":null,"loading":false,"redirect":"/login"}`, rec.Body.String())
}
