package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fleetdash/backend/internal/auth"
	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/handler"
	"github.com/fleetdash/backend/internal/service"
)

// Test doubles for the servicer interfaces. Set only the method fields your
// test needs; calling an unset one panics, which flags an unexpected call.

type mockVehicleServicer struct {
	create  func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list    func(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	markers func(ctx context.Context, now time.Time) ([]service.Marker, error)
	update  func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleServicer) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.list(ctx, p)
}
func (m *mockVehicleServicer) Markers(ctx context.Context, now time.Time) ([]service.Marker, error) {
	return m.markers(ctx, now)
}
func (m *mockVehicleServicer) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockTripServicer struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, f, p)
}
func (m *mockTripServicer) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockDocumentServicer struct {
	create   func(ctx context.Context, d domain.Document) (domain.Document, error)
	getByID  func(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error)
	list     func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error)
	update   func(ctx context.Context, d domain.Document) (domain.Document, error)
	delete   func(ctx context.Context, vehicleID, documentID uuid.UUID) error
	expiring func(ctx context.Context, within int, now time.Time) ([]domain.Document, error)
}

func (m *mockDocumentServicer) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	return m.create(ctx, d)
}
func (m *mockDocumentServicer) GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, vehicleID, documentID)
}
func (m *mockDocumentServicer) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error) {
	return m.list(ctx, vehicleID)
}
func (m *mockDocumentServicer) Update(ctx context.Context, d domain.Document) (domain.Document, error) {
	return m.update(ctx, d)
}
func (m *mockDocumentServicer) Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error {
	return m.delete(ctx, vehicleID, documentID)
}
func (m *mockDocumentServicer) Expiring(ctx context.Context, within int, now time.Time) ([]domain.Document, error) {
	return m.expiring(ctx, within, now)
}

type mockOverviewServicer struct {
	overview func(ctx context.Context, now time.Time) (domain.Overview, error)
}

func (m *mockOverviewServicer) Overview(ctx context.Context, now time.Time) (domain.Overview, error) {
	return m.overview(ctx, now)
}

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ComplianceRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ComplianceRow, error) {
	return m.export(ctx)
}

type mockAuthServicer struct {
	register func(ctx context.Context, email, fullName, password string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (auth.LoginResult, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	return m.register(ctx, email, fullName, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (auth.LoginResult, error) {
	return m.login(ctx, email, password)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.VehicleServicer  = (*mockVehicleServicer)(nil)
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.DocumentServicer = (*mockDocumentServicer)(nil)
	_ handler.OverviewServicer = (*mockOverviewServicer)(nil)
	_ handler.ExportServicer   = (*mockExportServicer)(nil)
	_ handler.AuthServicer     = (*mockAuthServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

const validToken = "valid-token"

// now is pinned so expiry labels in responses are deterministic.
var now = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

var testSession = domain.Session{
	UserID:    uuid.MustParse("9b2f1c3e-2d4a-4e5f-8a6b-7c8d9e0f1a2b"),
	Email:     "ops@example.com",
	ExpiresAt: now.Add(12 * time.Hour),
}

// stubVerifier accepts validToken only.
type stubVerifier struct{}

func (stubVerifier) Verify(token string) (domain.Session, error) {
	if token != validToken {
		return domain.Session{}, errors.New("invalid token")
	}
	return testSession, nil
}

// newHTTPHandler wires a Server the same way main.go does, minus the
// ambient middleware. Now and Log are filled in when unset.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Now == nil {
		d.Now = func() time.Time { return now }
	}
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return handler.NewServer(d).Handler(stubVerifier{})
}

// authed builds a request carrying a valid bearer token.
func authed(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+validToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody is the decoded shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Redirect string `json:"redirect"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
