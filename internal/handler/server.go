// Package handler implements the HTTP handlers for the fleet dashboard API.
// All handlers are methods on Server. Methods are split into resource files
// (vehicle.go, trip.go, ...) but share the same Server so they can reach its
// dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/fleetdash/backend/internal/auth"
	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/middleware"
	"github.com/fleetdash/backend/internal/service"
)

// The servicer interfaces are defined here, in the consumer package, so
// handler tests can inject hand-written mocks without a database.

// VehicleServicer defines the vehicle operations the handlers depend on.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	Markers(ctx context.Context, now time.Time) ([]service.Marker, error)
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentServicer defines the document operations the handlers depend on.
type DocumentServicer interface {
	Create(ctx context.Context, d domain.Document) (domain.Document, error)
	GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error)
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error)
	Update(ctx context.Context, d domain.Document) (domain.Document, error)
	Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error
	Expiring(ctx context.Context, within int, now time.Time) ([]domain.Document, error)
}

// OverviewServicer builds the dashboard summary.
type OverviewServicer interface {
	Overview(ctx context.Context, now time.Time) (domain.Overview, error)
}

// ExportServicer builds the compliance export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ComplianceRow, error)
}

// AuthServicer registers users and issues sessions.
type AuthServicer interface {
	Register(ctx context.Context, email, fullName, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

// Pinger reports whether a backing dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps lists everything the Server needs. Nil services leave their routes
// unregistered, which keeps narrow handler tests short.
type Deps struct {
	Vehicles  VehicleServicer
	Trips     TripServicer
	Documents DocumentServicer
	Overview  OverviewServicer
	Export    ExportServicer
	Auth      AuthServicer
	DB        Pinger

	Log            *slog.Logger
	Now            func() time.Time
	DefaultLocale  language.Tag
	AuthEntryPoint string
}

// Server holds the handler dependencies.
type Server struct {
	vehicles  VehicleServicer
	trips     TripServicer
	documents DocumentServicer
	overview  OverviewServicer
	export    ExportServicer
	auth      AuthServicer
	db        Pinger

	log        *slog.Logger
	now        func() time.Time
	locale     language.Tag
	entryPoint string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	s := &Server{
		vehicles:   d.Vehicles,
		trips:      d.Trips,
		documents:  d.Documents,
		overview:   d.Overview,
		export:     d.Export,
		auth:       d.Auth,
		db:         d.DB,
		log:        d.Log,
		now:        d.Now,
		locale:     d.DefaultLocale,
		entryPoint: d.AuthEntryPoint,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.locale == language.Und {
		s.locale = language.English
	}
	if s.entryPoint == "" {
		s.entryPoint = "/login"
	}
	return s
}

// Routes mounts every route on r. The caller installs middleware.LoadSession
// (and the rest of the global middleware) on r beforehand; Routes adds the
// session requirement to the protected group itself.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.auth != nil {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/logout", s.Logout)
	}
	r.Get("/auth/session", s.GetSession)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.entryPoint))

		if s.overview != nil {
			r.Get("/overview", s.GetOverview)
		}
		if s.export != nil {
			r.Get("/export", s.GetExport)
		}
		if s.vehicles != nil {
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.ListVehicles)
				r.Post("/", s.CreateVehicle)
				r.Get("/markers", s.ListMarkers)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetVehicle)
					r.Put("/", s.UpdateVehicle)
					r.Delete("/", s.DeleteVehicle)
					if s.documents != nil {
						r.Get("/documents", s.ListDocuments)
						r.Post("/documents", s.CreateDocument)
						r.Get("/documents/{docID}", s.GetDocument)
						r.Put("/documents/{docID}", s.UpdateDocument)
						r.Delete("/documents/{docID}", s.DeleteDocument)
					}
				})
			})
		}
		if s.documents != nil {
			r.Get("/documents/expiring", s.ListExpiringDocuments)
		}
		if s.trips != nil {
			r.Route("/trips", func(r chi.Router) {
				r.Get("/", s.ListTrips)
				r.Post("/", s.CreateTrip)
				r.Get("/{id}", s.GetTrip)
				r.Put("/{id}", s.UpdateTrip)
				r.Delete("/{id}", s.DeleteTrip)
			})
		}
	})
}

// Handler returns a standalone router with session loading installed, for
// callers that do not need the full middleware stack.
func (s *Server) Handler(v middleware.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoadSession(v))
	s.Routes(r)
	return r
}
