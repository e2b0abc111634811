package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-dashboard-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-dashboard-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// JWTService is nil when auth is disabled
	JWTService jwt.Service
	// Events mounts the reload stream when set
	Events EventsHandler
}

// tokenFromQuery lets EventSource clients, which cannot set headers, pass
// the access token as ?token=.
func tokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

func NewRouter(opts RouterOptions, attendanceHandler AttendanceHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1/attendance", func(r chi.Router) {
		if opts.Events != nil {
			r.Group(func(r chi.Router) {
				if opts.JWTService != nil {
					r.Use(jwtauth.Verify(opts.JWTService.JWTAuth(), jwtauth.TokenFromHeader, tokenFromQuery))
					r.Use(middleware.AuthRequired)
				}
				r.Get("/events", opts.Events.Stream)
			})
		}

		r.Group(func(r chi.Router) {
			if opts.JWTService != nil {
				r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
			}

			r.Get("/filters", attendanceHandler.GetFilters)
			r.Get("/summary", attendanceHandler.GetSummary)
			r.Get("/rankings/{category}", attendanceHandler.GetRanking)
			r.Get("/distribution", attendanceHandler.GetDistribution)
			r.Get("/details", attendanceHandler.GetDetail)
			r.Get("/dashboard", attendanceHandler.GetDashboard)
			r.Get("/export", attendanceHandler.Export)

			// Admin only
			r.Group(func(r chi.Router) {
				if opts.JWTService != nil {
					r.Use(middleware.AdminOnly)
				}
				r.Post("/refresh", attendanceHandler.Refresh)
				r.Put("/source", attendanceHandler.ReplaceSource)
			})
		})
	})
	return r
}
