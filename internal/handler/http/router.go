package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	TokenAuth      *jwtauth.JWTAuth
}

func NewRouter(opts RouterOptions, timeclockHandler TimeclockHandler, settingsHandler SettingsHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(opts.TokenAuth))
			r.Use(middleware.AuthRequired)

			r.Route("/timeclock", func(r chi.Router) {
				r.Post("/clock-in", timeclockHandler.ClockIn)
				r.Get("/me", timeclockHandler.GetMyEntries)
				r.Get("/pay-periods", timeclockHandler.ListPayPeriods)

				r.Route("/entries", func(r chi.Router) {
					r.With(middleware.RequireManager).Post("/bulk-approve", timeclockHandler.BulkApprove)

					r.Get("/{id}", timeclockHandler.Get)
					r.Patch("/{id}", timeclockHandler.Edit)
					r.Post("/{id}/clock-out", timeclockHandler.ClockOut)
					r.Post("/{id}/submit", timeclockHandler.Submit)
					r.Post("/{id}/decision", timeclockHandler.Decide)
				})

				// Manager and above
				r.With(middleware.RequireManager).Get("/team", timeclockHandler.GetTeamSummary)

				r.Route("/settings", func(r chi.Router) {
					r.Use(middleware.RequireSettingsAccess)
					r.Get("/rules", settingsHandler.GetRules)
					r.Put("/rules", settingsHandler.UpdateRules)
					r.Get("/overtime", settingsHandler.GetOvertime)
					r.Put("/overtime", settingsHandler.UpdateOvertime)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Route not found"}}`))
	})

	return r
}
