package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skilldesk/marketplace/internal/handlers"
	appmw "github.com/skilldesk/marketplace/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", h.Login)

	authed := appmw.Authenticated(h.Store)
	r.With(authed).Get("/auth/me", h.Me)

	r.With(authed).Get("/contracts/{id}", h.GetContract)
	r.With(authed).Get("/contracts", h.ListContracts)

	r.With(authed).Get("/jobs/unpaid", h.ListUnpaidJobs)
	r.With(authed).Post("/jobs/{job_id}/pay", h.PayJob)

	// Deposit is unauthenticated upstream; preserved as-is.
	r.Post("/balances/deposit/{userId}", h.Deposit)

	r.Get("/admin/best-profession", h.BestProfession)
	r.Get("/admin/best-clients", h.BestClients)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
