// Package api exposes the TandaPay services over an authenticated JSON API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roslynlu/TandaPay/internal/auth"
	"github.com/roslynlu/TandaPay/internal/middleware"
	"github.com/roslynlu/TandaPay/internal/service"
)

// Handler bundles the services the API dispatches to.
type Handler struct {
	pool *service.PoolService
	auth *service.AuthService
}

// NewHandler creates the API handler.
func NewHandler(pool *service.PoolService, authSvc *service.AuthService) *Handler {
	return &Handler{pool: pool, auth: authSvc}
}

// Router builds the route tree. Group mutations require a valid session
// token; the caller identity the token carries is what the pool service
// authorizes against. Read-only accessors are public, like the contract
// views they mirror.
func (h *Handler) Router(jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Get("/admin", h.administrator)

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.listGroups)
		r.Get("/{groupID}", h.getGroup)
		r.Get("/{groupID}/members/{userID}", h.isMember)
		r.Get("/{groupID}/claims", h.listClaims)
		r.Get("/{groupID}/events", h.listEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(jwtManager))
			r.Post("/", h.createGroup)
			r.Post("/{groupID}/pre-period", h.startPrePeriod)
			r.Post("/{groupID}/payments", h.recordPayment)
			r.Post("/{groupID}/active-period", h.startActivePeriod)
			r.Post("/{groupID}/end", h.endActivePeriod)
			r.Post("/{groupID}/claims", h.fileClaim)
			r.Post("/{groupID}/claims/{claimID}/review", h.reviewClaim)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
