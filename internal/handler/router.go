package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	activityhandler "github.com/yudhapratama/desaku/backend/internal/handler/activity"
	authhandler "github.com/yudhapratama/desaku/backend/internal/handler/auth"
	chathandler "github.com/yudhapratama/desaku/backend/internal/handler/chat"
	letterhandler "github.com/yudhapratama/desaku/backend/internal/handler/letter"
	newshandler "github.com/yudhapratama/desaku/backend/internal/handler/news"
	"github.com/yudhapratama/desaku/backend/internal/middleware"
	authservice "github.com/yudhapratama/desaku/backend/internal/service/auth"
	"github.com/yudhapratama/desaku/backend/pkg/utils"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *authhandler.Handler
	Chat     *chathandler.Handler
	News     *newshandler.Handler
	Activity *activityhandler.Handler
	Letter   *letterhandler.Handler
}

// NewRouter wires HTTP routes to the portal services.
func NewRouter(authSvc *authservice.Service, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Route("/api", func(api chi.Router) {
		// Public surface: news, agenda, account bootstrap and the chat
		// widget socket (guests allowed).
		h.Auth.RegisterRoutes(api)
		h.News.RegisterRoutes(api)
		h.Activity.RegisterRoutes(api)
		h.Chat.RegisterRoutes(api)

		// Signed-in citizens.
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(authSvc))
			h.Auth.RegisterProtectedRoutes(protected)
			h.Chat.RegisterProtectedRoutes(protected)
			h.Letter.RegisterProtectedRoutes(protected)
		})

		// Back-office.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAuth(authSvc))
			admin.Use(middleware.RequireAdmin)
			h.News.RegisterAdminRoutes(admin)
			h.Activity.RegisterAdminRoutes(admin)
			h.Letter.RegisterAdminRoutes(admin)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
