package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"linkcook-go/internal/config"
	"linkcook-go/internal/metrics"
	"linkcook-go/internal/transport/httpserver/handler"
	authmw "linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

// NewRouter mounts the API under /api. m may be nil to disable metrics.
func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.Auth, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Websocket connections outlive the request timeout.
		r.With(auth.Optional).Get("/groupbuy/{id}/live", handlers.GroupBuys.Live)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))

			r.Get("/health", handlers.Common.Health)

			r.Group(func(r chi.Router) {
				r.Use(auth.Optional)

				r.Get("/groupbuy", handlers.GroupBuys.ListGroupBuys)
				r.Get("/groupbuy/{id}", handlers.GroupBuys.GetGroupBuy)
				r.Get("/recipes", handlers.Recipes.ListRecipes)
				r.Get("/recipes/{id}", handlers.Recipes.GetRecipe)
				r.Get("/share", handlers.Shares.ListShares)
				r.Get("/share/{id}", handlers.Shares.GetShare)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.Required)

				r.Get("/auth/me", handlers.Common.AuthMe)
				r.Get("/me/activity", handlers.Common.MyActivity)

				r.Post("/groupbuy", handlers.GroupBuys.CreateGroupBuy)
				r.Patch("/groupbuy/{id}", handlers.GroupBuys.UpdateGroupBuy)
				r.Delete("/groupbuy/{id}", handlers.GroupBuys.DeleteGroupBuy)
				r.Post("/groupbuy/{id}/join", handlers.GroupBuys.JoinGroupBuy)
				r.Post("/groupbuy/{id}/bookmark", handlers.GroupBuys.ToggleBookmark)

				r.Post("/recipes", handlers.Recipes.CreateRecipe)
				r.Patch("/recipes/{id}", handlers.Recipes.UpdateRecipe)
				r.Delete("/recipes/{id}", handlers.Recipes.DeleteRecipe)
				r.Post("/recipes/{id}/like", handlers.Recipes.ToggleLike)

				r.Post("/share", handlers.Shares.CreateShare)
				r.Patch("/share/{id}", handlers.Shares.UpdateShare)
				r.Delete("/share/{id}", handlers.Shares.DeleteShare)
				r.Post("/share/{id}/bookmark", handlers.Shares.ToggleBookmark)
			})
		})
	})

	return r
}
