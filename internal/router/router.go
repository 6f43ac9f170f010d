package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/catalog"
	"github.com/banmai-pos/console/internal/checkout"
	"github.com/banmai-pos/console/internal/config"
	"github.com/banmai-pos/console/internal/enum"
	"github.com/banmai-pos/console/internal/handler"
	mw "github.com/banmai-pos/console/internal/middleware"
	"github.com/banmai-pos/console/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, api *backend.Client, carts cart.Store, cache *catalog.Cache, svc *checkout.Service, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public, proxied to the backend)
	authHandler := handler.NewAuthHandler(api)
	authHandler.RegisterRoutes(r)

	// Gateway return landing (public: the customer's browser is redirected
	// here by the gateway, outside any console session)
	checkoutHandler := handler.NewCheckoutHandler(svc)
	r.Get("/payments/return", checkoutHandler.Return)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/terminals/{tid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Catalog reads for the ordering screen
		catalogHandler := handler.NewCatalogHandler(cache)
		catalogHandler.RegisterRoutes(r)

		// Terminal-scoped cart and checkout
		r.Route("/terminals/{tid}", func(r chi.Router) {
			cartHandler := handler.NewCartHandler(carts, cache)
			r.Route("/cart", cartHandler.RegisterRoutes)
			r.Route("/checkout", checkoutHandler.RegisterRoutes)
		})

		// Management surfaces (manager and owner only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleOwner, enum.UserRoleManager))

			dashboardHandler := handler.NewDashboardHandler(api)
			r.Route("/dashboard", dashboardHandler.RegisterRoutes)

			consoleHandler := handler.NewConsoleHandler(api)
			r.Route("/console", consoleHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
