package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amiraziz/souq-backend/api/controllers"
	"github.com/amiraziz/souq-backend/api/middleware"
	"github.com/amiraziz/souq-backend/internal/cart"
	ordersvc "github.com/amiraziz/souq-backend/internal/orders"
	productsvc "github.com/amiraziz/souq-backend/internal/products"
	usersvc "github.com/amiraziz/souq-backend/internal/users"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Registry *prometheus.Registry

	Users    usersvc.Service
	Products productsvc.Service
	Session  cart.Session
	Orders   ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Liveness())
		r.Get("/ready", controllers.Readiness(logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront surface: works for anonymous devices and signed-in
		// shoppers alike. A bearer token, when present, must be valid.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg), middleware.GuestID(logg))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", controllers.Register(deps.Users, deps.Session, logg))
				r.Post("/login", controllers.Login(deps.Users, deps.Session, logg))
				r.Post("/logout", controllers.Logout(deps.Session, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(deps.Products, logg))
				r.Get("/{slug}", controllers.GetProduct(deps.Products, logg))
				r.Get("/{slug}/resolve", controllers.ResolveProduct(deps.Products, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Session, logg))
				r.Post("/", controllers.AddToCart(deps.Session, logg))
				r.Patch("/{variantId}", controllers.UpdateCartQty(deps.Session, logg))
				r.Delete("/{variantId}", controllers.RemoveFromCart(deps.Session, logg))
				r.Delete("/", controllers.ClearCart(deps.Session, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.GetWishlist(deps.Session, logg))
				r.Post("/toggle", controllers.ToggleWishlist(deps.Session, logg))
			})
		})

		// Signed-in shopper surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg), middleware.GuestID(logg))

			r.Get("/auth/me", controllers.Me(deps.Users, logg))
			r.Post("/checkout", controllers.PlaceOrder(deps.Orders, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg), middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
			r.Patch("/{id}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(deps.Products, logg))
			r.Get("/slugs", controllers.AdminAssignedSlugs(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{id}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Post("/{id}/transition", controllers.AdminTransitionOrder(deps.Orders, logg))
			r.Post("/bulk-transition", controllers.AdminBulkTransitionOrders(deps.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/{id}/banned", controllers.AdminSetUserBanned(deps.Users, logg))
			r.Post("/{id}/reset-password", controllers.AdminResetUserPassword(deps.Users, logg))
		})
	})

	return r
}
