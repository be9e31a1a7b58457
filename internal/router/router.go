package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Products  *handler.ProductHandler
	Carts     *handler.CartHandler
	Addresses *handler.AddressHandler
	Orders    *handler.OrderHandler
	Features  *handler.FeatureHandler
}

// Options configures cross-cutting behaviour of the router.
type Options struct {
	AllowedOrigin string
	Validator     *auth.Validator
	// MediaDir, when set, is served under /media.
	MediaDir string
	// Ping reports backend health for /health. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> auth
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(opts.AllowedOrigin))
	r.Use(auth.Middleware(opts.Validator, logger))

	r.Get("/health", health(opts.Ping))

	if opts.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	r.Route("/api/shop", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.GetByID)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Carts.Get)
			r.Post("/", h.Carts.Add)
			r.Post("/merge", h.Carts.Merge)
			r.Put("/{productId}", h.Carts.UpdateQuantity)
			r.Delete("/{productId}", h.Carts.Remove)
		})

		r.Route("/address", func(r chi.Router) {
			r.Get("/", h.Addresses.List)
			r.Post("/", h.Addresses.Add)
			r.Put("/{id}", h.Addresses.Update)
			r.Delete("/{id}", h.Addresses.Delete)
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/", h.Orders.Create)
			r.Get("/", h.Orders.ListMine)
			r.Post("/capture", h.Orders.Capture)
			r.Post("/cancel", h.Orders.Cancel)
			r.Get("/return", h.Orders.Return)
			r.Get("/{id}", h.Orders.GetMine)
		})
	})

	r.Get("/api/common/feature", h.Features.List)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.Products.Create)
			r.Post("/upload-image", h.Products.UploadImage)
			r.Put("/{id}", h.Products.Update)
			r.Delete("/{id}", h.Products.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.AdminList)
			r.Get("/{id}", h.Orders.AdminGet)
			r.Put("/{id}/status", h.Orders.UpdateStatus)
		})

		r.Post("/feature", h.Features.Add)
		r.Delete("/feature/{id}", h.Features.Delete)
	})

	return r
}

func health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}
