package customers_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/BearBump/QRLink/internal/cache"
)

type RouterOptions struct {
	// Limiter guards GET /r/{code}; nil disables limiting.
	Limiter            cache.RateLimiter
	RateLimitPerMinute int64
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// Routes registers the API on r. The customer routes are served both at the
// root and under /api.
func (a *CustomersAPI) Routes(r chi.Router, opts RouterOptions) {
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(RateLimit(opts.Limiter, opts.RateLimitPerMinute)).
		Get("/r/{code}", a.Redirect)

	r.Group(a.apiRoutes)
	r.Route("/api", a.apiRoutes)
}

func (a *CustomersAPI) apiRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", a.CreateCustomer)
		r.Get("/", a.ListCustomers)
		r.Get("/search", a.SearchCustomers)
		r.Get("/{id}", a.GetCustomer)
		r.Put("/{id}", a.UpdateCustomer)
		r.Delete("/{id}", a.DeleteCustomer)
	})
	r.Get("/qrcode", a.QRCode)
	r.Get("/base_url", a.BaseURL)
}
