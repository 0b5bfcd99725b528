package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	Sessions  SessionSource
	Catalog   ProductCatalog
	Directory CustomerDirectory
	Payments  PaymentCallbacks
	Webhooks  WebhookVerifier
	Dashboard SummarySource
	// Auth attaches the signed-in user, if any, to the request.
	Auth func(http.Handler) http.Handler
	Log  *zap.Logger

	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	SecureCookies      bool
}

func NewRouter(d Deps) http.Handler {
	products := NewProductHandler(d.Catalog, d.RequestTimeout, d.Log)
	carts := NewCartHandler(d.Catalog, d.RequestTimeout, d.Log)
	checkouts := NewCheckoutHandler(d.Directory, d.RequestTimeout, d.Log)
	payments := NewPaymentHandler(d.Payments, d.Webhooks, d.Log)
	dashboards := NewDashboardHandler(d.Dashboard, d.RequestTimeout, d.Log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(middleware.RequestSize(d.MaxRequestBodySize))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// provider callbacks carry no session
		r.Post("/payments/webhook", payments.Webhook)

		r.Get("/products", products.List)
		r.Get("/products/{id}", products.Get)

		r.With(d.Auth).Get("/dashboard/summary", dashboards.Summary)

		r.Group(func(r chi.Router) {
			r.Use(d.Auth)
			r.Use(SessionMiddleware(d.Sessions, d.SecureCookies))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Delete("/", carts.ClearCart)
				r.Post("/items", carts.AddItem)
				r.Patch("/items", carts.UpdateQuantity)
				r.Delete("/items/{productId}", carts.RemoveItem)
				r.Delete("/lines", carts.RemoveLine)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkouts.Get)
				r.Post("/open", checkouts.Open)
				r.Post("/pay", checkouts.Pay)
				r.Post("/retry", checkouts.Retry)
				r.Post("/close", checkouts.Close)
			})

			r.Post("/payments/{reference}/closed", payments.Closed)
		})
	})

	return r
}
