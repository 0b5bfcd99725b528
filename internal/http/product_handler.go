package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ivancliff029/engaato-online/internal/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	catalog ProductCatalog
	timeout time.Duration
	log     *zap.Logger
}

func NewProductHandler(catalog ProductCatalog, timeout time.Duration, log *zap.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, timeout: timeout, log: log}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	page, err := h.catalog.List(ctx, parseFilter(r.URL.Query()))
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		h.log.Error("failed to get product", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// parseFilter reads the storefront query string. Missing, malformed or zero
// values fall back to the defaults.
func parseFilter(q url.Values) catalog.Filter {
	f := catalog.DefaultFilter()
	if c := q.Get("category"); c != "" {
		f.Category = c
	}
	if v, err := decimal.NewFromString(q.Get("minPrice")); err == nil && !v.IsZero() {
		f.MinPrice = v
	}
	if v, err := decimal.NewFromString(q.Get("maxPrice")); err == nil && !v.IsZero() {
		f.MaxPrice = v
	}
	if s := catalog.SortBy(q.Get("sortBy")); s.Valid() {
		f.SortBy = s
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	return f
}
