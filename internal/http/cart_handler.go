package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ivancliff029/engaato-online/internal/cart"
	"github.com/ivancliff029/engaato-online/internal/catalog"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCatalog is the read side of the product catalog.
type ProductCatalog interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, f catalog.Filter) (catalog.Page, error)
}

type CartHandler struct {
	catalog ProductCatalog
	timeout time.Duration
	log     *zap.Logger
}

func NewCartHandler(catalog ProductCatalog, timeout time.Duration, log *zap.Logger) *CartHandler {
	return &CartHandler{catalog: catalog, timeout: timeout, log: log}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type LineRequestDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

type UpdateQuantityRequestDTO struct {
	LineRequestDTO
	Quantity int `json:"quantity" validate:"max=99"`
}

type CartResponse struct {
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	Total     decimal.Decimal   `json:"total"`
	Eligible  bool              `json:"eligible"`
}

func cartResponse(s *cart.Store) CartResponse {
	snap := s.Snapshot()
	items := snap.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponse{
		Items:     items,
		ItemCount: snap.ItemCount,
		Total:     snap.Total,
		Eligible:  s.Eligible(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	// the price and options always come from the catalog, never the client
	product, err := h.catalog.Get(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
		return
	}
	if err != nil {
		h.log.Error("failed to load product", zap.String("product_id", req.ProductID), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog is unavailable")
		return
	}

	s := sessionFromContext(r.Context())
	if err := s.Cart.AddItem(product, req.Quantity, req.Color, req.Size); err != nil {
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(s.Cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	s := sessionFromContext(r.Context())
	key := domain.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size}
	if !s.Cart.UpdateQuantity(key, req.Quantity) {
		respondError(w, http.StatusNotFound, "line_not_found", "cart line not found")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}

	s := sessionFromContext(r.Context())
	s.Cart.RemoveItem(productID)
	respondJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	var req LineRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	s := sessionFromContext(r.Context())
	s.Cart.RemoveLine(domain.LineKey{ProductID: req.ProductID, Color: req.Color, Size: req.Size})
	respondJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	s.Cart.Clear()
	respondJSON(w, http.StatusOK, cartResponse(s.Cart))
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cart.ErrMissingProductID):
		respondError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
	case errors.Is(err, cart.ErrMissingOption):
		respondError(w, http.StatusBadRequest, "missing_option", err.Error())
	case errors.Is(err, cart.ErrUnknownOption):
		respondError(w, http.StatusBadRequest, "unknown_option", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
