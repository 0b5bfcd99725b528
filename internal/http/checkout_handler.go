package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ivancliff029/engaato-online/internal/checkout"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/identity"
	"go.uber.org/zap"
)

// CustomerDirectory resolves checkout contact details for a visitor.
type CustomerDirectory interface {
	Customer(ctx context.Context, u *identity.User) domain.Customer
}

type CheckoutHandler struct {
	directory CustomerDirectory
	timeout   time.Duration
	log       *zap.Logger
}

func NewCheckoutHandler(directory CustomerDirectory, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{directory: directory, timeout: timeout, log: log}
}

// PayRequestDTO carries what the customer typed into the checkout form.
// Empty fields are filled from the account or guest defaults.
type PayRequestDTO struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,e164|numeric"`
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.Checkout.View())
}

func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	view, err := s.Checkout.Open()
	if err != nil {
		handleCheckoutError(w, view, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PayRequestDTO
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	customer := h.directory.Customer(ctx, identity.FromContext(r.Context()))
	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}

	s := sessionFromContext(r.Context())
	view, err := s.Checkout.Initiate(ctx, customer)
	if err != nil {
		handleCheckoutError(w, view, err)
		return
	}
	respondJSON(w, http.StatusAccepted, view)
}

func (h *CheckoutHandler) Retry(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	view, err := s.Checkout.Retry()
	if err != nil {
		handleCheckoutError(w, view, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *CheckoutHandler) Close(w http.ResponseWriter, r *http.Request) {
	s := sessionFromContext(r.Context())
	respondJSON(w, http.StatusOK, s.Checkout.Close())
}

type CheckoutErrorResponse struct {
	ErrorResponse
	Checkout domain.CheckoutSession `json:"checkout"`
}

func handleCheckoutError(w http.ResponseWriter, view domain.CheckoutSession, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, checkout.ErrInProgress):
		status, code = http.StatusConflict, "payment_in_progress"
	case errors.Is(err, checkout.ErrIllegalTransition):
		status, code = http.StatusConflict, "illegal_transition"
	case errors.Is(err, checkout.ErrConfiguration):
		status, code = http.StatusServiceUnavailable, "configuration_error"
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code = http.StatusUnprocessableEntity, "empty_cart"
	case errors.Is(err, checkout.ErrIncompleteLine):
		status, code = http.StatusUnprocessableEntity, "incomplete_line"
	case errors.Is(err, checkout.ErrIncompleteCustomer):
		status, code = http.StatusUnprocessableEntity, "incomplete_customer"
	case errors.Is(err, checkout.ErrNegativeTotal):
		status, code = http.StatusUnprocessableEntity, "invalid_total"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}

	respondJSON(w, status, CheckoutErrorResponse{
		ErrorResponse: ErrorResponse{Error: err.Error(), Code: code},
		Checkout:      view,
	})
}
