package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"go.uber.org/zap"
)

const webhookSignatureHeader = "verif-hash"

// PaymentCallbacks settles payments that are waiting on the provider.
type PaymentCallbacks interface {
	Resolve(reference string, cb payment.Callback) error
	Dismiss(reference string) error
}

type WebhookVerifier interface {
	VerifyWebhook(signature string) bool
}

type PaymentHandler struct {
	payments PaymentCallbacks
	verifier WebhookVerifier
	log      *zap.Logger
}

func NewPaymentHandler(payments PaymentCallbacks, verifier WebhookVerifier, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, verifier: verifier, log: log}
}

// Webhook receives the provider's charge notification.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.verifier.VerifyWebhook(r.Header.Get(webhookSignatureHeader)) {
		respondError(w, http.StatusUnauthorized, "invalid_signature", "invalid webhook signature")
		return
	}

	var ev payment.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	reference, cb := ev.Callback()
	if reference == "" {
		respondError(w, http.StatusBadRequest, "invalid_reference", "tx_ref is required")
		return
	}

	err := h.payments.Resolve(reference, cb)
	if errors.Is(err, payment.ErrUnknownReference) {
		// nobody is waiting any more; acknowledge so the provider stops retrying
		h.log.Warn("webhook for unknown payment",
			zap.String("reference", reference),
			zap.String("status", cb.Status),
			zap.String("transaction_id", cb.TransactionID))
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		h.log.Error("failed to resolve payment", zap.String("reference", reference), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.log.Info("payment resolved by webhook",
		zap.String("reference", reference),
		zap.String("status", cb.Status))
	w.WriteHeader(http.StatusOK)
}

// Closed reports that the customer closed the hosted payment page. Only the
// session that started the payment may dismiss it.
func (h *PaymentHandler) Closed(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	s := sessionFromContext(r.Context())
	if reference == "" || s.Checkout.View().Reference != reference {
		respondError(w, http.StatusNotFound, "payment_not_found", "payment not found")
		return
	}

	if err := h.payments.Dismiss(reference); err != nil {
		if errors.Is(err, payment.ErrUnknownReference) {
			respondError(w, http.StatusNotFound, "payment_not_found", "payment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
