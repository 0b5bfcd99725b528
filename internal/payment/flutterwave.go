package payment

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ivancliff029/engaato-online/internal/config"
	"github.com/ivancliff029/engaato-online/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// mobile money is the only channel offered to customers
const paymentOptions = "mobilemoneyuganda"

// Flutterwave launches hosted checkout pages through the Flutterwave
// Standard API.
type Flutterwave struct {
	cfg     config.PaymentConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

func NewFlutterwave(cfg config.PaymentConfig, log *zap.Logger) *Flutterwave {
	return &Flutterwave{
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: circuitbreaker.New[string]("flutterwave", circuitbreaker.DefaultConfig(), log),
	}
}

// Ready fails unless the client can both open a payment page and accept
// the webhook that settles it.
func (f *Flutterwave) Ready() error {
	if f.cfg.SecretKey == "" || f.cfg.BaseURL == "" || f.cfg.WebhookHash == "" {
		return ErrNotConfigured
	}
	return nil
}

type paymentCustomer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Name        string `json:"name"`
}

type customizations struct {
	Title string `json:"title"`
}

type createPaymentRequest struct {
	TxRef          string          `json:"tx_ref"`
	Amount         json.Number     `json:"amount"`
	Currency       string          `json:"currency"`
	RedirectURL    string          `json:"redirect_url,omitempty"`
	PaymentOptions string          `json:"payment_options"`
	Customer       paymentCustomer `json:"customer"`
	Customizations customizations  `json:"customizations"`
}

type createPaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

func (f *Flutterwave) Launch(ctx context.Context, req Request) (string, error) {
	if err := f.Ready(); err != nil {
		return "", err
	}
	return f.breaker.Execute(func() (string, error) {
		return f.createPayment(ctx, req)
	})
}

func (f *Flutterwave) createPayment(ctx context.Context, req Request) (string, error) {
	currency := req.Currency
	if currency == "" {
		currency = f.cfg.Currency
	}
	body, err := json.Marshal(createPaymentRequest{
		TxRef:          req.Reference,
		Amount:         json.Number(req.Amount.String()),
		Currency:       currency,
		RedirectURL:    f.cfg.RedirectURL,
		PaymentOptions: paymentOptions,
		Customer: paymentCustomer{
			Email:       req.Customer.Email,
			PhoneNumber: req.Customer.Phone,
			Name:        req.Customer.Name,
		},
		Customizations: customizations{Title: "Engaato Online"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payment request: %w", err)
	}

	url := strings.TrimRight(f.cfg.BaseURL, "/") + "/v3/payments"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+f.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read payment response: %w", err)
	}

	var out createPaymentResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unexpected payment response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Status != "success" {
		return "", fmt.Errorf("payment provider rejected request (status %d): %s", resp.StatusCode, out.Message)
	}
	if out.Data.Link == "" {
		return "", fmt.Errorf("payment provider returned no checkout link")
	}
	return out.Data.Link, nil
}

// VerifyWebhook reports whether the verif-hash header matches the
// configured secret hash.
func (f *Flutterwave) VerifyWebhook(signature string) bool {
	if f.cfg.WebhookHash == "" || signature == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(f.cfg.WebhookHash)) == 1
}

// WebhookEvent is the body Flutterwave posts for a finished charge.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID                json.Number `json:"id"`
		TxRef             string      `json:"tx_ref"`
		Status            string      `json:"status"`
		ProcessorResponse string      `json:"processor_response"`
	} `json:"data"`
}

// Callback converts the event into the reference it settles and the verdict.
func (e WebhookEvent) Callback() (string, Callback) {
	return e.Data.TxRef, Callback{
		Status:        e.Data.Status,
		TransactionID: e.Data.ID.String(),
		Reason:        e.Data.ProcessorResponse,
	}
}
