package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"horizon-backend/utils"
)

// ProcessorCharge mirrors the processor's view of a charge.
type ProcessorCharge struct {
	ID     string  `json:"id"`
	Status string  `json:"status"` // "succeeded", "pending", "failed"
	Amount float64 `json:"amount"`
}

// ProcessorRefund mirrors the processor's view of a refund.
type ProcessorRefund struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

// PaymentProcessor is the outbound card-processor contract. All calls are
// idempotent keyed on the caller-supplied idempotency key, so a retry
// after a timeout can never double-charge or double-refund.
type PaymentProcessor interface {
	Charge(amount float64, currency, cardToken, idempotencyKey string) (ProcessorCharge, error)
	Retrieve(id string) (ProcessorCharge, error)
	Refund(paymentRef string, amount float64, idempotencyKey string) (ProcessorRefund, error)
}

// HTTPPaymentProcessor talks to the processor's REST API.
// Endpoint and key come from PAYMENT_API_ENDPOINT / PAYMENT_API_KEY.
type HTTPPaymentProcessor struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewHTTPPaymentProcessor() *HTTPPaymentProcessor {
	return &HTTPPaymentProcessor{
		Endpoint: utils.EnvOrDefault("PAYMENT_API_ENDPOINT", "https://api.payments.example.com/v1"),
		APIKey:   utils.EnvOrDefault("PAYMENT_API_KEY", ""),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *HTTPPaymentProcessor) do(method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("cannot marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, p.Endpoint+path, body)
	if err != nil {
		return fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		// Unreachable or timed out: the caller must NOT assume success.
		return fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d: %s", ErrProcessorUnavailable, resp.StatusCode, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("JSON parse error: %w", err)
	}
	return nil
}

func (p *HTTPPaymentProcessor) Charge(amount float64, currency, cardToken, idempotencyKey string) (ProcessorCharge, error) {
	var out ProcessorCharge
	err := p.do(http.MethodPost, "/charges", map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"card_token":      cardToken,
		"idempotency_key": idempotencyKey,
	}, &out)
	return out, err
}

func (p *HTTPPaymentProcessor) Retrieve(id string) (ProcessorCharge, error) {
	var out ProcessorCharge
	err := p.do(http.MethodGet, "/charges/"+id, nil, &out)
	return out, err
}

func (p *HTTPPaymentProcessor) Refund(paymentRef string, amount float64, idempotencyKey string) (ProcessorRefund, error) {
	var out ProcessorRefund
	err := p.do(http.MethodPost, "/refunds", map[string]interface{}{
		"payment_ref":     paymentRef,
		"amount":          amount,
		"idempotency_key": idempotencyKey,
	}, &out)
	return out, err
}
