package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type PixPayer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PixPaymentRequest carries the amount in major currency units (100.00, not
// 10000) because that is what the Mercado Pago payments API expects. The
// Stripe path works in minor units; the asymmetry is the gateways', not ours.
type PixPaymentRequest struct {
	TransactionAmount float64  `json:"transaction_amount"`
	Description       string   `json:"description"`
	PaymentMethodID   string   `json:"payment_method_id"`
	Payer             PixPayer `json:"payer"`
}

type PixPaymentResponse struct {
	ID                 int64 `json:"id"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
			TicketURL    string `json:"ticket_url"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewMercadoPagoClient(accessToken string) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL:     "https://api.mercadopago.com",
		accessToken: accessToken,
		httpClient:  http.DefaultClient,
	}
}

func (c *MercadoPagoClient) CreatePixPayment(ctx context.Context, payment PixPaymentRequest) (*PixPaymentResponse, error) {
	body, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("marshal pix payment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build pix payment request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", newIdempotencyKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create pix payment: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read pix payment response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &GatewayError{
			Status:  resp.StatusCode,
			Message: gatewayMessage(responseBody),
			Details: json.RawMessage(responseBody),
		}
	}

	var response PixPaymentResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("decode pix payment response: %w", err)
	}
	return &response, nil
}

// A fresh key per request; retrying a failed call must create a new payment
// attempt, never silently reuse the old one.
func newIdempotencyKey() string {
	return fmt.Sprintf("pix-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func gatewayMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return "unknown gateway error"
	}
	return payload.Message
}
