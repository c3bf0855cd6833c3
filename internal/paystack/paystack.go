// Package paystack is a minimal client for the two Paystack endpoints this
// service uses: transaction initialization and refunds. Webhook signatures
// are verified with HMAC-SHA512 over the raw request bytes.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"campusevents/internal/config"
	"campusevents/internal/ticketing"
)

const requestTimeout = 15 * time.Second

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func New(cfg *config.Paystack) *Client {
	return &Client{
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call paystack: %w", err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("decode paystack response: %w", err)
	}

	if resp.StatusCode >= 400 || !api.Status {
		return fmt.Errorf("paystack error: %s (http %d)", api.Message, resp.StatusCode)
	}

	if out != nil {
		if err = json.Unmarshal(api.Data, out); err != nil {
			return fmt.Errorf("decode paystack data: %w", err)
		}
	}

	return nil
}

func (c *Client) InitializeTransaction(ctx context.Context, params ticketing.InitParams) (*ticketing.PaymentInit, error) {
	body := map[string]any{
		"email":     params.Email,
		"amount":    params.AmountMinor,
		"reference": params.Reference,
		"metadata":  params.Metadata,
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}

	if err := c.post(ctx, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}

	return &ticketing.PaymentInit{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (c *Client) Refund(ctx context.Context, reference string) (*ticketing.RefundResult, error) {
	body := map[string]any{"transaction": reference}

	var data struct {
		Status string `json:"status"`
	}

	if err := c.post(ctx, "/refund", body, &data); err != nil {
		return nil, err
	}

	return &ticketing.RefundResult{Reference: reference, Status: data.Status}, nil
}

// VerifySignature recomputes the HMAC over the exact raw body. Verification
// must never run on a re-serialized payload; re-encoding is not guaranteed
// byte-identical.
func (c *Client) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
