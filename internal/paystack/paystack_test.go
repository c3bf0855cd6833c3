package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/config"
	"campusevents/internal/ticketing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

func newTestClient(baseURL string) *Client {
	return New(&config.Paystack{SecretKey: testSecret, BaseURL: baseURL})
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestClient_VerifySignature(t *testing.T) {
	client := newTestClient("http://unused")

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","amount":4999}}`)

	assert.True(t, client.VerifySignature(body, sign(testSecret, body)))

	// tampered body
	tampered := []byte(`{"event":"charge.success","data":{"reference":"ref-1","amount":1}}`)
	assert.False(t, client.VerifySignature(tampered, sign(testSecret, body)))

	// wrong secret
	assert.False(t, client.VerifySignature(body, sign("sk_other", body)))

	// garbage signature
	assert.False(t, client.VerifySignature(body, "not-a-signature"))
}

func TestClient_InitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer "+testSecret, r.Header.Get("Authorization"))

		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "u1@campus.edu", body["email"])
		assert.EqualValues(t, 4999, body["amount"])
		assert.Equal(t, "ref-1", body["reference"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "ref-1"
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	init, err := client.InitializeTransaction(context.Background(), ticketing.InitParams{
		Email:       "u1@campus.edu",
		AmountMinor: 4999,
		Reference:   "ref-1",
		Metadata:    map[string]string{"event_id": "ev-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", init.AuthorizationURL)
	assert.Equal(t, "abc123", init.AccessCode)
	assert.Equal(t, "ref-1", init.Reference)
}

func TestClient_InitializeTransactionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.InitializeTransaction(context.Background(), ticketing.InitParams{
		Email:       "u1@campus.edu",
		AmountMinor: 100,
		Reference:   "ref-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestClient_Refund(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refund", r.URL.Path)

		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "ref-1", body["transaction"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": true, "message": "Refund has been queued", "data": {"status": "pending"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.Refund(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ref-1", result.Reference)
	assert.Equal(t, "pending", result.Status)
}
