// Package gateway integrates the external payment provider. The
// signature over "<gatewayOrderID>|<gatewayPaymentID>" is the sole
// trust boundary for confirming money movement.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Intent is the provider-side payment reservation the client completes
// payment against. Amount is in the currency's minor unit (paise).
type Intent struct {
	ID       string
	Amount   int64
	Currency string
}

type Gateway interface {
	KeyID() string
	CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}

// Sign computes the hex HMAC-SHA256 of "orderRef|paymentRef" with the
// gateway key secret, matching the provider's signature scheme.
func Sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// Razorpay talks to the Razorpay Orders API.
type Razorpay struct {
	keyID     string
	keySecret string
	apiURL    string
	client    *http.Client
}

func NewRazorpay(keyID, keySecret, apiURL string) *Razorpay {
	return &Razorpay{
		keyID:     keyID,
		keySecret: keySecret,
		apiURL:    apiURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Razorpay) KeyID() string {
	return r.keyID
}

type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Error    *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

func (r *Razorpay) CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL+"/orders", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway API error (%d): %s", resp.StatusCode, string(body))
	}

	var intentResp intentResponse
	if err := json.Unmarshal(body, &intentResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if intentResp.Error != nil {
		return nil, fmt.Errorf("gateway error: %s", intentResp.Error.Description)
	}
	if intentResp.ID == "" {
		return nil, fmt.Errorf("gateway returned empty intent id")
	}

	return &Intent{
		ID:       intentResp.ID,
		Amount:   intentResp.Amount,
		Currency: intentResp.Currency,
	}, nil
}

// VerifySignature recomputes the expected signature and compares it in
// constant time.
func (r *Razorpay) VerifySignature(orderRef, paymentRef, signature string) bool {
	expected := Sign(r.keySecret, orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}
