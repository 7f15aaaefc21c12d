package paymentgateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ptnguyen/fundflow/internal"
	gatewaytypes "github.com/ptnguyen/fundflow/internal/core/datamodel/paymentgateway"
)

// ErrInvalidSignature is returned when a webhook payload's signature does
// not match the checksum key.
var ErrInvalidSignature = errors.New("webhook signature mismatch")

// Client talks to the hosted-checkout payment gateway. All credentials and
// endpoints come from configuration, there is no package-level state.
type Client struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
	returnURL   string
	cancelURL   string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewClient(cfg internal.PaymentConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		checksumKey: cfg.ChecksumKey,
		returnURL:   cfg.ReturnURL,
		cancelURL:   cfg.CancelURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

func (c *Client) ReturnURL() string {
	return c.returnURL
}

func (c *Client) CancelURL() string {
	return c.cancelURL
}

// CreatePaymentLink creates a hosted checkout link for the given order.
// The request is signed with HMAC-SHA256 over the alphabetically ordered
// request fields, per the gateway's contract.
func (c *Client) CreatePaymentLink(ctx context.Context, orderCode, amount int64, description string) (*gatewaytypes.CheckoutData, error) {
	req := &gatewaytypes.CreateLinkRequest{
		OrderCode:   orderCode,
		Amount:      amount,
		Description: description,
		ReturnURL:   c.returnURL,
		CancelURL:   c.cancelURL,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payment link request: %w", err)
	}
	req.Signature = c.signCreateRequest(req)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment link request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/payment-requests", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var linkResp gatewaytypes.CreateLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&linkResp); err != nil {
		return nil, fmt.Errorf("failed to decode payment gateway response: %w", err)
	}
	if linkResp.Code != "00" {
		return nil, fmt.Errorf("payment gateway rejected request: %s %s", linkResp.Code, linkResp.Desc)
	}

	c.logger.Info("payment link created",
		"order_code", orderCode,
		"payment_link_id", linkResp.Data.PaymentLinkID,
		"checkout_url", linkResp.Data.CheckoutURL)

	return &linkResp.Data, nil
}

// VerifyWebhook checks the payload's signature against the checksum key
// and returns the verified data fields. The signature covers the data
// object's fields, sorted by key and joined as a query string.
func (c *Client) VerifyWebhook(raw []byte) (*gatewaytypes.WebhookData, error) {
	var envelope struct {
		Code      string          `json:"code"`
		Desc      string          `json:"desc"`
		Data      json.RawMessage `json:"data"`
		Signature string          `json:"signature"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed webhook envelope: %w", err)
	}
	if len(envelope.Data) == 0 || envelope.Signature == "" {
		return nil, fmt.Errorf("webhook envelope missing data or signature")
	}

	expected, err := c.signWebhookData(envelope.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute webhook signature: %w", err)
	}
	if !hmac.Equal([]byte(expected), []byte(envelope.Signature)) {
		return nil, ErrInvalidSignature
	}

	var data gatewaytypes.WebhookData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return nil, fmt.Errorf("malformed webhook data: %w", err)
	}

	return &data, nil
}

func (c *Client) signCreateRequest(req *gatewaytypes.CreateLinkRequest) string {
	payload := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount, req.CancelURL, req.Description, req.OrderCode, req.ReturnURL)
	return c.hmacHex(payload)
}

func (c *Client) signWebhookData(data json.RawMessage) (string, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var fields map[string]interface{}
	if err := decoder.Decode(&fields); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, stringifyField(fields[k])))
	}

	return c.hmacHex(strings.Join(pairs, "&")), nil
}

func stringifyField(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func (c *Client) hmacHex(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.checksumKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
