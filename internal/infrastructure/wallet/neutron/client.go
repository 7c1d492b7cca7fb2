package neutron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"lightning-agent/internal/application/port/output"

	"github.com/google/uuid"
)

var _ output.WalletPort = (*Client)(nil)

// DefaultBaseURL points at the hosted wallet API.
const DefaultBaseURL = "https://api.neutron.me"

// defaultHTTPTimeout bounds every backend call so a stuck request surfaces
// as a tool error instead of hanging the agent loop.
const defaultHTTPTimeout = 15 * time.Second

type Client struct {
	baseURL    *url.URL
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	logger     output.LoggerPort

	mu          sync.RWMutex
	accessToken string
}

type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Logger    output.LoggerPort
}

// APIError is the backend's JSON error envelope.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("neutron api error (%d): %s - %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("neutron api error (%d): %s", e.StatusCode, e.Message)
}

func NewClient(cfg Config) (*Client, error) {
	rawURL := cfg.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", rawURL, err)
	}

	return &Client{
		baseURL:    parsed,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     cfg.Logger,
	}, nil
}

// Authenticate exchanges the API key pair for an access token and stores it
// for subsequent calls.
func (c *Client) Authenticate(ctx context.Context) error {
	var token struct {
		AccessToken string `json:"accessToken"`
	}
	body := map[string]string{"apiKey": c.apiKey, "apiSecret": c.apiSecret}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/token", nil, body, &token, false); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	c.mu.Lock()
	c.accessToken = token.AccessToken
	c.mu.Unlock()
	return nil
}

func (c *Client) Wallets(ctx context.Context) ([]output.Wallet, error) {
	var wallets []output.Wallet
	if err := c.do(ctx, http.MethodGet, "/v1/account/wallets", nil, nil, &wallets, true); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (c *Client) CreateInvoice(ctx context.Context, amountSats int64, memo string) (*output.Invoice, error) {
	body := map[string]any{
		"amountSats": amountSats,
		"memo":       memo,
		"extRefId":   uuid.NewString(),
	}
	var invoice output.Invoice
	if err := c.do(ctx, http.MethodPost, "/v1/lightning/invoices", nil, body, &invoice, true); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) DecodeInvoice(ctx context.Context, invoice string) (*output.DecodedInvoice, error) {
	body := map[string]string{"invoice": invoice}
	var decoded output.DecodedInvoice
	if err := c.do(ctx, http.MethodPost, "/v1/lightning/decode", nil, body, &decoded, true); err != nil {
		return nil, err
	}
	return &decoded, nil
}

func (c *Client) PayInvoice(ctx context.Context, invoice string) (*output.Transaction, error) {
	body := map[string]string{"invoice": invoice}
	var txn output.Transaction
	if err := c.do(ctx, http.MethodPost, "/v1/lightning/payments", nil, body, &txn, true); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) PayLightningAddress(ctx context.Context, address string, amountSats int64) (*output.Transaction, error) {
	body := map[string]any{
		"address":    address,
		"amountSats": amountSats,
	}
	var txn output.Transaction
	if err := c.do(ctx, http.MethodPost, "/v1/lightning/address-payments", nil, body, &txn, true); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) ConfirmTransaction(ctx context.Context, txnID string) (*output.Transaction, error) {
	var txn output.Transaction
	path := "/v1/transactions/" + url.PathEscape(txnID) + "/confirm"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &txn, true); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) Transactions(ctx context.Context, q output.TransactionQuery) ([]output.Transaction, error) {
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	var txns []output.Transaction
	if err := c.do(ctx, http.MethodGet, "/v1/transactions", query, nil, &txns, true); err != nil {
		return nil, err
	}
	return txns, nil
}

func (c *Client) Transaction(ctx context.Context, txnID string) (*output.Transaction, error) {
	var txn output.Transaction
	path := "/v1/transactions/" + url.PathEscape(txnID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &txn, true); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) Rates(ctx context.Context) (map[string]float64, error) {
	var rates map[string]float64
	if err := c.do(ctx, http.MethodGet, "/v1/rates", nil, nil, &rates, true); err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *Client) BTCDepositAddress(ctx context.Context) (*output.DepositAddress, error) {
	var addr output.DepositAddress
	if err := c.do(ctx, http.MethodGet, "/v1/account/btc-address", nil, nil, &addr, true); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (c *Client) USDTDepositAddress(ctx context.Context, chain string) (*output.DepositAddress, error) {
	query := url.Values{}
	query.Set("chain", chain)
	var addr output.DepositAddress
	if err := c.do(ctx, http.MethodGet, "/v1/account/usdt-address", query, nil, &addr, true); err != nil {
		return nil, err
	}
	return &addr, nil
}

// CreateConversion creates a two-leg wallet-to-wallet transaction; like
// every other mutation it stays pending until ConfirmTransaction settles it.
func (c *Client) CreateConversion(ctx context.Context, fromCcy, toCcy string, amount float64) (*output.Transaction, error) {
	body := map[string]any{
		"extRefId": uuid.NewString(),
		"sourceReq": map[string]any{
			"ccy":          fromCcy,
			"method":       "neutronpay",
			"amtRequested": amount,
		},
		"destReq": map[string]any{
			"ccy":    toCcy,
			"method": "neutronpay",
		},
	}
	var txn output.Transaction
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", nil, body, &txn, true); err != nil {
		return nil, err
	}
	return &txn, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	endpoint := *c.baseURL
	endpoint.Path = path
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		c.mu.RLock()
		token := c.accessToken
		c.mu.RUnlock()
		if token == "" {
			return fmt.Errorf("not authenticated: call Authenticate first")
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("Backend call", "method", method, "path", path, "status", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
