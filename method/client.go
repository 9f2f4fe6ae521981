// Package method is a client for the Method Financial aggregator API,
// plus a local simulator for the dev environment.
package method

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// Version is the aggregator API version pinned by every request.
const Version = "2025-07-04"

const (
	EnvDev        = "dev"
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

var baseURLs = map[string]string{
	EnvDev:        "https://dev.methodfi.com",
	EnvSandbox:    "https://sandbox.methodfi.com",
	EnvProduction: "https://production.methodfi.com",
}

// Client talks to the aggregator. In the dev environment it also
// carries a Simulator so connected-account flows can be exercised
// without the hosted Connect UI.
type Client struct {
	apiKey      string
	environment string
	baseURL     string
	http        *http.Client
	simulator   *Simulator
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL overrides the environment-derived base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimSuffix(u, "/")
		}
	}
}

func NewClient(apiKey, environment string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("method api key is required", errors.CategoryBadInput).
			WithTextCode("MISSING_METHOD_API_KEY")
	}

	base, ok := baseURLs[environment]
	if !ok {
		return nil, errors.New("unknown method environment", errors.CategoryBadInput).
			WithTextCode("INVALID_METHOD_ENV").
			WithMetadata(map[string]any{"environment": environment})
	}

	c := &Client{
		apiKey:      apiKey,
		environment: environment,
		baseURL:     base,
		http:        &http.Client{Timeout: 30 * time.Second},
	}

	if environment == EnvDev {
		c.simulator = NewSimulator()
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Environment returns the configured aggregator environment.
func (c *Client) Environment() string {
	return c.environment
}

// Simulator returns the dev-only simulator, nil outside dev.
func (c *Client) Simulator() *Simulator {
	return c.simulator
}

func (c *Client) do(ctx context.Context, httpMethod, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode method request")
		}
		reader = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, u, reader)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build method request")
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Method-Version", Version)

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to connect to method api").
			WithTextCode("METHOD_UNAVAILABLE")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// drain so the connection can be reused; the upstream body is
		// never surfaced to callers
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return errors.New("method api error", errors.CategoryOperation).
			WithTextCode("METHOD_API_ERROR").
			WithCode(res.StatusCode).
			WithMetadata(map[string]any{
				"status": res.StatusCode,
				"path":   path,
			})
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to decode method response")
	}

	return nil
}

// CreateEntity registers a user with the aggregator. The full name is
// split on whitespace into first and last, the way the Connect flow
// expects it.
func (c *Client) CreateEntity(ctx context.Context, email, fullName, phone string) (*Entity, error) {
	first, last := splitFullName(fullName)

	payload := map[string]any{
		"type": "individual",
		"individual": Individual{
			FirstName: first,
			LastName:  last,
			Email:     email,
			Phone:     phone,
		},
	}

	out := &Entity{}
	if err := c.do(ctx, http.MethodPost, "/entities", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEntity(ctx context.Context, entityID string) (*Entity, error) {
	out := &Entity{}
	if err := c.do(ctx, http.MethodGet, "/entities/"+entityID, nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateEntity(ctx context.Context, entityID string, update map[string]any) (*Entity, error) {
	out := &Entity{}
	if err := c.do(ctx, http.MethodPut, "/entities/"+entityID, nil, update, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListEntities(ctx context.Context, page, pageLimit int) (*EntityList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_limit", strconv.Itoa(pageLimit))

	out := &EntityList{}
	if err := c.do(ctx, http.MethodGet, "/entities", q, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccounts returns all connected accounts for an entity. In dev,
// simulated accounts take precedence over the live API.
func (c *Client) GetAccounts(ctx context.Context, entityID string) (*AccountList, error) {
	if c.simulator != nil {
		if accounts := c.simulator.Accounts(entityID); len(accounts) > 0 {
			return &AccountList{
				Data:       accounts,
				Total:      len(accounts),
				Simulation: true,
			}, nil
		}
	}

	q := url.Values{}
	q.Set("entity_id", entityID)

	out := &AccountList{}
	if err := c.do(ctx, http.MethodGet, "/accounts", q, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAccount links a bank account by routing and account number,
// the manual alternative to the hosted Connect flow.
func (c *Client) CreateAccount(ctx context.Context, payload map[string]any) (*Account, error) {
	out := &Account{}
	if err := c.do(ctx, http.MethodPost, "/accounts", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePayment(ctx context.Context, source, destination string, amount int64, description string) (*Payment, error) {
	if description == "" {
		description = "AgentPay bill payment"
	}

	payload := map[string]any{
		"amount":      amount,
		"source":      source,
		"destination": destination,
		"description": description,
	}

	out := &Payment{}
	if err := c.do(ctx, http.MethodPost, "/payments", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	out := &Payment{}
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPayments(ctx context.Context, params ListPaymentsParams) (*PaymentList, error) {
	q := url.Values{}
	setIf := func(key, val string) {
		if val != "" {
			q.Set(key, val)
		}
	}
	setIf("source", params.Source)
	setIf("destination", params.Destination)
	setIf("acc_id", params.AccID)
	setIf("source_holder_id", params.SourceHolderID)
	setIf("destination_holder_id", params.DestinationHolderID)
	setIf("holder_id", params.HolderID)
	setIf("status", params.Status)
	setIf("from_date", params.FromDate)
	setIf("to_date", params.ToDate)
	setIf("page", params.Page)
	setIf("page_cursor", params.PageCursor)
	setIf("page_limit", params.PageLimit)

	out := &PaymentList{}
	if err := c.do(ctx, http.MethodGet, "/payments", q, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeletePayment(ctx context.Context, paymentID string) (*Payment, error) {
	out := &Payment{}
	if err := c.do(ctx, http.MethodDelete, "/payments/"+paymentID, nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateElementToken mints a token for the hosted Connect flow.
func (c *Client) CreateElementToken(ctx context.Context, entityID, elementType string) (*ElementToken, error) {
	if elementType == "" {
		elementType = "connect"
	}

	payload := map[string]any{
		"entity_id": entityID,
		"type":      elementType,
	}

	out := &ElementToken{}
	if err := c.do(ctx, http.MethodPost, "/elements", nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetElementResults(ctx context.Context, elementToken string) (*ElementResults, error) {
	out := &ElementResults{}
	if err := c.do(ctx, http.MethodGet, "/elements/"+elementToken, nil, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulatePaymentUpdate drives a payment through its lifecycle via the
// aggregator's simulate endpoint. Dev environment only.
func (c *Client) SimulatePaymentUpdate(ctx context.Context, paymentID, status, errorCode string) (*Payment, error) {
	if err := c.requireDev(); err != nil {
		return nil, err
	}

	payload := map[string]any{"status": status}
	if errorCode != "" {
		payload["error_code"] = errorCode
	}

	out := &Payment{}
	if err := c.do(ctx, http.MethodPost, "/simulate/payments/"+paymentID, nil, payload, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulateCreateTransaction posts a fake transaction to the aggregator
// simulate endpoint. Dev environment only.
func (c *Client) SimulateCreateTransaction(ctx context.Context, transaction map[string]any) (map[string]any, error) {
	if err := c.requireDev(); err != nil {
		return nil, err
	}

	out := map[string]any{}
	if err := c.do(ctx, http.MethodPost, "/simulate/transactions", nil, transaction, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) requireDev() error {
	if c.environment != EnvDev {
		return ErrSimulationUnavailable
	}
	return nil
}

func splitFullName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "Unknown", "User"
	case 1:
		return parts[0], "User"
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
