package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ragner01/microjobs-marketplace/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Client talks to the escrow REST API. It never retries: a release or refund
// whose outcome is unknown must be checked by the operator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	operator   string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends an operator bearer token with settlement requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithOperator names the operator for servers running without token auth.
func WithOperator(operator string) Option {
	return func(c *Client) { c.operator = operator }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiError struct {
	Error         string                   `json:"error"`
	Code          string                   `json:"code"`
	CurrentStatus domain.TransactionStatus `json:"currentStatus"`
}

func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) (*TransactionPage, error) {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", string(q.Status))
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	params.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}
	direction := q.Direction
	if direction == "" {
		direction = domain.SortDesc
	}
	params.Set("sort", "initiatedAt,"+string(direction))

	var page TransactionPage
	if _, err := c.do(ctx, http.MethodGet, "/transactions?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	var tx Transaction
	if _, err := c.do(ctx, http.MethodGet, "/transactions/"+id.String(), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) ListAccounts(ctx context.Context, q AccountQuery) ([]Account, error) {
	params := url.Values{}
	if q.HolderID != nil {
		params.Set("holderId", q.HolderID.String())
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}
	path := "/accounts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var accounts []Account
	if _, err := c.do(ctx, http.MethodGet, path, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) Release(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return c.settle(ctx, domain.OperationRelease, id)
}

func (c *Client) Refund(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return c.settle(ctx, domain.OperationRefund, id)
}

func (c *Client) settle(ctx context.Context, op domain.Operation, id uuid.UUID) (*Transaction, error) {
	var tx Transaction
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/transactions/%s/%s", id, op), &tx)
	if err != nil {
		opErr := &OperationError{Operation: op, TransactionID: id, Err: err}
		if body != nil {
			opErr.CurrentStatus = body.CurrentStatus
		}
		return nil, opErr
	}
	return &tx, nil
}

// do sends one request and decodes a 2xx body into out. On an API error the
// decoded error body is returned alongside the classified error.
func (c *Client) do(ctx context.Context, method, path string, out any) (*apiError, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		if c.operator != "" {
			req.Header.Set("X-Operator-Id", c.operator)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%w: undecodable response: %v", domain.ErrTransientFailure, err)
		}
		return nil, nil
	}

	var body apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &body, classify(resp.StatusCode, body.Error)
}

// classify maps an HTTP status to the error taxonomy shared with the server.
func classify(status int, message string) error {
	var sentinel error
	switch {
	case status == http.StatusNotFound:
		sentinel = domain.ErrTransactionNotFound
	case status == http.StatusConflict:
		sentinel = domain.ErrInvalidStateTransition
	case status == http.StatusUnprocessableEntity:
		sentinel = domain.ErrSettlementBlocked
	case status == http.StatusBadRequest:
		sentinel = domain.ErrValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	default:
		sentinel = domain.ErrTransientFailure
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return fmt.Errorf("%w: %s", sentinel, message)
}

// IsTransient reports whether err leaves the server state unknown.
func IsTransient(err error) bool {
	return errors.Is(err, domain.ErrTransientFailure)
}
