// Package client is a Go client for the TrackIt API. It stores the session's
// token pair and transparently recovers from expired access tokens: on a 401
// it refreshes once and replays the original call; if that also fails the
// local session is cleared and ErrSessionExpired is returned.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// ErrSessionExpired is returned when the access token is rejected and the
// refresh attempt fails too. The caller must re-authenticate.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// TokenStore holds the session's token pair. Implementations must be safe
// for concurrent use.
type TokenStore interface {
	Tokens() (access, refresh string)
	Save(access, refresh string)
	Clear()
}

type memoryTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (s *memoryTokenStore) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

func (s *memoryTokenStore) Save(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
}

func (s *memoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
}

// Client calls the TrackIt API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore replaces the default in-memory token store, e.g. with one
// persisted to disk.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// New returns a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  &memoryTokenStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authPayload struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and stores the issued token pair.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	var out authPayload
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out, false); err != nil {
		return nil, err
	}
	c.tokens.Save(out.AccessToken, out.RefreshToken)
	return &out.User, nil
}

// Login authenticates and stores the issued token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out, false); err != nil {
		return nil, err
	}
	c.tokens.Save(out.AccessToken, out.RefreshToken)
	return &out.User, nil
}

// Logout tells the server goodbye and drops the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, true)
	c.tokens.Clear()
	return err
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, in CreateTransaction) (*Transaction, error) {
	var out struct {
		Transaction Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/transactions", in, &out, true); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// ListTransactions fetches one page of transactions.
func (c *Client) ListTransactions(ctx context.Context, opts ListOptions) (*TransactionPage, error) {
	var out TransactionPage
	path := "/api/transactions" + listQuery(opts)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a single transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+url.PathEscape(id), nil, nil, true)
}

// BulkDelete removes the caller's transactions among ids and returns how
// many were deleted.
func (c *Client) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	var out struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	body := map[string][]string{"ids": ids}
	if err := c.do(ctx, http.MethodDelete, "/api/transactions/bulk", body, &out, true); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// GetStats fetches aggregate statistics for a period
// (today/week/month/year/all).
func (c *Client) GetStats(ctx context.Context, period string) (*Stats, error) {
	var out Stats
	path := "/api/transactions/stats"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one API call. Authenticated calls that come back 401 trigger a
// single refresh-and-replay; a second failure clears the session.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	resp, err := c.send(ctx, method, path, body, authed)
	if err != nil {
		return err
	}

	if authed && resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		if err := c.refresh(ctx); err != nil {
			c.tokens.Clear()
			return ErrSessionExpired
		}
		resp, err = c.send(ctx, method, path, body, authed)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			c.tokens.Clear()
			return ErrSessionExpired
		}
	}

	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		access, _ := c.tokens.Tokens()
		req.Header.Set("Authorization", "Bearer "+access)
	}

	return c.http.Do(req)
}

func (c *Client) refresh(ctx context.Context) error {
	_, refresh := c.tokens.Tokens()
	if refresh == "" {
		return ErrSessionExpired
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh-token", map[string]string{"refreshToken": refresh}, false)
	if err != nil {
		return err
	}

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := decode(resp, &out); err != nil {
		return err
	}
	c.tokens.Save(out.AccessToken, out.RefreshToken)
	return nil
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Details = envelope.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func drain(resp *http.Response) {
	_ = resp.Body.Close()
}

func listQuery(opts ListOptions) string {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.StartDate != "" {
		q.Set("startDate", opts.StartDate)
	}
	if opts.EndDate != "" {
		q.Set("endDate", opts.EndDate)
	}
	if opts.MinAmount > 0 {
		q.Set("minAmount", strconv.FormatFloat(opts.MinAmount, 'f', -1, 64))
	}
	if opts.MaxAmount > 0 {
		q.Set("maxAmount", strconv.FormatFloat(opts.MaxAmount, 'f', -1, 64))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.SortBy != "" {
		q.Set("sortBy", opts.SortBy)
	}
	if opts.SortOrder != "" {
		q.Set("sortOrder", opts.SortOrder)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
