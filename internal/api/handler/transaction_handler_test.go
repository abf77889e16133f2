package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/MattStellino/TrackIt/internal/core/domain"
	"github.com/MattStellino/TrackIt/internal/core/ports"
)

// stubTransactionService implements ports.TransactionService with overridable
// functions.
type stubTransactionService struct {
	createFn     func(ctx context.Context, input ports.CreateTransactionInput) (*domain.Transaction, error)
	getFn        func(ctx context.Context, id, userID string) (*domain.Transaction, error)
	updateFn     func(ctx context.Context, id, userID string, input ports.UpdateTransactionInput) (*domain.Transaction, error)
	deleteFn     func(ctx context.Context, id, userID string) error
	bulkDeleteFn func(ctx context.Context, userID string, ids []string) (*ports.BulkDeleteResult, error)
	listFn       func(ctx context.Context, input ports.ListTransactionsInput) (*ports.ListTransactionsResult, error)
	statsFn      func(ctx context.Context, userID string, period ports.StatsPeriod) (*ports.TransactionStats, error)
	categoriesFn func(ctx context.Context, userID string) ([]string, error)
}

func (s *stubTransactionService) Create(ctx context.Context, input ports.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *stubTransactionService) Get(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	return s.getFn(ctx, id, userID)
}

func (s *stubTransactionService) Update(ctx context.Context, id, userID string, input ports.UpdateTransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, id, userID, input)
}

func (s *stubTransactionService) Delete(ctx context.Context, id, userID string) error {
	return s.deleteFn(ctx, id, userID)
}

func (s *stubTransactionService) BulkDelete(ctx context.Context, userID string, ids []string) (*ports.BulkDeleteResult, error) {
	return s.bulkDeleteFn(ctx, userID, ids)
}

func (s *stubTransactionService) List(ctx context.Context, input ports.ListTransactionsInput) (*ports.ListTransactionsResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubTransactionService) Stats(ctx context.Context, userID string, period ports.StatsPeriod) (*ports.TransactionStats, error) {
	return s.statsFn(ctx, userID, period)
}

func (s *stubTransactionService) Categories(ctx context.Context, userID string) ([]string, error) {
	return s.categoriesFn(ctx, userID)
}

func testTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:        "tx_1",
		UserID:    "user_1",
		Type:      domain.TypeExpense,
		Amount:    42.50,
		Category:  "food",
		Date:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	var got ports.CreateTransactionInput
	svc := &stubTransactionService{
		createFn: func(_ context.Context, input ports.CreateTransactionInput) (*domain.Transaction, error) {
			got = input
			return testTransaction(), nil
		},
	}
	h := NewTransactionHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":42.5,"category":"food","date":"2025-06-15"}`)
	c.Set("user_id", "user_1")
	if err := h.Create(c); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.UserID != "user_1" {
		t.Fatalf("expected owner from auth context, got %q", got.UserID)
	}
	if !got.Date.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed date, got %v", got.Date)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	tx, _ := resp["transaction"].(map[string]any)
	if tx["amount"] != 42.5 {
		t.Fatalf("expected transaction in response, got %v", resp)
	}
}

func TestTransactionHandler_Create_InvalidType(t *testing.T) {
	h := NewTransactionHandler(&stubTransactionService{})

	c, _ := newJSONContext(t, http.MethodPost, "/api/transactions",
		`{"type":"transfer","amount":10,"category":"food"}`)
	c.Set("user_id", "user_1")
	err := h.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTransactionHandler_Create_BadDate(t *testing.T) {
	h := NewTransactionHandler(&stubTransactionService{})

	c, _ := newJSONContext(t, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":10,"category":"food","date":"15/06/2025"}`)
	c.Set("user_id", "user_1")
	err := h.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for malformed date, got %v", err)
	}
}

func TestTransactionHandler_Create_RequiresAuthContext(t *testing.T) {
	h := NewTransactionHandler(&stubTransactionService{})

	c, _ := newJSONContext(t, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":10,"category":"food"}`)
	err := h.Create(c)
	if err == nil {
		t.Fatalf("expected error without auth context")
	}
}

func TestTransactionHandler_List_BindsQueryParams(t *testing.T) {
	var got ports.ListTransactionsInput
	svc := &stubTransactionService{
		listFn: func(_ context.Context, input ports.ListTransactionsInput) (*ports.ListTransactionsResult, error) {
			got = input
			return &ports.ListTransactionsResult{
				Items: []*domain.Transaction{testTransaction()},
				Total: 1, Page: 2, Limit: 5, TotalPages: 1,
			}, nil
		},
	}
	h := NewTransactionHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet,
		"/api/transactions?page=2&limit=5&type=expense&category=food&startDate=2025-01-01&minAmount=10&search=coffee&sortBy=amount&sortOrder=asc", "")
	c.Set("user_id", "user_1")
	if err := h.List(c); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if got.Page != 2 || got.Limit != 5 || got.Type != "expense" || got.Search != "coffee" {
		t.Fatalf("query params not forwarded: %+v", got)
	}
	if got.SortBy != "amount" || got.SortOrder != "asc" {
		t.Fatalf("sort params not forwarded: %+v", got)
	}
	if !got.DateFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed startDate, got %v", got.DateFrom)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	pagination, _ := resp["pagination"].(map[string]any)
	if pagination["total"] != float64(1) {
		t.Fatalf("expected pagination block, got %v", resp)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	svc := &stubTransactionService{
		getFn: func(_ context.Context, id, userID string) (*domain.Transaction, error) {
			return nil, domain.ErrTransactionNotFound
		},
	}
	h := NewTransactionHandler(svc)

	c, _ := newJSONContext(t, http.MethodGet, "/api/transactions/xyz", "")
	c.SetParamNames("id")
	c.SetParamValues("xyz")
	c.Set("user_id", "user_1")
	if err := h.Get(c); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionHandler_Update_ForwardsPartialFields(t *testing.T) {
	var got ports.UpdateTransactionInput
	svc := &stubTransactionService{
		updateFn: func(_ context.Context, id, userID string, input ports.UpdateTransactionInput) (*domain.Transaction, error) {
			got = input
			return testTransaction(), nil
		},
	}
	h := NewTransactionHandler(svc)

	c, _ := newJSONContext(t, http.MethodPut, "/api/transactions/tx_1", `{"amount":99.9}`)
	c.SetParamNames("id")
	c.SetParamValues("tx_1")
	c.Set("user_id", "user_1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if got.Amount == nil || *got.Amount != 99.9 {
		t.Fatalf("expected amount pointer 99.9, got %+v", got.Amount)
	}
	if got.Category != nil || got.Type != nil || got.Description != nil {
		t.Fatalf("absent fields must stay nil, got %+v", got)
	}
}

func TestTransactionHandler_BulkDelete_Success(t *testing.T) {
	svc := &stubTransactionService{
		bulkDeleteFn: func(_ context.Context, userID string, ids []string) (*ports.BulkDeleteResult, error) {
			if len(ids) != 2 {
				t.Fatalf("expected 2 ids, got %v", ids)
			}
			return &ports.BulkDeleteResult{DeletedCount: 2}, nil
		},
	}
	h := NewTransactionHandler(svc)

	c, rec := newJSONContext(t, http.MethodDelete, "/api/transactions/bulk",
		`{"ids":["tx_1","tx_2"]}`)
	c.Set("user_id", "user_1")
	if err := h.BulkDelete(c); err != nil {
		t.Fatalf("bulk delete failed: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["deletedCount"] != float64(2) {
		t.Fatalf("expected deletedCount 2, got %v", resp)
	}
}

func TestTransactionHandler_Stats_DefaultsToMonth(t *testing.T) {
	svc := &stubTransactionService{
		statsFn: func(_ context.Context, userID string, period ports.StatsPeriod) (*ports.TransactionStats, error) {
			if period != ports.PeriodMonth {
				t.Fatalf("expected default period month, got %s", period)
			}
			return &ports.TransactionStats{Period: period}, nil
		},
	}
	h := NewTransactionHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/api/transactions/stats", "")
	c.Set("user_id", "user_1")
	if err := h.Stats(c); err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["period"] != "month" {
		t.Fatalf("expected period month in response, got %v", resp)
	}
}

func TestTransactionHandler_Categories_EmptyIsArray(t *testing.T) {
	svc := &stubTransactionService{
		categoriesFn: func(_ context.Context, userID string) ([]string, error) { return nil, nil },
	}
	h := NewTransactionHandler(svc)

	c, rec := newJSONContext(t, http.MethodGet, "/api/transactions/categories", "")
	c.Set("user_id", "user_1")
	if err := h.Categories(c); err != nil {
		t.Fatalf("categories failed: %v", err)
	}

	var resp struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Categories == nil {
		t.Fatalf("categories must serialize as [], not null")
	}
}
