package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Login_StoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] != "alice@example.com" {
			t.Fatalf("unexpected login payload: %v", req)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"user":         map[string]any{"id": "user_1", "email": "alice@example.com"},
			"accessToken":  "acc-1",
			"refreshToken": "ref-1",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Login(context.Background(), "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != "user_1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	access, refresh := c.tokens.Tokens()
	if access != "acc-1" || refresh != "ref-1" {
		t.Fatalf("tokens not stored: %q/%q", access, refresh)
	}
}

func TestClient_RefreshAndReplayOn401(t *testing.T) {
	var profileCalls, refreshCalls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/profile":
			profileCalls++
			if r.Header.Get("Authorization") != "Bearer fresh-acc" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid token"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"user":    map[string]any{"id": "user_1", "name": "Alice"},
			})
		case "/api/auth/refresh-token":
			refreshCalls++
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req["refreshToken"] != "old-ref" {
				t.Fatalf("unexpected refresh payload: %v", req)
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success":      true,
				"accessToken":  "fresh-acc",
				"refreshToken": "fresh-ref",
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.tokens.Save("stale-acc", "old-ref")

	user, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if user.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if profileCalls != 2 || refreshCalls != 1 {
		t.Fatalf("expected one replay after one refresh, got %d/%d", profileCalls, refreshCalls)
	}

	access, refresh := c.tokens.Tokens()
	if access != "fresh-acc" || refresh != "fresh-ref" {
		t.Fatalf("refreshed tokens not stored: %q/%q", access, refresh)
	}
}

func TestClient_SessionExpiredWhenRefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid or expired token"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.tokens.Save("stale-acc", "stale-ref")

	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	access, refresh := c.tokens.Tokens()
	if access != "" || refresh != "" {
		t.Fatalf("session must be cleared, got %q/%q", access, refresh)
	}
}

func TestClient_SessionExpiredWithoutRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "missing authorization header"})
	}))
	defer srv.Close()

	c := New(srv.URL)

	if _, err := c.Profile(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestClient_APIErrorCarriesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "validation failed",
			"errors":  []string{"amount must be greater than zero"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Register(context.Background(), "Alice", "alice@example.com", "pass1234")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "validation failed" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if len(apiErr.Details) != 1 {
		t.Fatalf("expected field messages, got %+v", apiErr.Details)
	}
}

func TestClient_ListQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"transactions": []any{},
			"pagination":   map[string]any{"total": 0, "page": 1, "limit": 10},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.tokens.Save("acc", "ref")

	_, err := c.ListTransactions(context.Background(), ListOptions{
		Page:      2,
		Limit:     25,
		Type:      "expense",
		Search:    "coffee shop",
		SortBy:    "amount",
		MinAmount: 9.99,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := "limit=25&minAmount=9.99&page=2&search=coffee+shop&sortBy=amount&type=expense"
	if gotQuery != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", gotQuery, want)
	}
}
