package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/me/roadwatch/pkg/model"
)

// newTestClient points a client with fast retries at the given test server.
func newTestClient(t *testing.T, srv *httptest.Server, token string) *Client {
	t.Helper()
	cfg := DefaultConfig().
		WithBaseURL(srv.URL).
		WithToken(token).
		WithRetries(2, time.Millisecond)
	return NewClient(cfg, nil)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send an Authorization header")
		}
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.c" || req.Password != "secret" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1", "userId": "42", "role": "admin",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	res, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !res.Complete() {
		t.Fatalf("expected complete credential set, got %+v", res)
	}
	if res.Token != "tok-1" || res.UserID != "42" || res.Role != "admin" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestLogin_NumericUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1", "userId": 42, "role": "user",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	res, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.UserID != "42" {
		t.Errorf("numeric userId must decode to %q, got %q", "42", res.UserID)
	}
	if !res.Complete() {
		t.Errorf("expected complete credential set, got %+v", res)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid credentials" {
		t.Errorf("expected backend message to surface, got %v", err)
	}
}

func TestAuthedEndpoint_RequiresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server without a token")
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	_, err := c.MyReports(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestMyReports_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-7" {
			t.Errorf("Authorization = %q, want Bearer tok-7", got)
		}
		json.NewEncoder(w).Encode([]model.Report{
			{ID: 1, Description: "pothole", SeverityLevel: "high"},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok-7")
	reports, err := c.MyReports(context.Background())
	if err != nil {
		t.Fatalf("MyReports failed: %v", err)
	}
	if len(reports) != 1 || reports[0].Description != "pothole" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestAdminAlerts_Envelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"alerts": []model.Alert{
				{AlertID: 5, AlertStatus: model.AlertStatusUnread},
				{AlertID: 6, AlertStatus: model.AlertStatusRead},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	alerts, err := c.AdminAlerts(context.Background())
	if err != nil {
		t.Fatalf("AdminAlerts failed: %v", err)
	}
	if len(alerts) != 2 || alerts[0].AlertID != 5 {
		t.Errorf("unexpected alerts: %+v", alerts)
	}
}

func TestMarkAlertRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" || r.URL.Path != "/alerts/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			AlertStatus string `json:"alert_status"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.AlertStatus != model.AlertStatusRead {
			t.Errorf("alert_status = %q, want Read", req.AlertStatus)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	if err := c.MarkAlertRead(context.Background(), 42); err != nil {
		t.Fatalf("MarkAlertRead failed: %v", err)
	}
}

func TestDo_RetriesServerFaults(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode([]model.Report{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	if _, err := c.MyReports(context.Background()); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDo_RetriesTransportFaults(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			// Drop the connection mid-request so the client sees a
			// transport error rather than an HTTP status.
			conn, _, err := w.(http.Hijacker).Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close()
			return
		}
		json.NewEncoder(w).Encode([]model.Report{})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	if _, err := c.MyReports(context.Background()); err != nil {
		t.Fatalf("expected retries to ride out dropped connections, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDo_NoRetryOnCancellation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(t, srv, "tok")
	if _, err := c.MyReports(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls.Load() > 1 {
		t.Errorf("canceled context must not retry, got %d attempts", calls.Load())
	}
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	if _, err := c.MyReports(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt for a 400, got %d", calls.Load())
	}
}

func TestDo_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "tok")
	_, err := c.MyReports(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestUserLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/42/location" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.AreaLocation{
			Name: "Ward 3", Latitude: 12.9, Longitude: 77.6, Radius: 5,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv, "")
	loc, err := c.UserLocation(context.Background(), "42")
	if err != nil {
		t.Fatalf("UserLocation failed: %v", err)
	}
	if loc.Name != "Ward 3" || loc.Radius != 5 {
		t.Errorf("unexpected location: %+v", loc)
	}
}
