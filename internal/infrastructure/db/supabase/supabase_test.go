package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kafebilyar/api/internal/core/domain"
	"github.com/kafebilyar/api/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{URL: srv.URL, APIKey: "anon-key", ServiceKey: "service-key"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestFindOne_Hit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/users" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "eq.a@x.com" {
			t.Fatalf("unexpected filter %q", got)
		}
		if r.URL.Query().Get("limit") != "1" {
			t.Fatalf("limit=1 not requested")
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Fatalf("apikey header missing")
		}
		if r.Header.Get("Authorization") != "Bearer service-key" {
			t.Fatalf("service key not used for authorization")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"u1","email":"a@x.com","password_hash":"h","name":"A","phone":"123","total_bookings":2,"total_hours_played":5.5,"rating":4.5}]`))
	})

	var cust domain.Customer
	err := client.FindOne(context.Background(), "users", ports.Filter{Column: "email", Value: "a@x.com"}, &cust)
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if cust.ID != "u1" || cust.Rating != 4.5 || cust.TotalBookings != 2 {
		t.Fatalf("row not decoded: %+v", cust)
	}
}

func TestFindOne_NoRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	var cust domain.Customer
	err := client.FindOne(context.Background(), "users", ports.Filter{Column: "email", Value: "ghost@x.com"}, &cust)
	if err != ports.ErrNoRows {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestFindOne_ErrorSurfacesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"database is paused"}`))
	})

	var cust domain.Customer
	err := client.FindOne(context.Background(), "users", ports.Filter{Column: "email", Value: "a@x.com"}, &cust)
	if err == nil || !strings.Contains(err.Error(), "database is paused") {
		t.Fatalf("expected raw body in error, got %v", err)
	}
}

func TestInsert_ReturnsRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/users" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Fatalf("Prefer header missing")
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if row["email"] != "a@x.com" || row["password_hash"] == "" {
			t.Fatalf("unexpected row: %+v", row)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"u9","email":"a@x.com","password_hash":"h","name":"A","phone":"123"}]`))
	})

	row := map[string]any{"email": "a@x.com", "password_hash": "h", "name": "A", "phone": "123"}
	var created domain.Customer
	if err := client.Insert(context.Background(), "users", row, &created); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID != "u9" {
		t.Fatalf("server-generated id not decoded: %+v", created)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{APIKey: "k"}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if _, err := New(Config{URL: "https://x.supabase.co"}); err == nil {
		t.Fatalf("expected error for empty API key")
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if err := down.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure")
	}
}
