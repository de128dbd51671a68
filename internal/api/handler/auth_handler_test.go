package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kafebilyar/api/internal/api"
	"github.com/kafebilyar/api/internal/api/handler"
	"github.com/kafebilyar/api/internal/core/domain"
	"github.com/kafebilyar/api/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error)
	loginFn      func(ctx context.Context, email, password string) (string, *domain.Customer, error)
	adminLoginFn func(ctx context.Context, username, password string) (string, *domain.Admin, error)
}

func (s *stubAuthService) RegisterCustomer(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) LoginCustomer(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) LoginAdmin(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	return s.adminLoginFn(ctx, username, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

func post(t *testing.T, e *echo.Echo, path, body string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestRegister_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error) {
			if input.Email != "a@x.com" || input.Name != "A" || input.Phone != "123" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "token123", &domain.Customer{ID: "u1", Email: input.Email, Name: input.Name, Phone: input.Phone}, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/register", `{"email":"a@x.com","password":"pw1","name":"A","phone":"123"}`, h.Register)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	resp := decode(t, rec)
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	user := resp["user"].(map[string]any)
	if user["id"] != "u1" || user["email"] != "a@x.com" {
		t.Fatalf("unexpected user projection: %+v", user)
	}
	if _, leaked := user["total_bookings"]; leaked {
		t.Fatalf("registration projection must not include statistics: %+v", user)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error) {
			return "", nil, domain.ErrEmailTaken
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/register", `{"email":"a@x.com","password":"pw1","name":"A","phone":"123"}`, h.Register)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["error"] != "Email already registered" {
		t.Fatalf("unexpected error message: %+v", resp)
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	for _, body := range []string{
		"not-json",
		`{"email":"not-an-email","password":"pw1","name":"A","phone":"123"}`,
		`{"email":"a@x.com","password":"pw1","name":"A"}`,
	} {
		rec := post(t, e, "/api/auth/register", body, h.Register)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRegister_StoreFaultPassesMessageThrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterCustomerInput) (string, *domain.Customer, error) {
			return "", nil, context.DeadlineExceeded
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/register", `{"email":"a@x.com","password":"pw1","name":"A","phone":"123"}`, h.Register)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["error"] != context.DeadlineExceeded.Error() {
		t.Fatalf("expected raw error passthrough, got %+v", resp)
	}
}

func TestLogin_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			if email != "a@x.com" || password != "pw1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Customer{
				ID: "u1", Email: email, Name: "A", Phone: "123",
				TotalBookings: 7, TotalHoursPlayed: 12.5, Rating: 4.5,
			}, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/login", `{"email":"a@x.com","password":"pw1"}`, h.Login)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	user := resp["user"].(map[string]any)
	if user["total_bookings"] != float64(7) || user["rating"] != 4.5 {
		t.Fatalf("statistics missing from login projection: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked: %+v", user)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/login", `{"email":"a@x.com","password":"bad"}`, h.Login)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["error"] != "Invalid credentials" {
		t.Fatalf("unexpected error message: %+v", resp)
	}
}

func TestLogin_Throttled(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Customer, error) {
			return "", nil, domain.ErrTooManyAttempts
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/login", `{"email":"a@x.com","password":"pw1"}`, h.Login)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAdminLogin_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		adminLoginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			if username != "root" {
				t.Fatalf("unexpected username %q", username)
			}
			return "token123", &domain.Admin{
				ID: "adm1", Username: "root", Name: "Root", Email: "root@kafebilyar.test", Role: "manager",
			}, nil
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/admin/login", `{"username":"root","password":"pw1"}`, h.AdminLogin)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode(t, rec)
	user := resp["user"].(map[string]any)
	if user["username"] != "root" || user["role"] != "manager" {
		t.Fatalf("unexpected admin projection: %+v", user)
	}
	if _, present := user["phone"]; present {
		t.Fatalf("admin projection has customer fields: %+v", user)
	}
}

func TestAdminLogin_Inactive(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		adminLoginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			return "", nil, domain.ErrAdminInactive
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/admin/login", `{"username":"root","password":"wrong"}`, h.AdminLogin)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp["error"] != "Admin account is inactive" {
		t.Fatalf("unexpected error message: %+v", resp)
	}
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		adminLoginFn: func(ctx context.Context, username, password string) (string, *domain.Admin, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(stub)

	rec := post(t, e, "/api/auth/admin/login", `{"username":"root","password":"wrong"}`, h.AdminLogin)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
