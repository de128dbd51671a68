package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kafebilyar/api/internal/core/domain"
	"github.com/kafebilyar/api/internal/core/ports"
)

// Store tables holding credentials. Schema is owned by the hosted service.
const (
	usersTable  = "users"
	adminsTable = "admins"
)

// LoginThrottle abstracts the failed-login counter (Redis). A nil throttle
// disables throttling entirely.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuthService implements customer registration and customer/admin login.
type AuthService struct {
	store    ports.CredentialStore
	tokens   *TokenIssuer
	throttle LoginThrottle
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, tokens *TokenIssuer, throttle LoginThrottle, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &AuthService{
		store:    store,
		tokens:   tokens,
		throttle: throttle,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// newCustomerRow is the insert shape for the users table; the store generates
// id, created_at and the statistics defaults.
type newCustomerRow struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
}

// RegisterCustomer creates a customer account and issues its first token.
func (s *AuthService) RegisterCustomer(ctx context.Context, in ports.RegisterCustomerInput) (string, *domain.Customer, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Phone == "" {
		return "", nil, domain.ErrMissingFields
	}

	var existing domain.Customer
	err := s.store.FindOne(ctx, usersTable, ports.Filter{Column: "email", Value: in.Email}, &existing)
	switch {
	case err == nil:
		return "", nil, domain.ErrEmailTaken
	case err != ports.ErrNoRows:
		return "", nil, fmt.Errorf("lookup customer: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	var created domain.Customer
	row := newCustomerRow{Email: in.Email, PasswordHash: hash, Name: in.Name, Phone: in.Phone}
	if err := s.store.Insert(ctx, usersTable, row, &created); err != nil {
		return "", nil, fmt.Errorf("insert customer: %w", err)
	}

	token, err := s.tokens.Issue(map[string]any{
		"sub":  created.ID,
		"type": domain.PrincipalCustomer,
	}, s.tokenTTL)
	if err != nil {
		// Non-atomic: the row already exists at this point.
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("customer_id", created.ID).Msg("customer registered")
	return token, &created, nil
}

// LoginCustomer authenticates a customer by email and password.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (string, *domain.Customer, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	key := domain.PrincipalCustomer + ":" + email
	if err := s.checkThrottle(ctx, key); err != nil {
		return "", nil, err
	}

	var cust domain.Customer
	err := s.store.FindOne(ctx, usersTable, ports.Filter{Column: "email", Value: email}, &cust)
	if err == ports.ErrNoRows {
		s.recordFailure(ctx, key)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup customer: %w", err)
	}

	if !VerifyPassword(password, cust.PasswordHash) {
		s.recordFailure(ctx, key)
		return "", nil, domain.ErrInvalidCredentials
	}
	s.resetThrottle(ctx, key)

	token, err := s.tokens.Issue(map[string]any{
		"sub":  cust.ID,
		"type": domain.PrincipalCustomer,
	}, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("customer_id", cust.ID).Msg("customer logged in")
	return token, &cust, nil
}

// LoginAdmin authenticates an admin by username and password. Inactive
// accounts are rejected before the password is checked, so that outcome is
// reported even when the password is also wrong.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	key := domain.PrincipalAdmin + ":" + username
	if err := s.checkThrottle(ctx, key); err != nil {
		return "", nil, err
	}

	var admin domain.Admin
	err := s.store.FindOne(ctx, adminsTable, ports.Filter{Column: "username", Value: username}, &admin)
	if err == ports.ErrNoRows {
		s.recordFailure(ctx, key)
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("lookup admin: %w", err)
	}

	if !admin.IsActive {
		return "", nil, domain.ErrAdminInactive
	}

	if !VerifyPassword(password, admin.PasswordHash) {
		s.recordFailure(ctx, key)
		return "", nil, domain.ErrInvalidCredentials
	}
	s.resetThrottle(ctx, key)

	token, err := s.tokens.Issue(map[string]any{
		"sub":  admin.ID,
		"type": domain.PrincipalAdmin,
		"role": admin.Role,
	}, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("admin_id", admin.ID).Str("role", admin.Role).Msg("admin logged in")
	return token, &admin, nil
}

// checkThrottle fails the login while the throttle window is active. Throttle
// store errors fail open with a warning.
func (s *AuthService) checkThrottle(ctx context.Context, key string) error {
	if s.throttle == nil {
		return nil
	}
	blocked, err := s.throttle.TooManyFailures(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("throttle check failed, allowing login")
		return nil
	}
	if blocked {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetThrottle(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to reset login throttle")
	}
}
