package ports

import (
	"context"

	"github.com/kafebilyar/api/internal/core/domain"
)

// RegisterCustomerInput carries the fields of a customer registration.
type RegisterCustomerInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// AuthService defines the credential and token issuance use cases. Each
// operation returns the signed access token alongside the principal it was
// minted for.
type AuthService interface {
	RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (string, *domain.Customer, error)
	LoginCustomer(ctx context.Context, email, password string) (string, *domain.Customer, error)
	LoginAdmin(ctx context.Context, username, password string) (string, *domain.Admin, error)
}
