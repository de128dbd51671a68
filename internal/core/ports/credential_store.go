package ports

import (
	"context"
	"errors"
)

// ErrNoRows is returned by FindOne when no row matches the filter.
var ErrNoRows = errors.New("no matching row")

// Filter is a single-column equality match, the only query shape the auth
// flows need.
type Filter struct {
	Column string
	Value  string
}

// CredentialStore abstracts the hosted relational service holding the "users"
// and "admins" tables. Implementations decode the matched/created row into
// dest, which must be a pointer.
type CredentialStore interface {
	FindOne(ctx context.Context, table string, filter Filter, dest any) error
	Insert(ctx context.Context, table string, row any, dest any) error
}
