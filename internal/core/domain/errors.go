package domain

import "errors"

// Auth failure kinds. The HTTP layer maps each to a fixed status code and
// public message; anything else surfaces as an internal error.
var (
	// ErrMissingFields covers registration or login payloads with empty fields.
	ErrMissingFields = errors.New("all fields are required")

	// ErrEmailTaken means a customer row already exists for the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown identity and wrong password,
	// deliberately indistinguishable so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminInactive is returned for deactivated admin accounts. It is
	// checked before password verification, so this path is distinguishable
	// from a wrong password.
	ErrAdminInactive = errors.New("admin account is inactive")

	// ErrTooManyAttempts is returned while a login throttle window is active.
	ErrTooManyAttempts = errors.New("too many failed login attempts")
)
