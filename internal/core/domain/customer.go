package domain

import "time"

// Principal types embedded in the "type" claim of issued tokens.
const (
	PrincipalCustomer = "customer"
	PrincipalAdmin    = "admin"
)

// Customer models a registered app user. Field tags match the columns of the
// hosted "users" table; the struct is decoded straight from store rows and is
// never serialised to clients (handlers own their own projections).
type Customer struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"password_hash"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	TotalBookings    int       `json:"total_bookings"`
	TotalHoursPlayed float64   `json:"total_hours_played"`
	Rating           float64   `json:"rating"`
	CreatedAt        time.Time `json:"created_at"`
}
