package domain

import "time"

// Clinic is a tenant that onboards doctors through applications.
type Clinic struct {
	ID        int64
	Name      string
	Address   string
	City      string
	Phone     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
