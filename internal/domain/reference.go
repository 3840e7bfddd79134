package domain

import "time"

// Unit is an organizational department that owns tickets routed to it.
// Units and categories are reference data owned by an external
// administrative system; this service reads them only.
type Unit struct {
	ID        string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
}

// ServiceCategory classifies the service a ticket is about.
type ServiceCategory struct {
	ID        string
	Name      string
	Code      string
	IsActive  bool
	CreatedAt time.Time
}
