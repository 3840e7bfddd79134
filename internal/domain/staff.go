package domain

import "time"

// StaffRole enumerates the dashboard roles tickets escalate through.
type StaffRole string

const (
	StaffRoleUnitHead StaffRole = "unit_head"
	StaffRoleManager  StaffRole = "manager"
	StaffRoleDirector StaffRole = "director"
	StaffRoleAdmin    StaffRole = "admin"
)

// StaffMember models an internal operator.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	UnitID       *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
