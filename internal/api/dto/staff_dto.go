package dto

import (
	"time"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffLoginResponse payload.
type StaffLoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Staff     StaffPayload `json:"staff"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// StaffPayload is the wire shape of a staff member; the password hash
// never leaves the service.
type StaffPayload struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Email  string           `json:"email"`
	Role   domain.StaffRole `json:"role"`
	UnitID *string          `json:"unit_id"`
}

// FromStaff maps a staff member onto the wire.
func FromStaff(staff *domain.StaffMember) StaffPayload {
	return StaffPayload{
		ID:     staff.ID,
		Name:   staff.Name,
		Email:  staff.Email,
		Role:   staff.Role,
		UnitID: staff.UnitID,
	}
}
