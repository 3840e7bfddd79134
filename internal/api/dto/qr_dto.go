package dto

import "github.com/spec-kit/pengaduan-service/internal/domain"

// QRResolution tells the landing page what to do with a scanned code:
// jump straight to a form or present the selection menu.
type QRResolution struct {
	Code         string                `json:"code"`
	UnitID       string                `json:"unit_id"`
	UnitName     string                `json:"unit_name"`
	RedirectType domain.QRRedirectType `json:"redirect_type"`
	AutoFillUnit bool                  `json:"auto_fill_unit"`
	ShowOptions  bool                  `json:"show_options"`
	TargetURL    string                `json:"target_url,omitempty"`
}

// UnitPayload is the wire shape of a unit.
type UnitPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// CategoryPayload is the wire shape of a service category.
type CategoryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// FromUnit maps a unit onto the wire.
func FromUnit(unit *domain.Unit) UnitPayload {
	return UnitPayload{ID: unit.ID, Name: unit.Name, Code: unit.Code}
}

// FromCategory maps a category onto the wire.
func FromCategory(category *domain.ServiceCategory) CategoryPayload {
	return CategoryPayload{ID: category.ID, Name: category.Name, Code: category.Code}
}
