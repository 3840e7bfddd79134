package domain

import "time"

// QRRedirectType is a QR code's configured destination: a menu of
// choices or a direct jump to one form.
type QRRedirectType string

const (
	RedirectSelection      QRRedirectType = "selection"
	RedirectInternalTicket QRRedirectType = "internal_ticket"
	RedirectExternalTicket QRRedirectType = "external_ticket"
	RedirectSurvey         QRRedirectType = "survey"
)

// QRCode is a printed entry point into the submission flow.
type QRCode struct {
	ID           string
	Code         string
	UnitID       string
	RedirectType QRRedirectType
	AutoFillUnit bool
	ShowOptions  bool
	TargetURL    *string
	IsActive     bool
	ScanCount    int64
	CreatedAt    time.Time
}
