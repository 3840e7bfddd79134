package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pengaduan-service/internal/service"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

// QRHandler serves the landing endpoint printed QR codes point at.
type QRHandler struct {
	qr *service.QRService
}

// NewQRHandler constructs handler.
func NewQRHandler(qr *service.QRService) *QRHandler {
	return &QRHandler{qr: qr}
}

// Resolve GET /api/qr-codes/:code.
func (h *QRHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return apperrors.NewValidationError("code required", nil)
	}
	resolution, err := h.qr.Resolve(c.UserContext(), code)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resolution})
}
