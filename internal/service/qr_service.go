package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/api/dto"
	"github.com/spec-kit/pengaduan-service/internal/cache"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

// QRService resolves printed QR codes into landing instructions: which
// unit to pre-fill and whether to show the selection menu or jump
// straight to a form.
type QRService struct {
	codes     repository.QRCodeRepository
	reference repository.ReferenceRepository
	cache     cache.Cache
	logger    *zap.Logger
}

// NewQRService builds the service. The cache is optional; QR codes are
// printed material and change rarely, so resolutions cache well.
func NewQRService(codes repository.QRCodeRepository, reference repository.ReferenceRepository, resolutionCache cache.Cache, logger *zap.Logger) *QRService {
	return &QRService{codes: codes, reference: reference, cache: resolutionCache, logger: logger}
}

// Resolve looks up a scanned code, bumps its scan counter and returns
// the landing instruction. Inactive and unknown codes are both reported
// as not found so the landing page shows a single "invalid code" state.
func (s *QRService) Resolve(ctx context.Context, code string) (*dto.QRResolution, error) {
	if cached := s.fromCache(ctx, code); cached != nil {
		s.countScan(ctx, cached.Code, cached.ID)
		return &cached.Resolution, nil
	}

	qr, err := s.codes.GetByCode(ctx, code)
	if err != nil {
		return nil, apperrors.NewNotFound("qr code", map[string]any{"code": code})
	}
	if !qr.IsActive {
		return nil, apperrors.NewNotFound("qr code", map[string]any{"code": code})
	}

	unit, err := s.reference.GetUnitByID(ctx, qr.UnitID)
	if err != nil {
		return nil, err
	}

	resolution := dto.QRResolution{
		Code:         qr.Code,
		UnitID:       unit.ID,
		UnitName:     unit.Name,
		RedirectType: qr.RedirectType,
		AutoFillUnit: qr.AutoFillUnit,
		ShowOptions:  qr.ShowOptions || qr.RedirectType == domain.RedirectSelection,
	}
	if qr.TargetURL != nil {
		resolution.TargetURL = *qr.TargetURL
	}

	s.countScan(ctx, qr.Code, qr.ID)
	s.store(ctx, qr.ID, resolution)
	return &resolution, nil
}

type cachedResolution struct {
	ID         string           `json:"id"`
	Code       string           `json:"code"`
	Resolution dto.QRResolution `json:"resolution"`
}

func (s *QRService) fromCache(ctx context.Context, code string) *cachedResolution {
	if s.cache == nil {
		return nil
	}
	payload, ok := s.cache.Get(ctx, "qr:"+code)
	if !ok {
		return nil
	}
	var cached cachedResolution
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *QRService) store(ctx context.Context, id string, resolution dto.QRResolution) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(cachedResolution{ID: id, Code: resolution.Code, Resolution: resolution})
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, "qr:"+resolution.Code, payload)
}

// countScan is best effort; a lost increment never blocks the landing page.
func (s *QRService) countScan(ctx context.Context, code, id string) {
	if err := s.codes.IncrementScanCount(ctx, id); err != nil {
		s.logger.Warn("scan count increment failed", zap.String("code", code), zap.Error(err))
	}
}
