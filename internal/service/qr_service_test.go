package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/cache"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

type fakeQRRepo struct {
	codes      map[string]*domain.QRCode
	increments map[string]int
}

func (r *fakeQRRepo) GetByCode(_ context.Context, code string) (*domain.QRCode, error) {
	qr, ok := r.codes[code]
	if !ok {
		return nil, apperrors.NewNotFound("qr code", nil)
	}
	return qr, nil
}

func (r *fakeQRRepo) IncrementScanCount(_ context.Context, id string) error {
	if r.increments == nil {
		r.increments = map[string]int{}
	}
	r.increments[id]++
	return nil
}

func newQRFixture() (*QRService, *fakeQRRepo) {
	repo := &fakeQRRepo{codes: map[string]*domain.QRCode{
		"IGD-01": {
			ID:           "qr-1",
			Code:         "IGD-01",
			UnitID:       "unit-igd",
			RedirectType: domain.RedirectInternalTicket,
			AutoFillUnit: true,
			IsActive:     true,
		},
		"OLD-99": {
			ID:           "qr-2",
			Code:         "OLD-99",
			UnitID:       "unit-igd",
			RedirectType: domain.RedirectSelection,
			IsActive:     false,
		},
	}}
	reference := &fakeReferenceRepo{
		units: map[string]*domain.Unit{
			"unit-igd": {ID: "unit-igd", Name: "Instalasi Gawat Darurat", Code: "IGD", IsActive: true},
		},
	}
	return NewQRService(repo, reference, nil, zap.NewNop()), repo
}

func TestQRResolveReturnsLandingInstruction(t *testing.T) {
	svc, repo := newQRFixture()

	resolution, err := svc.Resolve(context.Background(), "IGD-01")
	require.NoError(t, err)
	assert.Equal(t, "unit-igd", resolution.UnitID)
	assert.Equal(t, "Instalasi Gawat Darurat", resolution.UnitName)
	assert.Equal(t, domain.RedirectInternalTicket, resolution.RedirectType)
	assert.True(t, resolution.AutoFillUnit)
	assert.False(t, resolution.ShowOptions)
	assert.Equal(t, 1, repo.increments["qr-1"])
}

func TestQRResolveSelectionShowsOptions(t *testing.T) {
	svc, repo := newQRFixture()
	repo.codes["MENU-01"] = &domain.QRCode{
		ID:           "qr-3",
		Code:         "MENU-01",
		UnitID:       "unit-igd",
		RedirectType: domain.RedirectSelection,
		IsActive:     true,
	}

	resolution, err := svc.Resolve(context.Background(), "MENU-01")
	require.NoError(t, err)
	assert.True(t, resolution.ShowOptions)
}

func TestQRResolveRejectsInactiveAndUnknownCodes(t *testing.T) {
	svc, repo := newQRFixture()
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "OLD-99")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	assert.Zero(t, repo.increments["qr-2"], "inactive codes are not counted")

	_, err = svc.Resolve(ctx, "NOPE")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestQRResolveCountsEveryScanEvenWhenCached(t *testing.T) {
	repo := &fakeQRRepo{codes: map[string]*domain.QRCode{
		"IGD-01": {
			ID:           "qr-1",
			Code:         "IGD-01",
			UnitID:       "unit-igd",
			RedirectType: domain.RedirectInternalTicket,
			AutoFillUnit: true,
			IsActive:     true,
		},
	}}
	reference := &fakeReferenceRepo{
		units: map[string]*domain.Unit{
			"unit-igd": {ID: "unit-igd", Name: "Instalasi Gawat Darurat", Code: "IGD", IsActive: true},
		},
	}
	resolutions := cache.NewMemoryCache(time.Minute, nil)
	svc := NewQRService(repo, reference, resolutions, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "IGD-01")
	require.NoError(t, err)
	second, err := svc.Resolve(ctx, "IGD-01")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, repo.increments["qr-1"], "cache hits still count as scans")
}
