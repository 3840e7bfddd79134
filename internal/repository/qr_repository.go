package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// QRCodeRepository resolves printed QR codes to their landing config.
type QRCodeRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.QRCode, error)
	IncrementScanCount(ctx context.Context, id string) error
}

type qrCodeRepository struct {
	pool *pgxpool.Pool
}

// NewQRCodeRepository builds repository.
func NewQRCodeRepository(pool *pgxpool.Pool) QRCodeRepository {
	return &qrCodeRepository{pool: pool}
}

func (r *qrCodeRepository) GetByCode(ctx context.Context, code string) (*domain.QRCode, error) {
	const query = `
        SELECT id, code, unit_id, redirect_type, auto_fill_unit, show_options, target_url,
               is_active, scan_count, created_at
        FROM qr_codes WHERE code=$1`
	var qr domain.QRCode
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&qr.ID,
		&qr.Code,
		&qr.UnitID,
		&qr.RedirectType,
		&qr.AutoFillUnit,
		&qr.ShowOptions,
		&qr.TargetURL,
		&qr.IsActive,
		&qr.ScanCount,
		&qr.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &qr, nil
}

func (r *qrCodeRepository) IncrementScanCount(ctx context.Context, id string) error {
	const query = `UPDATE qr_codes SET scan_count = scan_count + 1 WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
