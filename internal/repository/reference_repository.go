package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pengaduan-service/internal/domain"
)

// ReferenceRepository reads the unit and category lookup tables.
// Reference data is owned by an external administrative system; this
// service never writes it outside migrations.
type ReferenceRepository interface {
	GetUnitByID(ctx context.Context, id string) (*domain.Unit, error)
	ListActiveUnits(ctx context.Context) ([]domain.Unit, error)
	GetCategoryByID(ctx context.Context, id string) (*domain.ServiceCategory, error)
	ListActiveCategories(ctx context.Context) ([]domain.ServiceCategory, error)
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository builds repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) GetUnitByID(ctx context.Context, id string) (*domain.Unit, error) {
	const query = `SELECT id, name, code, is_active, created_at FROM units WHERE id=$1`
	var unit domain.Unit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&unit.ID, &unit.Name, &unit.Code, &unit.IsActive, &unit.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *referenceRepository) ListActiveUnits(ctx context.Context) ([]domain.Unit, error) {
	const query = `SELECT id, name, code, is_active, created_at FROM units WHERE is_active ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Unit
	for rows.Next() {
		var unit domain.Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Code, &unit.IsActive, &unit.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, unit)
	}
	return result, rows.Err()
}

func (r *referenceRepository) GetCategoryByID(ctx context.Context, id string) (*domain.ServiceCategory, error) {
	const query = `SELECT id, name, code, is_active, created_at FROM service_categories WHERE id=$1`
	var category domain.ServiceCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Code, &category.IsActive, &category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *referenceRepository) ListActiveCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	const query = `SELECT id, name, code, is_active, created_at FROM service_categories WHERE is_active ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceCategory
	for rows.Next() {
		var category domain.ServiceCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Code, &category.IsActive, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}
