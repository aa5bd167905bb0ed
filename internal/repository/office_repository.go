package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// OfficeRepo encapsulates database operations for offices.
type OfficeRepo struct {
	db *sql.DB
}

// NewOfficeRepo returns an OfficeRepo bound to the given database.
func NewOfficeRepo(db *sql.DB) *OfficeRepo { return &OfficeRepo{db: db} }

// ListAll returns every office ordered by name.
func (r *OfficeRepo) ListAll(ctx context.Context) ([]model.Office, error) {
	const q = `SELECT id, name, city, created_at, updated_at FROM offices ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var offices []model.Office
	for rows.Next() {
		var o model.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.City, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		offices = append(offices, o)
	}
	return offices, rows.Err()
}

// GetByID returns one office or ErrOfficeNotFound.
func (r *OfficeRepo) GetByID(ctx context.Context, id uint64) (model.Office, error) {
	const q = `SELECT id, name, city, created_at, updated_at FROM offices WHERE id = ?`
	var o model.Office
	err := r.db.QueryRowContext(ctx, q, id).Scan(&o.ID, &o.Name, &o.City, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Office{}, ErrOfficeNotFound
	}
	if err != nil {
		return model.Office{}, err
	}
	return o, nil
}
