package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// FloorRepo encapsulates database operations for floors.
type FloorRepo struct {
	db *sql.DB
}

// NewFloorRepo returns a FloorRepo bound to the given database.
func NewFloorRepo(db *sql.DB) *FloorRepo { return &FloorRepo{db: db} }

// ListByOffice returns the floors of an office ordered by name.
func (r *FloorRepo) ListByOffice(ctx context.Context, officeID uint64) ([]model.Floor, error) {
	const q = `SELECT id, office_id, name, created_at, updated_at FROM floors WHERE office_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, officeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var floors []model.Floor
	for rows.Next() {
		var f model.Floor
		if err := rows.Scan(&f.ID, &f.OfficeID, &f.Name, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}

// GetByID returns one floor or ErrFloorNotFound.
func (r *FloorRepo) GetByID(ctx context.Context, id uint64) (model.Floor, error) {
	const q = `SELECT id, office_id, name, created_at, updated_at FROM floors WHERE id = ?`
	var f model.Floor
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.OfficeID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Floor{}, ErrFloorNotFound
	}
	if err != nil {
		return model.Floor{}, err
	}
	return f, nil
}
