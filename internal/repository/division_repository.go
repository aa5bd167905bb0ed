package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// DivisionRepo encapsulates database operations for divisions.
// Divisions are maintained by administration; the API only lists them
// so planners can pick one when raising a request.
type DivisionRepo struct {
	db *sql.DB
}

// NewDivisionRepo returns a DivisionRepo bound to the given database.
func NewDivisionRepo(db *sql.DB) *DivisionRepo { return &DivisionRepo{db: db} }

// ListAll returns every division ordered by name.
func (r *DivisionRepo) ListAll(ctx context.Context) ([]model.Division, error) {
	const q = `SELECT id, name, created_at, updated_at FROM divisions ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var divisions []model.Division
	for rows.Next() {
		var d model.Division
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}
