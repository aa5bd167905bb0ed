package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// LabRepo encapsulates database operations for labs.  Labs are
// read-only to the allocation core; administration maintains them
// elsewhere.
type LabRepo struct {
	db *sql.DB
}

// NewLabRepo returns a LabRepo bound to the given database.
func NewLabRepo(db *sql.DB) *LabRepo { return &LabRepo{db: db} }

const labColumns = `id, floor_id, name, total_workstations, asset_id_range, created_at, updated_at`

func scanLab(scan func(dest ...any) error) (model.Lab, error) {
	var lab model.Lab
	var rangeText sql.NullString
	if err := scan(&lab.ID, &lab.FloorID, &lab.Name, &lab.TotalWorkstations, &rangeText, &lab.CreatedAt, &lab.UpdatedAt); err != nil {
		return model.Lab{}, err
	}
	if rangeText.Valid {
		lab.AssetIDRange = &rangeText.String
	}
	return lab, nil
}

// GetByID returns one lab or ErrLabNotFound.
func (r *LabRepo) GetByID(ctx context.Context, id uint64) (model.Lab, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+labColumns+` FROM labs WHERE id = ?`, id)
	lab, err := scanLab(row.Scan)
	if err == sql.ErrNoRows {
		return model.Lab{}, ErrLabNotFound
	}
	if err != nil {
		return model.Lab{}, err
	}
	return lab, nil
}

// ListByFloor returns the labs of a floor ordered by name.
func (r *LabRepo) ListByFloor(ctx context.Context, floorID uint64) ([]model.Lab, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+labColumns+` FROM labs WHERE floor_id = ? ORDER BY name`, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labs []model.Lab
	for rows.Next() {
		lab, err := scanLab(rows.Scan)
		if err != nil {
			return nil, err
		}
		labs = append(labs, lab)
	}
	return labs, rows.Err()
}

// ListAll returns every lab in the system.
func (r *LabRepo) ListAll(ctx context.Context) ([]model.Lab, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+labColumns+` FROM labs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var labs []model.Lab
	for rows.Next() {
		lab, err := scanLab(rows.Scan)
		if err != nil {
			return nil, err
		}
		labs = append(labs, lab)
	}
	return labs, rows.Err()
}
