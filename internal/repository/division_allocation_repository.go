package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// DivisionAllocationRepo encapsulates database operations for the
// committed per-division occupancy records.
type DivisionAllocationRepo struct {
	db *sql.DB
}

// NewDivisionAllocationRepo returns a repo bound to the given database.
func NewDivisionAllocationRepo(db *sql.DB) *DivisionAllocationRepo {
	return &DivisionAllocationRepo{db: db}
}

const allocColumns = `id, lab_id, division, in_use, asset_id_range, created_at, updated_at`

func scanAllocation(scan func(dest ...any) error) (model.DivisionAllocation, error) {
	var a model.DivisionAllocation
	var rangeText sql.NullString
	if err := scan(&a.ID, &a.LabID, &a.Division, &a.InUse, &rangeText, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return model.DivisionAllocation{}, err
	}
	if rangeText.Valid {
		a.AssetIDRange = &rangeText.String
	}
	return a, nil
}

// ListAll returns every committed allocation.
func (r *DivisionAllocationRepo) ListAll(ctx context.Context) ([]model.DivisionAllocation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+allocColumns+` FROM division_allocations ORDER BY lab_id, division`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var allocs []model.DivisionAllocation
	for rows.Next() {
		a, err := scanAllocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

// ListByLab returns the committed allocations of one lab.
func (r *DivisionAllocationRepo) ListByLab(ctx context.Context, labID uint64) ([]model.DivisionAllocation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+allocColumns+` FROM division_allocations WHERE lab_id = ? ORDER BY division`, labID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var allocs []model.DivisionAllocation
	for rows.Next() {
		a, err := scanAllocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

// CreateTx inserts a committed allocation row inside the caller's
// transaction.  The approval workflow writes one row per lab touched
// by the finalized request, always with an explicit identifier range.
func (r *DivisionAllocationRepo) CreateTx(ctx context.Context, tx *sql.Tx, labID uint64, division string, inUse int, rangeText *string) error {
	const q = `INSERT INTO division_allocations (lab_id, division, in_use, asset_id_range) VALUES (?, ?, ?, ?)`
	var rt any
	if rangeText != nil {
		rt = *rangeText
	}
	_, err := tx.ExecContext(ctx, q, labID, division, inUse, rt)
	return err
}
