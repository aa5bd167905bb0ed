package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/avetra/workstation-allocation/internal/model"
)

// SeatHoldRepo encapsulates database operations for seat holds.
type SeatHoldRepo struct {
	db *sql.DB
}

// NewSeatHoldRepo returns a SeatHoldRepo bound to the given database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

const holdColumns = `id, request_id, lab_id, position, status, asset_id, division, requestor, created_at, updated_at`

func scanHold(scan func(dest ...any) error) (model.SeatHold, error) {
	var h model.SeatHold
	var assetID sql.NullInt64
	if err := scan(&h.ID, &h.RequestID, &h.LabID, &h.Position, &h.Status, &assetID, &h.Division, &h.Requestor, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return model.SeatHold{}, err
	}
	if assetID.Valid {
		v := int(assetID.Int64)
		h.AssetID = &v
	}
	return h, nil
}

// ListActive returns every pending or approved hold across all labs.
// Rejected holds never block a seat, so they are filtered here rather
// than in every caller.
func (r *SeatHoldRepo) ListActive(ctx context.Context) ([]model.SeatHold, error) {
	const q = `SELECT ` + holdColumns + ` FROM seat_holds WHERE status IN ('PENDING','APPROVED') ORDER BY lab_id, position`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []model.SeatHold
	for rows.Next() {
		h, err := scanHold(rows.Scan)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

// ListPendingByRequest returns the pending holds of one request,
// ordered by lab then position.  Used to resume an interrupted
// session.
func (r *SeatHoldRepo) ListPendingByRequest(ctx context.Context, requestID uint64) ([]model.SeatHold, error) {
	const q = `SELECT ` + holdColumns + ` FROM seat_holds WHERE request_id = ? AND status = 'PENDING' ORDER BY lab_id, position`
	rows, err := r.db.QueryContext(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []model.SeatHold
	for rows.Next() {
		h, err := scanHold(rows.Scan)
		if err != nil {
			return nil, err
		}
		holds = append(holds, h)
	}
	return holds, rows.Err()
}

// CreateMultiple inserts several holds in a single statement.  All
// rows start in PENDING status.
func (r *SeatHoldRepo) CreateMultiple(ctx context.Context, holds []model.SeatHold) error {
	if len(holds) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO seat_holds (request_id, lab_id, position, status, asset_id, division, requestor) VALUES `)
	args := make([]any, 0, len(holds)*7)
	for i, h := range holds {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, 'PENDING', ?, ?, ?)")
		var assetID any
		if h.AssetID != nil {
			assetID = *h.AssetID
		}
		args = append(args, h.RequestID, h.LabID, h.Position, assetID, h.Division, h.Requestor)
	}
	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

// UpdatePending moves a pending hold to a new position (and asset ID)
// within the same lab.  Returns ErrHoldNotFound when no pending row
// matches the old position, which callers treat as "create instead".
func (r *SeatHoldRepo) UpdatePending(ctx context.Context, requestID, labID uint64, oldPosition, newPosition int, assetID *int) error {
	const q = `UPDATE seat_holds SET position = ?, asset_id = ? WHERE request_id = ? AND lab_id = ? AND position = ? AND status = 'PENDING'`
	var id any
	if assetID != nil {
		id = *assetID
	}
	res, err := r.db.ExecContext(ctx, q, newPosition, id, requestID, labID, oldPosition)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHoldNotFound
	}
	return nil
}

// DeletePending removes the pending holds of a request at the given
// positions in one lab.  Approved holds are never touched.
func (r *SeatHoldRepo) DeletePending(ctx context.Context, requestID, labID uint64, positions []int) error {
	if len(positions) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(positions)), ",")
	q := fmt.Sprintf(`DELETE FROM seat_holds WHERE request_id = ? AND lab_id = ? AND status = 'PENDING' AND position IN (%s)`, placeholders)
	args := make([]any, 0, len(positions)+2)
	args = append(args, requestID, labID)
	for _, p := range positions {
		args = append(args, p)
	}
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

// ApproveByRequestTx flips every pending hold of a request to
// APPROVED inside the caller's transaction.
func (r *SeatHoldRepo) ApproveByRequestTx(ctx context.Context, tx *sql.Tx, requestID uint64) error {
	const q = `UPDATE seat_holds SET status = 'APPROVED' WHERE request_id = ? AND status = 'PENDING'`
	_, err := tx.ExecContext(ctx, q, requestID)
	return err
}
