package repository

import (
	"context"
	"database/sql"

	"github.com/avetra/workstation-allocation/internal/model"
)

// RequestRepo encapsulates database operations for workstation
// requests.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

const requestColumns = `id, division, required_count, status, requestor, created_at, updated_at`

func scanRequest(scan func(dest ...any) error) (model.Request, error) {
	var req model.Request
	err := scan(&req.ID, &req.Division, &req.Required, &req.Status, &req.Requestor, &req.CreatedAt, &req.UpdatedAt)
	return req, err
}

// GetByID returns one request or ErrRequestNotFound.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.Request, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return model.Request{}, ErrRequestNotFound
	}
	if err != nil {
		return model.Request{}, err
	}
	return req, nil
}

// ListAll returns every request, newest first.
func (r *RequestRepo) ListAll(ctx context.Context) ([]model.Request, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var reqs []model.Request
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Create inserts a new pending request and returns its ID.
func (r *RequestRepo) Create(ctx context.Context, division string, required int, requestor string) (uint64, error) {
	const q = `INSERT INTO requests (division, required_count, status, requestor) VALUES (?, ?, 'PENDING', ?)`
	res, err := r.db.ExecContext(ctx, q, division, required, requestor)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateStatus sets the status of a request.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE requests SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// UpdateStatusTx sets the status of a request inside the caller's
// transaction.
func (r *RequestRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE requests SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}
