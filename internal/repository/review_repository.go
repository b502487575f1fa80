package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Review mirrors the 'review' table. AccountID is the ownership key: it is
// written once at creation and never updated, and the ownership guard in
// the handlers compares it against the session claims before any mutation.
// The joined reviewer/vehicle fields are populated only by the list
// queries that need them.
type Review struct {
	ID        uint64    `json:"review_id"`
	Text      string    `json:"review_text"`
	InvID     uint64    `json:"inv_id"`
	AccountID uint64    `json:"account_id"`
	CreatedAt time.Time `json:"review_date"`

	ReviewerFirstName string `json:"account_firstname,omitempty"`
	ReviewerLastName  string `json:"account_lastname,omitempty"`
	VehicleYear       int    `json:"inv_year,omitempty"`
	VehicleMake       string `json:"inv_make,omitempty"`
	VehicleModel      string `json:"inv_model,omitempty"`
}

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// Create inserts a review owned by accountID and returns its id.
func (r *ReviewRepo) Create(ctx context.Context, text string, invID, accountID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO review (text, inv_id, account_id) VALUES (?,?,?)",
		text, invID, accountID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one review without joins, for the ownership guard.
// Returns ErrNotFound when missing.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (Review, error) {
	var rv Review
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, text, inv_id, account_id, created_at FROM review WHERE id=? LIMIT 1",
		id).Scan(&rv.ID, &rv.Text, &rv.InvID, &rv.AccountID, &rv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return rv, err
}

// UpdateText rewrites the text of one review. The account_id column is
// intentionally not part of the statement: ownership is immutable. Returns
// sql.ErrNoRows when the id matched nothing.
func (r *ReviewRepo) UpdateText(ctx context.Context, id uint64, text string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE review SET text=? WHERE id=?", text, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one review by id.
func (r *ReviewRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM review WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByInventory returns the reviews for one vehicle, newest first, with
// the reviewer's name joined in for display.
func (r *ReviewRepo) ListByInventory(ctx context.Context, invID uint64) ([]Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.text, r.inv_id, r.account_id, r.created_at, a.firstname, a.lastname
		 FROM review r JOIN account a ON a.id = r.account_id
		 WHERE r.inv_id = ?
		 ORDER BY r.created_at DESC`, invID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.InvID, &rv.AccountID, &rv.CreatedAt,
			&rv.ReviewerFirstName, &rv.ReviewerLastName); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByAccount returns the reviews one account has written, newest first,
// with the vehicle identity joined in for the account management view.
func (r *ReviewRepo) ListByAccount(ctx context.Context, accountID uint64) ([]Review, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.text, r.inv_id, r.account_id, r.created_at, i.year, i.make, i.model
		 FROM review r JOIN inventory i ON i.id = r.inv_id
		 WHERE r.account_id = ?
		 ORDER BY r.created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.Text, &rv.InvID, &rv.AccountID, &rv.CreatedAt,
			&rv.VehicleYear, &rv.VehicleMake, &rv.VehicleModel); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
