package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Classification represents a vehicle category in the navigation. Names are
// unique and restricted to letters and digits by the validator before they
// ever reach this layer.
type Classification struct {
	ID   uint64 `json:"classification_id"`
	Name string `json:"classification_name"`
}

// ErrClassificationExists is returned when a name collides with the unique
// index on classification.name.
var ErrClassificationExists = errors.New("classification name already exists")

type ClassificationRepo struct{ DB *sql.DB }

func NewClassificationRepo(db *sql.DB) *ClassificationRepo { return &ClassificationRepo{DB: db} }

// Create inserts a classification and returns its id.
func (r *ClassificationRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO classification (name) VALUES (?)", name)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrClassificationExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ExistsByName reports whether a classification with exactly this name
// already exists. The BINARY comparison makes the check case-sensitive
// even on case-insensitive MySQL collations, matching the unique-index
// behavior the rest of the application assumes.
func (r *ClassificationRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM classification WHERE BINARY name = ? LIMIT 1", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches one classification. Returns ErrNotFound when missing.
func (r *ClassificationRepo) GetByID(ctx context.Context, id uint64) (Classification, error) {
	var c Classification
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name FROM classification WHERE id = ? LIMIT 1", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Classification{}, ErrNotFound
	}
	return c, err
}

// List returns all classifications ordered by name, for the navigation and
// the management drop-down.
func (r *ClassificationRepo) List(ctx context.Context) ([]Classification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM classification ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Classification
	for rows.Next() {
		var c Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
