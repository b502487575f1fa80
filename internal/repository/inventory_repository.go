package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Vehicle mirrors the 'inventory' table joined with its classification
// name. Price is stored as DECIMAL and scanned into float64; miles as a
// plain integer column.
type Vehicle struct {
	ID                 uint64  `json:"inv_id"`
	ClassificationID   uint64  `json:"classification_id"`
	ClassificationName string  `json:"classification_name"`
	Make               string  `json:"inv_make"`
	Model              string  `json:"inv_model"`
	Year               int     `json:"inv_year"`
	Description        string  `json:"inv_description"`
	Image              string  `json:"inv_image"`
	Thumbnail          string  `json:"inv_thumbnail"`
	Price              float64 `json:"inv_price"`
	Miles              int64   `json:"inv_miles"`
	Color              string  `json:"inv_color"`
}

type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

const vehicleColumns = `i.id, i.classification_id, c.name, i.make, i.model, i.year,
	i.description, i.image, i.thumbnail, i.price, i.miles, i.color`

// Create inserts a vehicle and returns its id. The classification foreign
// key is validated upstream; a violation still surfaces as a driver error.
func (r *InventoryRepo) Create(ctx context.Context, v *Vehicle) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO inventory
		 (classification_id, make, model, year, description, image, thumbnail, price, miles, color)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	v.ID = uint64(id)
	return v.ID, nil
}

// GetByID fetches one vehicle with its classification name. Returns
// ErrNotFound when missing.
func (r *InventoryRepo) GetByID(ctx context.Context, id uint64) (Vehicle, error) {
	var v Vehicle
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+`
		 FROM inventory i JOIN classification c ON c.id = i.classification_id
		 WHERE i.id = ? LIMIT 1`, id).
		Scan(&v.ID, &v.ClassificationID, &v.ClassificationName, &v.Make, &v.Model,
			&v.Year, &v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return Vehicle{}, ErrNotFound
	}
	return v, err
}

// ListByClassification returns every vehicle in one classification ordered
// by make and model. An empty slice with a nil error means the
// classification has no inventory (or does not exist); callers that must
// distinguish check the classification separately.
func (r *InventoryRepo) ListByClassification(ctx context.Context, classificationID uint64) ([]Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+vehicleColumns+`
		 FROM inventory i JOIN classification c ON c.id = i.classification_id
		 WHERE i.classification_id = ?
		 ORDER BY i.make, i.model`, classificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.ClassificationID, &v.ClassificationName, &v.Make, &v.Model,
			&v.Year, &v.Description, &v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update rewrites all mutable columns of one vehicle. It returns
// sql.ErrNoRows when the id matched nothing.
func (r *InventoryRepo) Update(ctx context.Context, v *Vehicle) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE inventory
		 SET classification_id=?, make=?, model=?, year=?, description=?,
		     image=?, thumbnail=?, price=?, miles=?, color=?
		 WHERE id=?`,
		v.ClassificationID, v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color, v.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one vehicle and its reviews. Reviews reference inventory
// with a foreign key, so they go first, inside one transaction.
func (r *InventoryRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM review WHERE inv_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = sql.ErrNoRows
		return err
	}
	return nil
}
