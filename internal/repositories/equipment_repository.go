package repositories

import (
	"context"

	"rental-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EquipmentRepository struct {
	DB *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{DB: db}
}

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var e models.Equipment
	err := row.Scan(&e.ID, &e.Name, &e.Category, &e.RentalPrice, &e.QtyOwned, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create adds a catalog entry
func (r *EquipmentRepository) Create(ctx context.Context, e *models.Equipment) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO equipment(name, category, rental_price, qty_owned, notes)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		e.Name, e.Category, e.RentalPrice, e.QtyOwned, e.Notes,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Get retrieves a catalog entry by ID
func (r *EquipmentRepository) Get(ctx context.Context, id int) (*models.Equipment, error) {
	return scanEquipment(r.DB.QueryRow(ctx,
		`SELECT id, name, category, rental_price, qty_owned, notes, created_at, updated_at
		 FROM equipment WHERE id = $1`, id))
}

// List returns the full catalog
func (r *EquipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, category, rental_price, qty_owned, notes, created_at, updated_at
		 FROM equipment ORDER BY category ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

// ListByCategory returns catalog entries in one category
func (r *EquipmentRepository) ListByCategory(ctx context.Context, category string) ([]*models.Equipment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, category, rental_price, qty_owned, notes, created_at, updated_at
		 FROM equipment WHERE category = $1 ORDER BY name ASC`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEquipment(rows)
}

func collectEquipment(rows pgx.Rows) ([]*models.Equipment, error) {
	var items []*models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Update updates a catalog entry and returns the updated row
func (r *EquipmentRepository) Update(ctx context.Context, id int, req *models.UpdateEquipmentRequest) (*models.Equipment, error) {
	return scanEquipment(r.DB.QueryRow(ctx,
		`UPDATE equipment SET name = $2, category = $3, rental_price = $4, qty_owned = $5,
		        notes = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, name, category, rental_price, qty_owned, notes, created_at, updated_at`,
		id, req.Name, req.Category, req.RentalPrice, req.QtyOwned, req.Notes))
}

// Delete removes a catalog entry
func (r *EquipmentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	return err
}
