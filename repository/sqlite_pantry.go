package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
)

type sqlitePantryRepo struct {
	db database.TxQuerier
}

// NewSQLitePantryRepo returns a PantryRepository.
func NewSQLitePantryRepo(db database.TxQuerier) PantryRepository {
	return &sqlitePantryRepo{db: db}
}

const pantryColumns = `id, user_id, ingredient_id, name, quantity, unit, expires_on, created_at, updated_at`

func scanPantryItem(s scanner) (*models.PantryItem, error) {
	it := &models.PantryItem{}
	err := s.Scan(&it.ID, &it.UserID, &it.IngredientID, &it.Name, &it.Quantity, &it.Unit,
		&it.ExpiresOn, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *sqlitePantryRepo) list(ctx context.Context, query string, args ...any) ([]models.PantryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry items: %w", err)
	}
	defer rows.Close()

	items := []models.PantryItem{}
	for rows.Next() {
		it, err := scanPantryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r *sqlitePantryRepo) Create(ctx context.Context, it *models.PantryItem) error {
	it.ID = newID()
	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pantry_items (id, user_id, ingredient_id, name, quantity, unit, expires_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.UserID, it.IngredientID, it.Name, it.Quantity, it.Unit, it.ExpiresOn, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create pantry item: %w", err)
	}
	return nil
}

func (r *sqlitePantryRepo) GetByID(ctx context.Context, id string) (*models.PantryItem, error) {
	it, err := scanPantryItem(r.db.QueryRowContext(ctx, `SELECT `+pantryColumns+` FROM pantry_items WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "pantry item")
	}
	return it, nil
}

func (r *sqlitePantryRepo) ListByUser(ctx context.Context, userID string) ([]models.PantryItem, error) {
	return r.list(ctx, `SELECT `+pantryColumns+` FROM pantry_items WHERE user_id = ? ORDER BY lower(name)`, userID)
}

func (r *sqlitePantryRepo) ListExpiring(ctx context.Context, userID, date string) ([]models.PantryItem, error) {
	return r.list(ctx, `
		SELECT `+pantryColumns+` FROM pantry_items
		WHERE user_id = ? AND expires_on IS NOT NULL AND expires_on <= ?
		ORDER BY expires_on, lower(name)`, userID, date)
}

func (r *sqlitePantryRepo) Update(ctx context.Context, it *models.PantryItem) error {
	it.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE pantry_items SET ingredient_id = ?, name = ?, quantity = ?, unit = ?, expires_on = ?, updated_at = ?
		WHERE id = ?`,
		it.IngredientID, it.Name, it.Quantity, it.Unit, it.ExpiresOn, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pantry item: %w", err)
	}
	return expectOne(res, "pantry item")
}

func (r *sqlitePantryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pantry_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pantry item: %w", err)
	}
	return expectOne(res, "pantry item")
}
