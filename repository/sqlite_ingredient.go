package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
)

type sqliteIngredientRepo struct {
	db database.TxQuerier
}

// NewSQLiteIngredientRepo returns an IngredientRepository.
func NewSQLiteIngredientRepo(db database.TxQuerier) IngredientRepository {
	return &sqliteIngredientRepo{db: db}
}

const ingredientColumns = `id, name, aliases, category, default_unit, created_at`

func scanIngredient(s scanner) (*models.Ingredient, error) {
	ing := &models.Ingredient{}
	var aliases string
	if err := s.Scan(&ing.ID, &ing.Name, &aliases, &ing.Category, &ing.DefaultUnit, &ing.CreatedAt); err != nil {
		return nil, err
	}
	ing.Aliases = []string{}
	if err := decodeJSON(aliases, &ing.Aliases); err != nil {
		return nil, err
	}
	return ing, nil
}

func (r *sqliteIngredientRepo) Create(ctx context.Context, ing *models.Ingredient) error {
	if ing.ID == "" {
		ing.ID = newID()
	}
	ing.CreatedAt = time.Now().UTC()

	aliases, err := encodeJSON(ing.Aliases)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ingredients (id, name, aliases, category, default_unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ing.ID, ing.Name, aliases, ing.Category, ing.DefaultUnit, ing.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingredient %q", pkg.ErrAlreadyExists, ing.Name)
		}
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

func (r *sqliteIngredientRepo) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "ingredient")
	}
	return ing, nil
}

func (r *sqliteIngredientRepo) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRowContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE name = ?`, name))
	if err != nil {
		return nil, notFound(err, "ingredient")
	}
	return ing, nil
}

func (r *sqliteIngredientRepo) List(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	list := []models.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		list = append(list, *ing)
	}
	return list, rows.Err()
}

func (r *sqliteIngredientRepo) Update(ctx context.Context, ing *models.Ingredient) error {
	aliases, err := encodeJSON(ing.Aliases)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE ingredients SET name = ?, aliases = ?, category = ?, default_unit = ?
		WHERE id = ?`,
		ing.Name, aliases, ing.Category, ing.DefaultUnit, ing.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ingredient %q", pkg.ErrAlreadyExists, ing.Name)
		}
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return expectOne(res, "ingredient")
}

func (r *sqliteIngredientRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return expectOne(res, "ingredient")
}
