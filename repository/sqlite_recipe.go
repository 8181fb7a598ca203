package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
)

type sqliteRecipeRepo struct {
	db database.TxQuerier
}

// NewSQLiteRecipeRepo returns a RecipeRepository.
func NewSQLiteRecipeRepo(db database.TxQuerier) RecipeRepository {
	return &sqliteRecipeRepo{db: db}
}

const recipeColumns = `id, COALESCE(owner_id, ''), title, description, servings, prep_minutes, cook_minutes,
	difficulty, cuisine, tags, ingredients, instructions, nutrition, image_url, is_public, created_at, updated_at`

func scanRecipe(s scanner) (*models.Recipe, error) {
	rec := &models.Recipe{}
	var tags, ingredients, instructions, nutrition string
	if err := s.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.Description, &rec.Servings,
		&rec.PrepMinutes, &rec.CookMinutes, &rec.Difficulty, &rec.Cuisine,
		&tags, &ingredients, &instructions, &nutrition,
		&rec.ImageURL, &rec.IsPublic, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	rec.Tags, rec.Ingredients, rec.Instructions = []string{}, []models.RecipeIngredient{}, []string{}
	for _, col := range []struct {
		raw string
		dst any
	}{
		{tags, &rec.Tags},
		{ingredients, &rec.Ingredients},
		{instructions, &rec.Instructions},
		{nutrition, &rec.Nutrition},
	} {
		if err := decodeJSON(col.raw, col.dst); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

type recipeJSON struct {
	tags, ingredients, instructions, nutrition string
}

func encodeRecipe(rec *models.Recipe) (recipeJSON, error) {
	var out recipeJSON
	var err error
	if out.tags, err = encodeJSON(rec.Tags); err != nil {
		return out, err
	}
	if out.ingredients, err = encodeJSON(rec.Ingredients); err != nil {
		return out, err
	}
	if out.instructions, err = encodeJSON(rec.Instructions); err != nil {
		return out, err
	}
	if out.nutrition, err = encodeJSON(rec.Nutrition); err != nil {
		return out, err
	}
	return out, nil
}

// nullable stores "" as NULL, used for recipes without an owner (seeded).
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *sqliteRecipeRepo) Create(ctx context.Context, rec *models.Recipe) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	cols, err := encodeRecipe(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO recipes (id, owner_id, title, description, servings, prep_minutes, cook_minutes,
			difficulty, cuisine, tags, ingredients, instructions, nutrition, image_url, is_public,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, nullable(rec.OwnerID), rec.Title, rec.Description, rec.Servings, rec.PrepMinutes, rec.CookMinutes,
		rec.Difficulty, rec.Cuisine, cols.tags, cols.ingredients, cols.instructions, cols.nutrition,
		rec.ImageURL, rec.IsPublic, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recipe %s", pkg.ErrAlreadyExists, rec.ID)
		}
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

func (r *sqliteRecipeRepo) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	rec, err := scanRecipe(r.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "recipe")
	}
	return rec, nil
}

func (r *sqliteRecipeRepo) List(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	var (
		where []string
		args  []any
	)

	if f.Mine {
		where = append(where, "owner_id = ?")
		args = append(args, f.ViewerID)
	} else {
		where = append(where, "(is_public = 1 OR owner_id = ?)")
		args = append(args, f.ViewerID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where = append(where, `(lower(title) LIKE ? OR lower(description) LIKE ? OR EXISTS (
			SELECT 1 FROM json_each(recipes.ingredients)
			WHERE lower(json_extract(json_each.value, '$.name')) LIKE ?))`)
		args = append(args, like, like, like)
	}
	if c := strings.TrimSpace(f.Cuisine); c != "" {
		where = append(where, "lower(cuisine) = lower(?)")
		args = append(args, c)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(recipes.tags) WHERE json_each.value = ?)")
		args = append(args, strings.ToLower(tag))
	}

	// The service bounds the page size; -1 is unlimited in SQLite.
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := max(f.Offset, 0)
	args = append(args, limit, offset)

	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC, title LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	list := []models.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		list = append(list, *rec)
	}
	return list, rows.Err()
}

func (r *sqliteRecipeRepo) Update(ctx context.Context, rec *models.Recipe) error {
	rec.UpdatedAt = time.Now().UTC()

	cols, err := encodeRecipe(rec)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE recipes SET title = ?, description = ?, servings = ?, prep_minutes = ?, cook_minutes = ?,
			difficulty = ?, cuisine = ?, tags = ?, ingredients = ?, instructions = ?, nutrition = ?,
			image_url = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		rec.Title, rec.Description, rec.Servings, rec.PrepMinutes, rec.CookMinutes,
		rec.Difficulty, rec.Cuisine, cols.tags, cols.ingredients, cols.instructions, cols.nutrition,
		rec.ImageURL, rec.IsPublic, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return expectOne(res, "recipe")
}

func (r *sqliteRecipeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return expectOne(res, "recipe")
}
