package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
)

type sqliteMealPlanRepo struct {
	db database.TxQuerier
}

// NewSQLiteMealPlanRepo returns a MealPlanRepository.
func NewSQLiteMealPlanRepo(db database.TxQuerier) MealPlanRepository {
	return &sqliteMealPlanRepo{db: db}
}

const mealPlanSelect = `
	SELECT e.id, e.user_id, e.date, e.meal_type, e.recipe_id, r.title, e.servings, e.notes, e.created_at
	FROM meal_plan_entries e
	JOIN recipes r ON r.id = e.recipe_id`

func scanMealPlanEntry(s scanner) (*models.MealPlanEntry, error) {
	e := &models.MealPlanEntry{}
	err := s.Scan(&e.ID, &e.UserID, &e.Date, &e.MealType, &e.RecipeID, &e.RecipeTitle,
		&e.Servings, &e.Notes, &e.CreatedAt)
	return e, err
}

func (r *sqliteMealPlanRepo) Create(ctx context.Context, e *models.MealPlanEntry) error {
	e.ID = newID()
	e.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meal_plan_entries (id, user_id, date, meal_type, recipe_id, servings, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, e.MealType, e.RecipeID, e.Servings, e.Notes, e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: recipe", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create meal plan entry: %w", err)
	}
	return nil
}

func (r *sqliteMealPlanRepo) GetByID(ctx context.Context, id string) (*models.MealPlanEntry, error) {
	e, err := scanMealPlanEntry(r.db.QueryRowContext(ctx, mealPlanSelect+` WHERE e.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "meal plan entry")
	}
	return e, nil
}

func (r *sqliteMealPlanRepo) ListByRange(ctx context.Context, userID, start, end string) ([]models.MealPlanEntry, error) {
	rows, err := r.db.QueryContext(ctx, mealPlanSelect+`
		WHERE e.user_id = ? AND e.date BETWEEN ? AND ?
		ORDER BY e.date,
			CASE e.meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END,
			e.created_at`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plan: %w", err)
	}
	defer rows.Close()

	entries := []models.MealPlanEntry{}
	for rows.Next() {
		e, err := scanMealPlanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *sqliteMealPlanRepo) Update(ctx context.Context, e *models.MealPlanEntry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE meal_plan_entries SET date = ?, meal_type = ?, servings = ?, notes = ?
		WHERE id = ?`,
		e.Date, e.MealType, e.Servings, e.Notes, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal plan entry: %w", err)
	}
	return expectOne(res, "meal plan entry")
}

func (r *sqliteMealPlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal_plan_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan entry: %w", err)
	}
	return expectOne(res, "meal plan entry")
}
