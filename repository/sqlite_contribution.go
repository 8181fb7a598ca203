package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
)

type sqliteContributionRepo struct {
	db database.TxQuerier
}

// NewSQLiteContributionRepo returns a ContributionRepository.
func NewSQLiteContributionRepo(db database.TxQuerier) ContributionRepository {
	return &sqliteContributionRepo{db: db}
}

func (r *sqliteContributionRepo) Create(ctx context.Context, c *models.Contribution) error {
	c.ID = newID()
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contributions (id, user_id, recipe_id, recipe_title, pr_number, pr_url, branch, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.RecipeID, c.RecipeTitle, c.PRNumber, c.PRURL, c.Branch, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record contribution: %w", err)
	}
	return nil
}

func (r *sqliteContributionRepo) ListByUser(ctx context.Context, userID string) ([]models.Contribution, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, recipe_id, recipe_title, pr_number, pr_url, branch, created_at
		FROM contributions WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	list := []models.Contribution{}
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.UserID, &c.RecipeID, &c.RecipeTitle, &c.PRNumber, &c.PRURL, &c.Branch, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
