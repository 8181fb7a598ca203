package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// ContributionRepository records pull requests opened for users.
type ContributionRepository interface {
	Create(ctx context.Context, c *models.Contribution) error
	ListByUser(ctx context.Context, userID string) ([]models.Contribution, error)
}
