package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// MealPlanRepository stores calendar entries.
type MealPlanRepository interface {
	Create(ctx context.Context, entry *models.MealPlanEntry) error
	GetByID(ctx context.Context, id string) (*models.MealPlanEntry, error)
	// ListByRange returns a user's entries between start and end inclusive,
	// ordered by date then meal slot.
	ListByRange(ctx context.Context, userID, start, end string) ([]models.MealPlanEntry, error)
	Update(ctx context.Context, entry *models.MealPlanEntry) error
	Delete(ctx context.Context, id string) error
}
