package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// PantryRepository stores users' pantry stock.
type PantryRepository interface {
	Create(ctx context.Context, item *models.PantryItem) error
	GetByID(ctx context.Context, id string) (*models.PantryItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.PantryItem, error)
	// ListExpiring returns items with an expiry date on or before date,
	// soonest first.
	ListExpiring(ctx context.Context, userID, date string) ([]models.PantryItem, error)
	Update(ctx context.Context, item *models.PantryItem) error
	Delete(ctx context.Context, id string) error
}
