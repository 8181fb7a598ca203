package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// IngredientRepository stores the shared ingredient catalog.
type IngredientRepository interface {
	Create(ctx context.Context, ing *models.Ingredient) error
	GetByID(ctx context.Context, id string) (*models.Ingredient, error)
	// GetByName matches the name case-insensitively. Aliases are not searched.
	GetByName(ctx context.Context, name string) (*models.Ingredient, error)
	List(ctx context.Context) ([]models.Ingredient, error)
	Update(ctx context.Context, ing *models.Ingredient) error
	Delete(ctx context.Context, id string) error
}
