package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// RecipeRepository stores recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	// List returns recipes visible to filter.ViewerID: public ones and the
	// viewer's own, or only the viewer's own when filter.Mine is set.
	List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id string) error
}
