package repository

import (
	"context"

	"github.com/foodie-app/foodie/models"
)

// ShoppingListRepository stores saved shopping lists.
type ShoppingListRepository interface {
	Create(ctx context.Context, list *models.ShoppingList) error
	GetByID(ctx context.Context, id string) (*models.ShoppingList, error)
	// ListByUser returns lists newest first.
	ListByUser(ctx context.Context, userID string) ([]models.ShoppingList, error)
	// SetItemChecked updates one item in place. A missing list or an index
	// past the end yields ErrNotFound.
	SetItemChecked(ctx context.Context, id string, index int, checked bool) error
	Delete(ctx context.Context, id string) error
}
