package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
)

// maxRecipeLoads bounds concurrent recipe reads per request.
const maxRecipeLoads = 8

// RecipeGetter loads a recipe as seen by userID. RecipeService satisfies it.
type RecipeGetter interface {
	Get(ctx context.Context, userID, id string) (*models.Recipe, error)
}

// loadRecipes fetches the distinct recipes behind ids concurrently. Recipes
// that are gone or no longer visible are skipped; any other error cancels
// the remaining loads.
func loadRecipes(ctx context.Context, getter RecipeGetter, userID string, ids []string) (map[string]*models.Recipe, error) {
	var (
		mu      sync.Mutex
		recipes = make(map[string]*models.Recipe, len(ids))
		seen    = make(map[string]bool, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxRecipeLoads)

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			recipe, err := getter.Get(gctx, userID, id)
			if err != nil {
				if errors.Is(err, pkg.ErrNotFound) {
					zap.L().Named("recipes").Warn("planned recipe not available", zap.String("recipe_id", id))
					return nil
				}
				return err
			}
			mu.Lock()
			recipes[id] = recipe
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return recipes, nil
}
