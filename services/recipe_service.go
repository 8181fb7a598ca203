package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/scaling"
	"github.com/foodie-app/foodie/pkg/units"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

const (
	defaultRecipePageSize = 50
	maxRecipePageSize     = 200
)

// IngredientResolver maps free-text ingredient names to catalog entries.
// IngredientService satisfies it.
type IngredientResolver interface {
	Resolve(ctx context.Context, name string) (*models.ResolveResult, error)
}

// RecipeService manages recipes. Private recipes are only visible to their
// owner; other users get ErrNotFound rather than ErrForbidden.
type RecipeService interface {
	Create(ctx context.Context, userID string, req *models.RecipeRequest) (*models.Recipe, error)
	Get(ctx context.Context, userID, id string) (*models.Recipe, error)
	List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)
	Update(ctx context.Context, userID, id string, req *models.RecipeRequest) (*models.Recipe, error)
	Delete(ctx context.Context, userID, id string) error
	// Scaled returns the recipe adjusted to servings with display
	// quantities and a cost estimate.
	Scaled(ctx context.Context, userID, id string, servings int) (*models.ScaledRecipe, error)
}

type recipeService struct {
	repo     repository.RecipeRepository
	resolver IngredientResolver
	hub      ws.EventPublisher
}

func NewRecipeService(repo repository.RecipeRepository, resolver IngredientResolver, hub ws.EventPublisher) RecipeService {
	return &recipeService{repo: repo, resolver: resolver, hub: hub}
}

func (s *recipeService) Create(ctx context.Context, userID string, req *models.RecipeRequest) (*models.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := s.resolveLines(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{OwnerID: userID}
	req.ApplyTo(recipe)
	if err := s.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpRecipeCreate, Data: recipe})
	return recipe, nil
}

func (s *recipeService) Get(ctx context.Context, userID, id string) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.IsPublic && recipe.OwnerID != userID {
		return nil, fmt.Errorf("%w: recipe", pkg.ErrNotFound)
	}
	return recipe, nil
}

func (s *recipeService) List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultRecipePageSize
	}
	filter.Limit = min(filter.Limit, maxRecipePageSize)
	filter.Offset = max(filter.Offset, 0)
	return s.repo.List(ctx, filter)
}

// owned loads a recipe the user may modify.
func (s *recipeService) owned(ctx context.Context, userID, id string) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if recipe.OwnerID != userID {
		return nil, fmt.Errorf("%w: only the owner can modify this recipe", pkg.ErrForbidden)
	}
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, userID, id string, req *models.RecipeRequest) (*models.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	recipe, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveLines(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	req.ApplyTo(recipe)
	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpRecipeUpdate, Data: recipe})
	return recipe, nil
}

func (s *recipeService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpRecipeDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

func (s *recipeService) Scaled(ctx context.Context, userID, id string, servings int) (*models.ScaledRecipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if servings == 0 {
		servings = recipe.Servings
	}

	scaled, factor, err := scaling.ScaleRecipe(*recipe, servings)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	lines := make([]models.ScaledIngredient, len(scaled.Ingredients))
	for i, l := range scaled.Ingredients {
		lines[i] = models.ScaledIngredient{
			RecipeIngredient: l,
			Display:          scaling.NiceFraction(l.Quantity),
		}
	}

	return &models.ScaledRecipe{
		Recipe:      scaled,
		Factor:      units.Round2(factor),
		Ingredients: lines,
		Cost:        scaling.Cost(scaled.Ingredients, scaled.Servings),
	}, nil
}

// resolveLines links each unresolved line to the ingredient catalog and
// canonicalizes units.
func (s *recipeService) resolveLines(ctx context.Context, lines []models.RecipeIngredient) error {
	for i := range lines {
		lines[i].Unit = units.Canonical(lines[i].Unit)
		if lines[i].IngredientID != "" {
			continue
		}
		res, err := s.resolver.Resolve(ctx, lines[i].Name)
		if err != nil {
			if errors.Is(err, pkg.ErrBadRequest) {
				return fmt.Errorf("%w: ingredient %d: %s", pkg.ErrBadRequest, i+1, err.Error())
			}
			return fmt.Errorf("failed to resolve ingredient %q: %w", lines[i].Name, err)
		}
		lines[i].IngredientID = res.Ingredient.ID
	}
	return nil
}
