package services

import (
	"context"
	"fmt"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/scaling"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

// NutritionSummary is the nutrition of a planned date range.
type NutritionSummary struct {
	Start  string                 `json:"start"`
	End    string                 `json:"end"`
	Days   []scaling.DayNutrition `json:"days"`
	Totals models.Nutrition       `json:"totals"`
}

// MealPlanService manages the meal calendar.
type MealPlanService interface {
	Add(ctx context.Context, userID string, req *models.MealPlanEntryRequest) (*models.MealPlanEntry, error)
	List(ctx context.Context, userID string, r models.DateRange) ([]models.MealPlanEntry, error)
	// Move changes the day, slot or servings of an entry.
	Move(ctx context.Context, userID, id string, req *models.MoveEntryRequest) (*models.MealPlanEntry, error)
	Delete(ctx context.Context, userID, id string) error
	Nutrition(ctx context.Context, userID string, r models.DateRange) (*NutritionSummary, error)
}

type mealPlanService struct {
	repo    repository.MealPlanRepository
	recipes RecipeGetter
	hub     ws.EventPublisher
}

func NewMealPlanService(repo repository.MealPlanRepository, recipes RecipeGetter, hub ws.EventPublisher) MealPlanService {
	return &mealPlanService{repo: repo, recipes: recipes, hub: hub}
}

func (s *mealPlanService) Add(ctx context.Context, userID string, req *models.MealPlanEntryRequest) (*models.MealPlanEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	recipe, err := s.recipes.Get(ctx, userID, req.RecipeID)
	if err != nil {
		return nil, err
	}

	servings := req.Servings
	if servings == 0 {
		servings = recipe.Servings
	}

	entry := &models.MealPlanEntry{
		UserID:      userID,
		Date:        req.Date,
		MealType:    models.MealType(req.MealType),
		RecipeID:    recipe.ID,
		RecipeTitle: recipe.Title,
		Servings:    servings,
		Notes:       req.Notes,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpMealPlanCreate, Data: entry})
	return entry, nil
}

func (s *mealPlanService) List(ctx context.Context, userID string, r models.DateRange) ([]models.MealPlanEntry, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	return s.repo.ListByRange(ctx, userID, r.Start, r.End)
}

func (s *mealPlanService) owned(ctx context.Context, userID, id string) (*models.MealPlanEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, fmt.Errorf("%w: meal plan entry", pkg.ErrNotFound)
	}
	return entry, nil
}

func (s *mealPlanService) Move(ctx context.Context, userID, id string, req *models.MoveEntryRequest) (*models.MealPlanEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	entry, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Date != "" {
		entry.Date = req.Date
	}
	if req.MealType != "" {
		entry.MealType = models.MealType(req.MealType)
	}
	if req.Servings > 0 {
		entry.Servings = req.Servings
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpMealPlanUpdate, Data: entry})
	return entry, nil
}

func (s *mealPlanService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpMealPlanDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

func (s *mealPlanService) Nutrition(ctx context.Context, userID string, r models.DateRange) (*NutritionSummary, error) {
	entries, err := s.List(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.RecipeID
	}
	recipes, err := loadRecipes(ctx, s.recipes, userID, ids)
	if err != nil {
		return nil, err
	}

	meals := make([]scaling.PlannedMeal, 0, len(entries))
	for _, e := range entries {
		recipe, ok := recipes[e.RecipeID]
		if !ok {
			continue
		}
		meals = append(meals, scaling.PlannedMeal{
			Date:            e.Date,
			RecipeServings:  recipe.Servings,
			PlannedServings: e.Servings,
			Nutrition:       recipe.Nutrition,
		})
	}

	return &NutritionSummary{
		Start:  r.Start,
		End:    r.End,
		Days:   scaling.DailyNutrition(meals),
		Totals: scaling.Totals(meals),
	}, nil
}
