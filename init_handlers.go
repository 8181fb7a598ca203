package main

import (
	"github.com/foodie-app/foodie/config"
	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/handlers"
	"github.com/foodie-app/foodie/ws"
)

// Handlers holds every HTTP handler.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Ingredient   *handlers.IngredientHandler
	Recipe       *handlers.RecipeHandler
	Pantry       *handlers.PantryHandler
	MealPlan     *handlers.MealPlanHandler
	Shopping     *handlers.ShoppingHandler
	Contribution *handlers.ContributionHandler
	WS           *ws.Handler
}

func initHandlers(svcs *Services, limiters *RateLimiters, db *database.DB, hub *ws.Hub, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Health:       handlers.NewHealthHandler(db),
		Ingredient:   handlers.NewIngredientHandler(svcs.Ingredient),
		Recipe:       handlers.NewRecipeHandler(svcs.Recipe),
		Pantry:       handlers.NewPantryHandler(svcs.Pantry),
		MealPlan:     handlers.NewMealPlanHandler(svcs.MealPlan),
		Shopping:     handlers.NewShoppingHandler(svcs.Shopping),
		Contribution: handlers.NewContributionHandler(svcs.Contribution),
		WS:           ws.NewHandler(hub, svcs.Auth, cfg.Server.AllowedOrigins),
	}
}
