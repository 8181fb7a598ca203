package main

import (
	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/repository"
)

// Repositories holds every repository, all backed by the same connection.
type Repositories struct {
	User         repository.UserRepository
	Session      repository.SessionRepository
	ResetToken   repository.PasswordResetRepository
	Ingredient   repository.IngredientRepository
	Recipe       repository.RecipeRepository
	Pantry       repository.PantryRepository
	MealPlan     repository.MealPlanRepository
	ShoppingList repository.ShoppingListRepository
	Contribution repository.ContributionRepository
}

func initRepositories(db *database.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(db.Conn),
		Session:      repository.NewSQLiteSessionRepo(db.Conn),
		ResetToken:   repository.NewSQLiteResetTokenRepo(db.Conn),
		Ingredient:   repository.NewSQLiteIngredientRepo(db.Conn),
		Recipe:       repository.NewSQLiteRecipeRepo(db.Conn),
		Pantry:       repository.NewSQLitePantryRepo(db.Conn),
		MealPlan:     repository.NewSQLiteMealPlanRepo(db.Conn),
		ShoppingList: repository.NewSQLiteShoppingListRepo(db.Conn),
		Contribution: repository.NewSQLiteContributionRepo(db.Conn),
	}
}
