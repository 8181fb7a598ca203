package main

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/foodie-app/foodie/middleware"
	"github.com/foodie-app/foodie/pkg/logger"
	"github.com/foodie-app/foodie/services"
)

// initRoutes registers every endpoint and wraps the mux with the request
// pipeline: request id, real ip, panic recovery, access log, CORS.
//
// Literal segments are registered before wildcards at the same depth so
// /api/pantry/expiring never reads as /api/pantry/{id}.
func initRoutes(h *Handlers, authService services.AuthService, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	authMw := middleware.NewAuthMiddleware(authService)
	auth := authMw.RequireFunc

	mux.HandleFunc("GET /api/health", h.Health.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)

	// Profile
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("PATCH /api/users/me", auth(h.Auth.UpdateMe))
	mux.Handle("POST /api/users/me/password", auth(h.Auth.ChangePassword))
	mux.Handle("PUT /api/users/me/github-token", auth(h.Auth.SetGitHubToken))

	// Ingredient catalog
	mux.Handle("GET /api/ingredients", auth(h.Ingredient.List))
	mux.Handle("POST /api/ingredients", auth(h.Ingredient.Create))
	mux.Handle("POST /api/ingredients/resolve", auth(h.Ingredient.Resolve))
	mux.Handle("GET /api/ingredients/{id}", auth(h.Ingredient.Get))
	mux.Handle("PUT /api/ingredients/{id}", auth(h.Ingredient.Update))
	mux.Handle("DELETE /api/ingredients/{id}", auth(h.Ingredient.Delete))

	// Recipes
	mux.Handle("GET /api/recipes", auth(h.Recipe.List))
	mux.Handle("POST /api/recipes", auth(h.Recipe.Create))
	mux.Handle("GET /api/recipes/{id}", auth(h.Recipe.Get))
	mux.Handle("PUT /api/recipes/{id}", auth(h.Recipe.Update))
	mux.Handle("DELETE /api/recipes/{id}", auth(h.Recipe.Delete))
	mux.Handle("GET /api/recipes/{id}/scaled", auth(h.Recipe.Scaled))

	// Pantry
	mux.Handle("GET /api/pantry", auth(h.Pantry.List))
	mux.Handle("POST /api/pantry", auth(h.Pantry.Create))
	mux.Handle("GET /api/pantry/expiring", auth(h.Pantry.Expiring))
	mux.Handle("PUT /api/pantry/{id}", auth(h.Pantry.Update))
	mux.Handle("DELETE /api/pantry/{id}", auth(h.Pantry.Delete))

	// Meal plan
	mux.Handle("GET /api/mealplan", auth(h.MealPlan.List))
	mux.Handle("POST /api/mealplan", auth(h.MealPlan.Add))
	mux.Handle("GET /api/mealplan/nutrition", auth(h.MealPlan.Nutrition))
	mux.Handle("PATCH /api/mealplan/{id}", auth(h.MealPlan.Move))
	mux.Handle("DELETE /api/mealplan/{id}", auth(h.MealPlan.Delete))

	// Shopping lists
	mux.Handle("GET /api/shopping-lists", auth(h.Shopping.List))
	mux.Handle("POST /api/shopping-lists", auth(h.Shopping.Save))
	mux.Handle("POST /api/shopping-lists/generate", auth(h.Shopping.Generate))
	mux.Handle("GET /api/shopping-lists/{id}", auth(h.Shopping.Get))
	mux.Handle("DELETE /api/shopping-lists/{id}", auth(h.Shopping.Delete))
	mux.Handle("PATCH /api/shopping-lists/{id}/items", auth(h.Shopping.Toggle))
	mux.Handle("GET /api/shopping-lists/{id}/export", auth(h.Shopping.Export))
	mux.Handle("POST /api/shopping-lists/{id}/share", auth(h.Shopping.Share))

	// Contributions
	mux.Handle("GET /api/contributions", auth(h.Contribution.List))
	mux.Handle("POST /api/contributions", auth(h.Contribution.Contribute))

	// Browsers cannot set headers on the upgrade request, so the access
	// token travels as ?token= and the ws handler validates it.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept-Language"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
	})

	var handler http.Handler = mux
	handler = corsHandler.Handler(handler)
	handler = logger.Middleware(handler)
	handler = chimw.Recoverer(handler)
	handler = chimw.RealIP(handler)
	handler = chimw.RequestID(handler)
	return handler
}
