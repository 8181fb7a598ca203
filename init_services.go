package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/foodie-app/foodie/config"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg/cache"
	"github.com/foodie-app/foodie/pkg/email"
	"github.com/foodie-app/foodie/pkg/ghcontrib"
	"github.com/foodie-app/foodie/pkg/ratelimit"
	"github.com/foodie-app/foodie/services"
	"github.com/foodie-app/foodie/ws"
)

// Services holds every service instance.
type Services struct {
	Auth         services.AuthService
	Ingredient   services.IngredientService
	Recipe       services.RecipeService
	Pantry       services.PantryService
	MealPlan     services.MealPlanService
	Shopping     services.ShoppingService
	Contribution services.ContributionService
}

// RateLimiters holds the limiters whose sweepers must be stopped on exit.
type RateLimiters struct {
	Login        *ratelimit.LoginRateLimiter
	Share        *ratelimit.ActionRateLimiter
	Contribution *ratelimit.ActionRateLimiter
}

func (l *RateLimiters) Stop() {
	l.Login.Stop()
	l.Share.Stop()
	l.Contribution.Stop()
}

// initServices builds the service layer. The returned cleanup stops
// background sweepers and must run after the HTTP server has stopped.
func initServices(repos *Repositories, hub ws.EventPublisher, cfg *config.Config, encryptionKey []byte) (*Services, *RateLimiters, func()) {
	log := zap.L().Named("main")

	var mailer email.Sender = email.NoopSender{}
	if cfg.Email.Enabled() {
		mailer = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
		log.Info("email enabled", zap.String("from", cfg.Email.FromEmail))
	} else {
		log.Info("email disabled, RESEND_API_KEY not set")
	}

	limiters := &RateLimiters{
		Login:        ratelimit.NewLoginRateLimiter(5, 2*time.Minute),
		Share:        ratelimit.NewActionRateLimiter(5, 10*time.Minute, 10*time.Minute),
		Contribution: ratelimit.NewActionRateLimiter(3, time.Hour, time.Hour),
	}

	catalog := cache.NewSnapshot[[]models.Ingredient](cfg.Ingredients.CacheTTL)

	authService := services.NewAuthService(
		repos.User, repos.Session, repos.ResetToken, mailer,
		cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
		encryptionKey,
	)
	ingredientService := services.NewIngredientService(repos.Ingredient, catalog, cfg.Ingredients.ResolveThreshold)
	recipeService := services.NewRecipeService(repos.Recipe, ingredientService, hub)
	pantryService := services.NewPantryService(repos.Pantry, ingredientService, hub)
	mealPlanService := services.NewMealPlanService(repos.MealPlan, recipeService, hub)
	shoppingService := services.NewShoppingService(
		repos.ShoppingList, repos.MealPlan, repos.Pantry, repos.User,
		recipeService, mailer, limiters.Share, hub,
	)
	contributionService := services.NewContributionService(
		repos.Contribution, repos.User, recipeService, authService,
		services.GitHubSubmitters(cfg.GitHub.APIBaseURL, ghcontrib.Upstream{
			Owner: cfg.GitHub.UpstreamOwner,
			Repo:  cfg.GitHub.UpstreamRepo,
		}),
		cfg.GitHub.Token, limiters.Contribution, hub,
	)

	svcs := &Services{
		Auth:         authService,
		Ingredient:   ingredientService,
		Recipe:       recipeService,
		Pantry:       pantryService,
		MealPlan:     mealPlanService,
		Shopping:     shoppingService,
		Contribution: contributionService,
	}

	cleanup := func() {
		limiters.Stop()
	}
	return svcs, limiters, cleanup
}
