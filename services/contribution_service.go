package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/ghcontrib"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/pkg/ratelimit"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

// Submitter opens a pull request for one file. *ghcontrib.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, s ghcontrib.Submission) (*ghcontrib.Result, error)
}

// SubmitterFactory builds a Submitter authenticated with token.
type SubmitterFactory func(token string) (Submitter, error)

// GitHubSubmitters returns a factory producing ghcontrib clients for the
// given upstream repository.
func GitHubSubmitters(baseURL string, upstream ghcontrib.Upstream) SubmitterFactory {
	return func(token string) (Submitter, error) {
		c, err := ghcontrib.New(token, baseURL, upstream)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// GitHubTokenSource returns a user's saved GitHub token. AuthService
// satisfies it.
type GitHubTokenSource interface {
	GitHubToken(ctx context.Context, userID string) (string, error)
}

// ContributionService submits recipes to the upstream recipe repository as
// pull requests.
type ContributionService interface {
	Contribute(ctx context.Context, userID string, req *models.ContributeRequest) (*models.Contribution, error)
	List(ctx context.Context, userID string) ([]models.Contribution, error)
}

type contributionService struct {
	repo        repository.ContributionRepository
	users       repository.UserRepository
	recipes     RecipeGetter
	tokens      GitHubTokenSource
	submitters  SubmitterFactory
	serverToken string
	limiter     *ratelimit.ActionRateLimiter
	hub         ws.EventPublisher
	now         func() time.Time
	log         *zap.Logger
}

// NewContributionService wires the service. serverToken is used for users
// without a saved token; empty disables that fallback.
func NewContributionService(
	repo repository.ContributionRepository,
	users repository.UserRepository,
	recipes RecipeGetter,
	tokens GitHubTokenSource,
	submitters SubmitterFactory,
	serverToken string,
	limiter *ratelimit.ActionRateLimiter,
	hub ws.EventPublisher,
) ContributionService {
	return &contributionService{
		repo:        repo,
		users:       users,
		recipes:     recipes,
		tokens:      tokens,
		submitters:  submitters,
		serverToken: serverToken,
		limiter:     limiter,
		hub:         hub,
		now:         time.Now,
		log:         zap.L().Named("contributions"),
	}
}

// contributedRecipe is the file committed upstream. Ownership, ids and
// visibility stay local.
type contributedRecipe struct {
	Title        string                    `json:"title"`
	Description  string                    `json:"description,omitempty"`
	Servings     int                       `json:"servings"`
	PrepMinutes  int                       `json:"prep_minutes"`
	CookMinutes  int                       `json:"cook_minutes"`
	Difficulty   string                    `json:"difficulty"`
	Cuisine      string                    `json:"cuisine,omitempty"`
	Tags         []string                  `json:"tags"`
	Ingredients  []models.RecipeIngredient `json:"ingredients"`
	Instructions []string                  `json:"instructions"`
	Nutrition    models.Nutrition          `json:"nutrition"`
	ImageURL     string                    `json:"image_url,omitempty"`
	Author       string                    `json:"author"`
}

func (s *contributionService) Contribute(ctx context.Context, userID string, req *models.ContributeRequest) (*models.Contribution, error) {
	recipeReq, recipeID, err := s.recipeFor(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if err := recipeReq.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if !s.limiter.Allow(userID) {
		return nil, fmt.Errorf("%w: try again in %s", pkg.ErrRateLimited,
			ratelimit.FormatRetryMessage(s.limiter.CooldownSeconds(userID)))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	submitter, err := s.submitters(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	slug := slugify(recipeReq.Title, "recipe")
	for i := range recipeReq.Ingredients {
		// Catalog ids are local to this deployment.
		recipeReq.Ingredients[i].IngredientID = ""
	}
	content, err := json.MarshalIndent(contributedRecipe{
		Title:        recipeReq.Title,
		Description:  recipeReq.Description,
		Servings:     recipeReq.Servings,
		PrepMinutes:  recipeReq.PrepMinutes,
		CookMinutes:  recipeReq.CookMinutes,
		Difficulty:   recipeReq.Difficulty,
		Cuisine:      recipeReq.Cuisine,
		Tags:         recipeReq.Tags,
		Ingredients:  recipeReq.Ingredients,
		Instructions: recipeReq.Instructions,
		Nutrition:    recipeReq.Nutrition,
		ImageURL:     recipeReq.ImageURL,
		Author:       user.DisplayName,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}
	content = append(content, '\n')

	l := i18n.NewLocalizer(i18n.DefaultLanguage)
	params := map[string]string{"title": recipeReq.Title, "author": user.DisplayName}
	title := l.TWithParams("contribution.pr_title", params)

	result, err := submitter.Submit(ctx, ghcontrib.Submission{
		Branch:        fmt.Sprintf("recipe/%s-%d", slug, s.now().Unix()),
		Path:          fmt.Sprintf("recipes/%s.json", slug),
		Content:       content,
		CommitMessage: title,
		Title:         title,
		Body:          l.TWithParams("contribution.pr_body", params),
	})
	if err != nil {
		var stepErr *ghcontrib.StepError
		if errors.As(err, &stepErr) {
			s.log.Warn("contribution failed", zap.String("user_id", userID), zap.String("step", stepErr.Step), zap.Error(stepErr.Err))
			return nil, fmt.Errorf("%w: %s", pkg.ErrUpstream, stepErr.Error())
		}
		return nil, err
	}

	c := &models.Contribution{
		UserID:      userID,
		RecipeTitle: recipeReq.Title,
		PRNumber:    result.Number,
		PRURL:       result.URL,
		Branch:      result.Branch,
	}
	if recipeID != "" {
		c.RecipeID = &recipeID
	}
	if err := s.repo.Create(ctx, c); err != nil {
		// The pull request exists; losing the local record is not fatal.
		s.log.Error("failed to record contribution", zap.String("pr_url", result.URL), zap.Error(err))
	}

	s.log.Info("recipe contributed", zap.String("user_id", userID), zap.Int("pr", result.Number))
	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpContributionCreate, Data: c})
	return c, nil
}

func (s *contributionService) List(ctx context.Context, userID string) ([]models.Contribution, error) {
	return s.repo.ListByUser(ctx, userID)
}

// recipeFor returns the recipe to submit: a saved recipe the user can see,
// or the inline one.
func (s *contributionService) recipeFor(ctx context.Context, userID string, req *models.ContributeRequest) (*models.RecipeRequest, string, error) {
	switch {
	case req.RecipeID != "" && req.Recipe != nil:
		return nil, "", fmt.Errorf("%w: send either recipe_id or recipe, not both", pkg.ErrBadRequest)
	case req.Recipe != nil:
		return req.Recipe, "", nil
	case req.RecipeID == "":
		return nil, "", fmt.Errorf("%w: recipe_id or recipe is required", pkg.ErrBadRequest)
	}

	recipe, err := s.recipes.Get(ctx, userID, req.RecipeID)
	if err != nil {
		return nil, "", err
	}
	image := ""
	if recipe.ImageURL != nil {
		image = *recipe.ImageURL
	}
	return &models.RecipeRequest{
		Title:        recipe.Title,
		Description:  recipe.Description,
		Servings:     recipe.Servings,
		PrepMinutes:  recipe.PrepMinutes,
		CookMinutes:  recipe.CookMinutes,
		Difficulty:   string(recipe.Difficulty),
		Cuisine:      recipe.Cuisine,
		Tags:         append([]string(nil), recipe.Tags...),
		Ingredients:  append([]models.RecipeIngredient(nil), recipe.Ingredients...),
		Instructions: append([]string(nil), recipe.Instructions...),
		Nutrition:    recipe.Nutrition,
		ImageURL:     image,
		IsPublic:     recipe.IsPublic,
	}, recipe.ID, nil
}

func (s *contributionService) tokenFor(ctx context.Context, userID string) (string, error) {
	token, err := s.tokens.GitHubToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	if s.serverToken != "" {
		return s.serverToken, nil
	}
	return "", fmt.Errorf("%w: save a GitHub token before contributing", pkg.ErrBadRequest)
}
