package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/cache"
	"github.com/foodie-app/foodie/pkg/shoplist"
	"github.com/foodie-app/foodie/pkg/units"
	"github.com/foodie-app/foodie/repository"
)

// IngredientService manages the shared ingredient catalog.
type IngredientService interface {
	Create(ctx context.Context, req *models.IngredientRequest) (*models.Ingredient, error)
	GetByID(ctx context.Context, id string) (*models.Ingredient, error)
	List(ctx context.Context) ([]models.Ingredient, error)
	Update(ctx context.Context, id string, req *models.IngredientRequest) (*models.Ingredient, error)
	Delete(ctx context.Context, id string) error
	// Resolve maps free text to a catalog entry, creating one when nothing
	// is similar enough.
	Resolve(ctx context.Context, name string) (*models.ResolveResult, error)
}

type ingredientService struct {
	repo      repository.IngredientRepository
	catalog   *cache.Snapshot[[]models.Ingredient]
	threshold float64
	log       *zap.Logger
}

// NewIngredientService builds the service. threshold is the minimum
// similarity in (0, 1] for a fuzzy match.
func NewIngredientService(
	repo repository.IngredientRepository,
	catalog *cache.Snapshot[[]models.Ingredient],
	threshold float64,
) IngredientService {
	return &ingredientService{
		repo:      repo,
		catalog:   catalog,
		threshold: threshold,
		log:       zap.L().Named("ingredients"),
	}
}

func (s *ingredientService) Create(ctx context.Context, req *models.IngredientRequest) (*models.Ingredient, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	ing := &models.Ingredient{
		Name:        req.Name,
		Aliases:     req.Aliases,
		Category:    categoryOrGuess(req.Category, req.Name),
		DefaultUnit: units.Canonical(req.DefaultUnit),
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	s.catalog.Invalidate()
	return ing, nil
}

func (s *ingredientService) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ingredientService) List(ctx context.Context) ([]models.Ingredient, error) {
	list, gen, ok := s.catalog.Get()
	if ok {
		return list, nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(gen, list)
	return list, nil
}

func (s *ingredientService) Update(ctx context.Context, id string, req *models.IngredientRequest) (*models.Ingredient, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ing.Name = req.Name
	ing.Aliases = req.Aliases
	ing.Category = categoryOrGuess(req.Category, req.Name)
	ing.DefaultUnit = units.Canonical(req.DefaultUnit)

	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	s.catalog.Invalidate()
	return ing, nil
}

func (s *ingredientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate()
	return nil
}

func (s *ingredientService) Resolve(ctx context.Context, name string) (*models.ResolveResult, error) {
	normalized := models.NormalizeName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: name is required", pkg.ErrBadRequest)
	}

	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if match, score := bestMatch(normalized, catalog); match != nil && score >= s.threshold {
		return &models.ResolveResult{Ingredient: *match, Confidence: units.Round2(score)}, nil
	}

	ing := &models.Ingredient{
		Name:     normalized,
		Aliases:  []string{},
		Category: shoplist.Categorize(normalized).Key,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		// Lost a race with a concurrent resolve of the same name.
		if errors.Is(err, pkg.ErrAlreadyExists) {
			existing, getErr := s.repo.GetByName(ctx, normalized)
			if getErr != nil {
				return nil, getErr
			}
			return &models.ResolveResult{Ingredient: *existing, Confidence: 1}, nil
		}
		return nil, err
	}
	s.catalog.Invalidate()

	s.log.Info("ingredient auto-created", zap.String("name", normalized), zap.String("category", ing.Category))
	return &models.ResolveResult{Ingredient: *ing, Confidence: 1, Created: true}, nil
}

// bestMatch returns the catalog entry most similar to name, comparing the
// entry name and every alias. An exact match scores 1.
func bestMatch(name string, catalog []models.Ingredient) (*models.Ingredient, float64) {
	var best *models.Ingredient
	bestScore := 0.0

	for i := range catalog {
		ing := &catalog[i]
		candidates := append([]string{ing.Name}, ing.Aliases...)
		for _, c := range candidates {
			score := similarity(name, models.NormalizeName(c))
			if score == 1 {
				return ing, 1
			}
			if score > bestScore {
				best, bestScore = ing, score
			}
		}
	}
	return best, bestScore
}

// similarity is 1 - editDistance/maxLen, measured in runes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

func categoryOrGuess(category, name string) string {
	if category != "" {
		return category
	}
	return shoplist.Categorize(name).Key
}
