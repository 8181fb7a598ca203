package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/cache"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/services"
	"github.com/foodie-app/foodie/ws"
)

// LoadResult reports what loadSeed inserted.
type LoadResult struct {
	Inserted int
	Skipped  int
}

type loadOptions struct {
	kind       string
	seedPath   string
	dbPath     string
	ownerEmail string
	threshold  float64
}

// nopPublisher drops realtime events; nobody is connected to the CLI.
type nopPublisher struct{}

func (nopPublisher) BroadcastToUser(string, ws.Event) {}

// loadSeed inserts seed records through the same services the API uses,
// so names, units and categories are normalized identically. Ingredients
// already in the catalog and recipes the owner already has (same
// normalized title) are skipped.
func loadSeed(ctx context.Context, opts loadOptions) (*LoadResult, error) {
	if _, err := nameField(opts.kind); err != nil {
		return nil, err
	}
	records, err := readSeed(opts.seedPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(opts.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	catalog := cache.NewSnapshot[[]models.Ingredient](time.Minute)
	ingredients := services.NewIngredientService(repository.NewSQLiteIngredientRepo(db.Conn), catalog, opts.threshold)

	if opts.kind == KindIngredients {
		return loadIngredients(ctx, ingredients, records)
	}

	if opts.ownerEmail == "" {
		return nil, fmt.Errorf("--owner is required when loading recipes")
	}
	owner, err := repository.NewSQLiteUserRepo(db.Conn).GetByEmail(ctx, strings.ToLower(strings.TrimSpace(opts.ownerEmail)))
	if err != nil {
		return nil, fmt.Errorf("owner %s: %w", opts.ownerEmail, err)
	}
	recipes := services.NewRecipeService(repository.NewSQLiteRecipeRepo(db.Conn), ingredients, nopPublisher{})
	return loadRecipes(ctx, recipes, owner.ID, records)
}

func loadIngredients(ctx context.Context, svc services.IngredientService, records []map[string]any) (*LoadResult, error) {
	log := zap.L().Named("seed")
	res := &LoadResult{}
	for i, rec := range records {
		req, err := decodeInto[models.IngredientRequest](rec)
		if err != nil {
			return res, fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := svc.Create(ctx, req); err != nil {
			if errors.Is(err, pkg.ErrAlreadyExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("record %d (%s): %w", i, req.Name, err)
		}
		log.Debug("ingredient loaded", zap.String("name", req.Name))
		res.Inserted++
	}
	return res, nil
}

func loadRecipes(ctx context.Context, svc services.RecipeService, ownerID string, records []map[string]any) (*LoadResult, error) {
	log := zap.L().Named("seed")

	have := make(map[string]bool)
	const page = 200
	for offset := 0; ; offset += page {
		list, err := svc.List(ctx, models.RecipeFilter{ViewerID: ownerID, Mine: true, Limit: page, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, r := range list {
			have[models.NormalizeName(r.Title)] = true
		}
		if len(list) < page {
			break
		}
	}

	res := &LoadResult{}
	for i, rec := range records {
		req, err := decodeInto[models.RecipeRequest](rec)
		if err != nil {
			return res, fmt.Errorf("record %d: %w", i, err)
		}
		key := models.NormalizeName(req.Title)
		if have[key] {
			res.Skipped++
			continue
		}
		if _, err := svc.Create(ctx, ownerID, req); err != nil {
			return res, fmt.Errorf("record %d (%s): %w", i, req.Title, err)
		}
		have[key] = true
		log.Debug("recipe loaded", zap.String("title", req.Title))
		res.Inserted++
	}
	return res, nil
}
