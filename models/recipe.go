package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Difficulty is the self-reported effort of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Nutrition holds nutrition values for a whole recipe (all servings).
// Calories are kcal, sodium is mg, everything else is grams.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
	Sugar    float64 `json:"sugar" yaml:"sugar"`
	Sodium   float64 `json:"sodium" yaml:"sodium"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
		Fiber:    n.Fiber + o.Fiber,
		Sugar:    n.Sugar + o.Sugar,
		Sodium:   n.Sodium + o.Sodium,
	}
}

// RecipeIngredient is one ingredient line of a recipe.
// IngredientID points into the ingredient catalog once resolved.
type RecipeIngredient struct {
	IngredientID string  `json:"ingredient_id,omitempty" yaml:"ingredient_id,omitempty"`
	Name         string  `json:"name" yaml:"name"`
	Quantity     float64 `json:"quantity" yaml:"quantity"`
	Unit         string  `json:"unit" yaml:"unit"`
	Cost         float64 `json:"cost" yaml:"cost"`
	Notes        string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Recipe is a user-authored recipe. Ingredients, instructions and tags are
// stored as JSON columns.
type Recipe struct {
	ID           string             `json:"id" yaml:"id"`
	OwnerID      string             `json:"owner_id" yaml:"owner_id"`
	Title        string             `json:"title" yaml:"title"`
	Description  string             `json:"description" yaml:"description"`
	Servings     int                `json:"servings" yaml:"servings"`
	PrepMinutes  int                `json:"prep_minutes" yaml:"prep_minutes"`
	CookMinutes  int                `json:"cook_minutes" yaml:"cook_minutes"`
	Difficulty   Difficulty         `json:"difficulty" yaml:"difficulty"`
	Cuisine      string             `json:"cuisine" yaml:"cuisine"`
	Tags         []string           `json:"tags" yaml:"tags"`
	Ingredients  []RecipeIngredient `json:"ingredients" yaml:"ingredients"`
	Instructions []string           `json:"instructions" yaml:"instructions"`
	Nutrition    Nutrition          `json:"nutrition" yaml:"nutrition"`
	ImageURL     *string            `json:"image_url" yaml:"image_url,omitempty"`
	IsPublic     bool               `json:"is_public" yaml:"is_public"`
	CreatedAt    time.Time          `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time          `json:"updated_at" yaml:"-"`
}

// RecipeFilter narrows recipe listings. Empty fields are ignored.
type RecipeFilter struct {
	ViewerID string
	Query    string
	Cuisine  string
	Tag      string
	Mine     bool
	Limit    int
	Offset   int
}

// RecipeRequest is the body for both creating and replacing a recipe.
type RecipeRequest struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Servings     int                `json:"servings"`
	PrepMinutes  int                `json:"prep_minutes"`
	CookMinutes  int                `json:"cook_minutes"`
	Difficulty   string             `json:"difficulty"`
	Cuisine      string             `json:"cuisine"`
	Tags         []string           `json:"tags"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	Nutrition    Nutrition          `json:"nutrition"`
	ImageURL     string             `json:"image_url"`
	IsPublic     bool               `json:"is_public"`
}

// Validate applies the recipe form rules and normalizes whitespace.
//
//   - Title: 3-100 characters
//   - Servings: 1-100
//   - At least one ingredient, each with a name and a positive quantity
//   - At least one non-empty instruction step
//   - Difficulty: empty (defaults to easy) or easy/medium/hard
func (r *RecipeRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 3 || titleLen > 100 {
		return fmt.Errorf("title must be between 3 and 100 characters")
	}

	r.Description = strings.TrimSpace(r.Description)
	if utf8.RuneCountInString(r.Description) > 2000 {
		return fmt.Errorf("description must be at most 2000 characters")
	}

	if r.Servings < 1 || r.Servings > 100 {
		return fmt.Errorf("servings must be between 1 and 100")
	}

	if r.PrepMinutes < 0 || r.CookMinutes < 0 {
		return fmt.Errorf("prep and cook time cannot be negative")
	}

	switch Difficulty(r.Difficulty) {
	case "":
		r.Difficulty = string(DifficultyEasy)
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("difficulty must be 'easy', 'medium' or 'hard'")
	}

	if len(r.Ingredients) == 0 {
		return fmt.Errorf("at least one ingredient is required")
	}
	for i := range r.Ingredients {
		ing := &r.Ingredients[i]
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.Name == "" {
			return fmt.Errorf("ingredient %d: name is required", i+1)
		}
		if ing.Quantity <= 0 {
			return fmt.Errorf("ingredient %d: quantity must be greater than zero", i+1)
		}
		if ing.Cost < 0 {
			return fmt.Errorf("ingredient %d: cost cannot be negative", i+1)
		}
	}

	steps := make([]string, 0, len(r.Instructions))
	for _, step := range r.Instructions {
		if s := strings.TrimSpace(step); s != "" {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		return fmt.Errorf("at least one instruction step is required")
	}
	r.Instructions = steps

	tags := make([]string, 0, len(r.Tags))
	seen := make(map[string]bool, len(r.Tags))
	for _, tag := range r.Tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	r.Tags = tags

	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	n := r.Nutrition
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 || n.Fiber < 0 || n.Sugar < 0 || n.Sodium < 0 {
		return fmt.Errorf("nutrition values cannot be negative")
	}

	return nil
}

// ApplyTo copies the request fields onto recipe.
func (r *RecipeRequest) ApplyTo(recipe *Recipe) {
	recipe.Title = r.Title
	recipe.Description = r.Description
	recipe.Servings = r.Servings
	recipe.PrepMinutes = r.PrepMinutes
	recipe.CookMinutes = r.CookMinutes
	recipe.Difficulty = Difficulty(r.Difficulty)
	recipe.Cuisine = r.Cuisine
	recipe.Tags = r.Tags
	recipe.Ingredients = r.Ingredients
	recipe.Instructions = r.Instructions
	recipe.Nutrition = r.Nutrition
	recipe.IsPublic = r.IsPublic
	recipe.ImageURL = nil
	if r.ImageURL != "" {
		img := r.ImageURL
		recipe.ImageURL = &img
	}
}

// ScaledIngredient is a recipe line after scaling, with a display quantity
// rounded to a kitchen-friendly fraction.
type ScaledIngredient struct {
	RecipeIngredient
	Display string `json:"display"`
}

// CostSummary is the estimated cost of a recipe.
type CostSummary struct {
	Total      float64 `json:"total"`
	PerServing float64 `json:"per_serving"`
}

// ScaledRecipe is the response of the scale endpoint.
type ScaledRecipe struct {
	Recipe      Recipe             `json:"recipe"`
	Factor      float64            `json:"factor"`
	Ingredients []ScaledIngredient `json:"ingredients"`
	Cost        CostSummary        `json:"cost"`
}
