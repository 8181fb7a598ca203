package models

import "time"

// Contribution records a recipe submitted upstream as a pull request.
type Contribution struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RecipeID    *string   `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	PRNumber    int       `json:"pr_number"`
	PRURL       string    `json:"pr_url"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContributeRequest submits either a saved recipe (RecipeID) or an inline
// recipe filled in by the contribution wizard.
type ContributeRequest struct {
	RecipeID string         `json:"recipe_id"`
	Recipe   *RecipeRequest `json:"recipe"`
}
