package models

import (
	"fmt"
	"strings"
	"time"
)

// MealType is the slot of a meal plan entry within a day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// Valid reports whether m is one of the four slots.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Rank orders slots within a day.
func (m MealType) Rank() int {
	switch m {
	case MealBreakfast:
		return 0
	case MealLunch:
		return 1
	case MealDinner:
		return 2
	default:
		return 3
	}
}

// MealPlanEntry schedules a recipe on a day. RecipeTitle is joined in for
// listings.
type MealPlanEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        string    `json:"date"`
	MealType    MealType  `json:"meal_type"`
	RecipeID    string    `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	Servings    int       `json:"servings"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// MealPlanEntryRequest adds a recipe to the plan. Servings of 0 means the
// recipe's own servings.
type MealPlanEntryRequest struct {
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
	Notes    string `json:"notes"`
}

func (r *MealPlanEntryRequest) Validate() error {
	if err := validateDate(r.Date); err != nil {
		return err
	}
	r.MealType = strings.ToLower(strings.TrimSpace(r.MealType))
	if !MealType(r.MealType).Valid() {
		return fmt.Errorf("meal_type must be breakfast, lunch, dinner or snack")
	}
	if strings.TrimSpace(r.RecipeID) == "" {
		return fmt.Errorf("recipe_id is required")
	}
	if r.Servings < 0 || r.Servings > 100 {
		return fmt.Errorf("servings must be between 1 and 100")
	}
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}

// MoveEntryRequest drags an entry to another day and/or slot. Empty fields
// keep their current value.
type MoveEntryRequest struct {
	Date     string `json:"date"`
	MealType string `json:"meal_type"`
	Servings int    `json:"servings"`
}

func (r *MoveEntryRequest) Validate() error {
	if r.Date == "" && r.MealType == "" && r.Servings == 0 {
		return fmt.Errorf("nothing to change")
	}
	if r.Date != "" {
		if err := validateDate(r.Date); err != nil {
			return err
		}
	}
	if r.MealType != "" {
		r.MealType = strings.ToLower(strings.TrimSpace(r.MealType))
		if !MealType(r.MealType).Valid() {
			return fmt.Errorf("meal_type must be breakfast, lunch, dinner or snack")
		}
	}
	if r.Servings < 0 || r.Servings > 100 {
		return fmt.Errorf("servings must be between 1 and 100")
	}
	return nil
}

// DateRange is an inclusive range of YYYY-MM-DD dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MaxRangeDays bounds plan and shopping list queries.
const MaxRangeDays = 62

func (r DateRange) Validate() error {
	if err := validateDate(r.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := validateDate(r.End); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	start, _ := time.Parse(DateLayout, r.Start)
	end, _ := time.Parse(DateLayout, r.End)
	if end.Before(start) {
		return fmt.Errorf("end must not be before start")
	}
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return fmt.Errorf("range must be at most %d days", MaxRangeDays)
	}
	return nil
}

func validateDate(s string) error {
	if s == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}
