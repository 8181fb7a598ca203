// Package scaling adjusts recipes to a different number of servings and
// aggregates cost and nutrition across recipes and meal plans.
//
// Scaling is linear: every ingredient quantity, line cost and nutrition field
// is multiplied by target/original servings.
package scaling

import (
	"fmt"
	"sort"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg/units"
)

// Factor returns target/original. Both must be positive.
func Factor(original, target int) (float64, error) {
	if original <= 0 {
		return 0, fmt.Errorf("original servings must be positive, got %d", original)
	}
	if target <= 0 {
		return 0, fmt.Errorf("target servings must be positive, got %d", target)
	}
	return float64(target) / float64(original), nil
}

// ScaleIngredients returns a scaled copy of lines.
func ScaleIngredients(lines []models.RecipeIngredient, factor float64) []models.RecipeIngredient {
	out := make([]models.RecipeIngredient, len(lines))
	for i, l := range lines {
		l.Quantity = l.Quantity * factor
		l.Cost = units.Round2(l.Cost * factor)
		out[i] = l
	}
	return out
}

// ScaleNutrition multiplies every nutrition field by factor.
func ScaleNutrition(n models.Nutrition, factor float64) models.Nutrition {
	return models.Nutrition{
		Calories: n.Calories * factor,
		Protein:  n.Protein * factor,
		Carbs:    n.Carbs * factor,
		Fat:      n.Fat * factor,
		Fiber:    n.Fiber * factor,
		Sugar:    n.Sugar * factor,
		Sodium:   n.Sodium * factor,
	}
}

// RoundNutrition rounds every field to two decimals.
func RoundNutrition(n models.Nutrition) models.Nutrition {
	return models.Nutrition{
		Calories: units.Round2(n.Calories),
		Protein:  units.Round2(n.Protein),
		Carbs:    units.Round2(n.Carbs),
		Fat:      units.Round2(n.Fat),
		Fiber:    units.Round2(n.Fiber),
		Sugar:    units.Round2(n.Sugar),
		Sodium:   units.Round2(n.Sodium),
	}
}

// ScaleRecipe returns a copy of recipe adjusted to targetServings.
// The input recipe is not modified.
func ScaleRecipe(recipe models.Recipe, targetServings int) (models.Recipe, float64, error) {
	factor, err := Factor(recipe.Servings, targetServings)
	if err != nil {
		return models.Recipe{}, 0, err
	}

	scaled := recipe
	scaled.Servings = targetServings
	scaled.Ingredients = ScaleIngredients(recipe.Ingredients, factor)
	scaled.Nutrition = RoundNutrition(ScaleNutrition(recipe.Nutrition, factor))
	scaled.Tags = append([]string(nil), recipe.Tags...)
	scaled.Instructions = append([]string(nil), recipe.Instructions...)

	return scaled, factor, nil
}

// Cost sums line costs and divides by servings.
func Cost(lines []models.RecipeIngredient, servings int) models.CostSummary {
	var total float64
	for _, l := range lines {
		total += l.Cost
	}
	summary := models.CostSummary{Total: units.Round2(total)}
	if servings > 0 {
		summary.PerServing = units.Round2(total / float64(servings))
	}
	return summary
}

// PlannedMeal is the input for nutrition aggregation: a recipe's whole-recipe
// nutrition and servings, and how many servings were planned on Date.
type PlannedMeal struct {
	Date            string
	RecipeServings  int
	PlannedServings int
	Nutrition       models.Nutrition
}

// Contribution returns the nutrition the planned servings contribute.
// Meals with non-positive servings contribute nothing.
func (m PlannedMeal) Contribution() models.Nutrition {
	factor, err := Factor(m.RecipeServings, m.PlannedServings)
	if err != nil {
		return models.Nutrition{}
	}
	return ScaleNutrition(m.Nutrition, factor)
}

// DayNutrition is the nutrition total for a single calendar day.
type DayNutrition struct {
	Date      string           `json:"date"`
	Meals     int              `json:"meals"`
	Nutrition models.Nutrition `json:"nutrition"`
}

// DailyNutrition sums planned meals per day, sorted by date.
func DailyNutrition(meals []PlannedMeal) []DayNutrition {
	byDay := make(map[string]*DayNutrition)
	for _, m := range meals {
		d, ok := byDay[m.Date]
		if !ok {
			d = &DayNutrition{Date: m.Date}
			byDay[m.Date] = d
		}
		d.Meals++
		d.Nutrition = d.Nutrition.Add(m.Contribution())
	}

	days := make([]DayNutrition, 0, len(byDay))
	for _, d := range byDay {
		d.Nutrition = RoundNutrition(d.Nutrition)
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// Totals sums all planned meals.
func Totals(meals []PlannedMeal) models.Nutrition {
	var total models.Nutrition
	for _, m := range meals {
		total = total.Add(m.Contribution())
	}
	return RoundNutrition(total)
}

// NiceFraction formats q for display, e.g. 1.5 -> "1 ½".
func NiceFraction(q float64) string {
	return units.NiceFraction(q)
}
