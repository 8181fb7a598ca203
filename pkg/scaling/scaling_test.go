package scaling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodie-app/foodie/models"
)

func pancakes() models.Recipe {
	return models.Recipe{
		ID:       "r1",
		Title:    "Pancakes",
		Servings: 4,
		Tags:     []string{"breakfast"},
		Ingredients: []models.RecipeIngredient{
			{Name: "flour", Quantity: 2, Unit: "cup", Cost: 0.8},
			{Name: "milk", Quantity: 1.5, Unit: "cup", Cost: 0.6},
			{Name: "egg", Quantity: 2, Unit: "", Cost: 0.6},
		},
		Instructions: []string{"Mix", "Fry"},
		Nutrition:    models.Nutrition{Calories: 800, Protein: 24, Carbs: 120, Fat: 20, Sodium: 900},
	}
}

func TestFactor(t *testing.T) {
	t.Parallel()

	f, err := Factor(4, 6)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-9)

	_, err = Factor(0, 2)
	assert.Error(t, err)

	_, err = Factor(2, -1)
	assert.Error(t, err)
}

func TestScaleRecipe(t *testing.T) {
	t.Parallel()

	original := pancakes()
	scaled, factor, err := ScaleRecipe(original, 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, factor, 1e-9)
	assert.Equal(t, 2, scaled.Servings)

	want := []models.RecipeIngredient{
		{Name: "flour", Quantity: 1, Unit: "cup", Cost: 0.4},
		{Name: "milk", Quantity: 0.75, Unit: "cup", Cost: 0.3},
		{Name: "egg", Quantity: 1, Unit: "", Cost: 0.3},
	}
	if diff := cmp.Diff(want, scaled.Ingredients); diff != "" {
		t.Errorf("scaled ingredients mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.Nutrition{Calories: 400, Protein: 12, Carbs: 60, Fat: 10, Sodium: 450}, scaled.Nutrition)

	// the input recipe is untouched
	assert.Equal(t, pancakes(), original)
}

func TestScaleRecipe_InvalidServings(t *testing.T) {
	t.Parallel()

	r := pancakes()
	r.Servings = 0
	_, _, err := ScaleRecipe(r, 4)
	assert.Error(t, err)

	_, _, err = ScaleRecipe(pancakes(), 0)
	assert.Error(t, err)
}

func TestCost(t *testing.T) {
	t.Parallel()

	summary := Cost(pancakes().Ingredients, 4)
	assert.Equal(t, models.CostSummary{Total: 2, PerServing: 0.5}, summary)

	assert.Equal(t, models.CostSummary{Total: 2}, Cost(pancakes().Ingredients, 0))
}

func TestDailyNutrition(t *testing.T) {
	t.Parallel()

	meals := []PlannedMeal{
		{Date: "2024-05-02", RecipeServings: 4, PlannedServings: 2, Nutrition: models.Nutrition{Calories: 800}},
		{Date: "2024-05-01", RecipeServings: 2, PlannedServings: 2, Nutrition: models.Nutrition{Calories: 500, Protein: 30}},
		{Date: "2024-05-01", RecipeServings: 4, PlannedServings: 1, Nutrition: models.Nutrition{Calories: 800}},
		{Date: "2024-05-03", RecipeServings: 0, PlannedServings: 1, Nutrition: models.Nutrition{Calories: 999}},
	}

	days := DailyNutrition(meals)
	want := []DayNutrition{
		{Date: "2024-05-01", Meals: 2, Nutrition: models.Nutrition{Calories: 700, Protein: 30}},
		{Date: "2024-05-02", Meals: 1, Nutrition: models.Nutrition{Calories: 400}},
		{Date: "2024-05-03", Meals: 1, Nutrition: models.Nutrition{}},
	}
	if diff := cmp.Diff(want, days); diff != "" {
		t.Errorf("daily nutrition mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, models.Nutrition{Calories: 1100, Protein: 30}, Totals(meals))
}

func TestNiceFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input float64
		want  string
	}{
		{input: 0, want: "0"},
		{input: 0.04, want: "0"},
		{input: 0.1, want: "⅛"},
		{input: 0.25, want: "¼"},
		{input: 0.33, want: "⅓"},
		{input: 0.5, want: "½"},
		{input: 0.66, want: "⅔"},
		{input: 0.75, want: "¾"},
		{input: 1, want: "1"},
		{input: 1.5, want: "1 ½"},
		{input: 2.97, want: "3"},
		{input: 3.125, want: "3 ⅛"},
		{input: -1.25, want: "-1 ¼"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NiceFraction(tc.input))
		})
	}
}
