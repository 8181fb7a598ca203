package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/ws"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"flour", "flour", 1},
		{"", "", 1},
		{"flour", "flours", 1 - 1.0/6},
		{"egg", "milk", 0},
		{"jalapeño", "jalapeno", 1 - 1.0/8},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, similarity(tc.a, tc.b), 1e-9, "%q vs %q", tc.a, tc.b)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "creme-brulee-classic", slugify("Crème Brûlée (classic)", "x"))
	assert.Equal(t, "mom-s-best-chili", slugify("  Mom's   best chili!! ", "x"))
	assert.Equal(t, "recipe", slugify("日本語", "recipe"))
	assert.LessOrEqual(t, len(slugify("a very long title that goes on and on and on and on and on forever", "x")), maxSlugLen)
}

func TestIngredientService_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	flour, err := f.ingredients.Create(ctx, &models.IngredientRequest{
		Name: "All-Purpose Flour", Aliases: []string{"flour", "AP flour"}, DefaultUnit: "Cups",
	})
	require.NoError(t, err)
	assert.Equal(t, "all-purpose flour", flour.Name)
	assert.Equal(t, "pantry", flour.Category, "category guessed from name")
	assert.Equal(t, "cup", flour.DefaultUnit)

	// warm the catalog cache
	list, err := f.ingredients.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := f.ingredients.Resolve(ctx, "  Flour ")
	require.NoError(t, err)
	assert.Equal(t, flour.ID, res.Ingredient.ID)
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.Created)

	res, err = f.ingredients.Resolve(ctx, "all purpose flour")
	require.NoError(t, err)
	assert.Equal(t, flour.ID, res.Ingredient.ID)
	assert.InDelta(t, 0.94, res.Confidence, 0.001)

	res, err = f.ingredients.Resolve(ctx, "Cherry Tomatoes")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "cherry tomatoes", res.Ingredient.Name)
	assert.Equal(t, "produce", res.Ingredient.Category)

	list, err = f.ingredients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "cache invalidated on create")

	_, err = f.ingredients.Resolve(ctx, "   ")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestIngredientService_UpdateDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	ing, err := f.ingredients.Create(ctx, &models.IngredientRequest{Name: "scallion"})
	require.NoError(t, err)
	assert.Equal(t, "other", ing.Category)

	_, err = f.ingredients.Create(ctx, &models.IngredientRequest{Name: "Scallion"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	updated, err := f.ingredients.Update(ctx, ing.ID, &models.IngredientRequest{Name: "scallion", Aliases: []string{"green onion"}, Category: "produce"})
	require.NoError(t, err)
	assert.Equal(t, []string{"green onion"}, updated.Aliases)

	res, err := f.ingredients.Resolve(ctx, "Green Onion")
	require.NoError(t, err)
	assert.Equal(t, ing.ID, res.Ingredient.ID)

	require.NoError(t, f.ingredients.Delete(ctx, ing.ID))
	list, err := f.ingredients.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.ingredients.Delete(ctx, ing.ID), pkg.ErrNotFound)
}

func pancakeRequest() *models.RecipeRequest {
	return &models.RecipeRequest{
		Title:    "Pancakes",
		Servings: 4,
		Ingredients: []models.RecipeIngredient{
			{Name: "flour", Quantity: 2, Unit: "Cups", Cost: 1},
			{Name: "sugar", Quantity: 0.5, Unit: "cup", Cost: 0.5},
		},
		Instructions: []string{"Mix", "  ", "Fry"},
		Nutrition:    models.Nutrition{Calories: 800, Protein: 20},
		Tags:         []string{"Breakfast", "breakfast"},
	}
}

func TestRecipeService_CRUDAndVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com", "")
	bob := f.register(t, "bob@example.com", "")

	recipe, err := f.recipes.Create(ctx, alice.ID, pancakeRequest())
	require.NoError(t, err)
	assert.Equal(t, alice.ID, recipe.OwnerID)
	assert.Equal(t, []string{"Mix", "Fry"}, recipe.Instructions)
	assert.Equal(t, []string{"breakfast"}, recipe.Tags)
	assert.Equal(t, "cup", recipe.Ingredients[0].Unit)
	for _, line := range recipe.Ingredients {
		assert.NotEmpty(t, line.IngredientID, "%s resolved against the catalog", line.Name)
	}

	_, err = f.recipes.Get(ctx, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "private recipes are hidden")

	_, err = f.recipes.Update(ctx, bob.ID, recipe.ID, pancakeRequest())
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	req := pancakeRequest()
	req.IsPublic = true
	req.Title = "Fluffy Pancakes"
	_, err = f.recipes.Update(ctx, alice.ID, recipe.ID, req)
	require.NoError(t, err)

	got, err := f.recipes.Get(ctx, bob.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fluffy Pancakes", got.Title)

	_, err = f.recipes.Update(ctx, bob.ID, recipe.ID, pancakeRequest())
	assert.ErrorIs(t, err, pkg.ErrForbidden, "public recipes are still owner-only")
	assert.ErrorIs(t, f.recipes.Delete(ctx, bob.ID, recipe.ID), pkg.ErrForbidden)

	list, err := f.recipes.List(ctx, models.RecipeFilter{ViewerID: bob.ID, Tag: "breakfast"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	bad := pancakeRequest()
	bad.Servings = 0
	_, err = f.recipes.Create(ctx, alice.ID, bad)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	require.NoError(t, f.recipes.Delete(ctx, alice.ID, recipe.ID))
	assert.Equal(t, []string{ws.OpRecipeCreate, ws.OpRecipeUpdate, ws.OpRecipeDelete}, f.hub.ops(alice.ID))
	assert.Empty(t, f.hub.ops(bob.ID))
}

func TestRecipeService_Scaled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com", "")

	recipe, err := f.recipes.Create(ctx, alice.ID, pancakeRequest())
	require.NoError(t, err)

	scaled, err := f.recipes.Scaled(ctx, alice.ID, recipe.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 1.5, scaled.Factor)
	assert.Equal(t, 6, scaled.Recipe.Servings)
	require.Len(t, scaled.Ingredients, 2)
	assert.Equal(t, "3", scaled.Ingredients[0].Display)
	assert.Equal(t, "¾", scaled.Ingredients[1].Display)
	assert.Equal(t, 1200.0, scaled.Recipe.Nutrition.Calories)
	assert.Equal(t, models.CostSummary{Total: 2.25, PerServing: 0.38}, scaled.Cost)

	same, err := f.recipes.Scaled(ctx, alice.ID, recipe.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, same.Factor, "0 keeps the recipe servings")

	_, err = f.recipes.Scaled(ctx, alice.ID, recipe.ID, -2)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	again, err := f.recipes.Get(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, again.Ingredients[0].Quantity, "stored recipe untouched")
}
