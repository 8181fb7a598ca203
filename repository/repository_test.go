package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/shoplist"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "foodie.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, DisplayName: "Cook", PasswordHash: "hash", Language: "en"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createRecipe(t *testing.T, repo RecipeRepository, owner, title string, public bool, tags ...string) *models.Recipe {
	t.Helper()
	rec := &models.Recipe{
		OwnerID:      owner,
		Title:        title,
		Servings:     4,
		Difficulty:   models.DifficultyEasy,
		Cuisine:      "Italian",
		Tags:         tags,
		Ingredients:  []models.RecipeIngredient{{Name: "flour", Quantity: 2, Unit: "cup", Cost: 0.8}},
		Instructions: []string{"Mix"},
		Nutrition:    models.Nutrition{Calories: 800},
		IsPublic:     public,
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestUserRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSQLiteUserRepo(newTestDB(t).Conn)

	u := createUser(t, repo, "cook@example.com")
	assert.NotEmpty(t, u.ID)

	err := repo.Create(ctx, &models.User{Email: "COOK@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, "cook@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.False(t, got.HasGitHubToken)

	enc := "ciphertext"
	require.NoError(t, repo.SetGitHubToken(ctx, u.ID, &enc))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasGitHubToken)

	got.DisplayName, got.Language = "Chef", "es"
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chef", got.DisplayName)
	assert.Equal(t, "new-hash", got.PasswordHash)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.User{ID: "missing"}), pkg.ErrNotFound)
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "s@example.com")
	repo := NewSQLiteSessionRepo(db.Conn)

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.Session{UserID: u.ID, RefreshToken: "old", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{UserID: u.ID, RefreshToken: "new", ExpiresAt: now.Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	s, err := repo.GetByRefreshToken(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.UserID)
	_, err = repo.GetByRefreshToken(ctx, "old")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestRecipeRepo_ListVisibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db.Conn)
	repo := NewSQLiteRecipeRepo(db.Conn)

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	createRecipe(t, repo, alice.ID, "Alice Public Pasta", true, "dinner")
	createRecipe(t, repo, alice.ID, "Alice Secret Soup", false, "lunch")
	createRecipe(t, repo, bob.ID, "Bob Pancakes", false, "breakfast")

	titles := func(f models.RecipeFilter) []string {
		list, err := repo.List(ctx, f)
		require.NoError(t, err)
		var out []string
		for _, r := range list {
			out = append(out, r.Title)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"Alice Public Pasta", "Bob Pancakes"}, titles(models.RecipeFilter{ViewerID: bob.ID}))
	assert.ElementsMatch(t, []string{"Bob Pancakes"}, titles(models.RecipeFilter{ViewerID: bob.ID, Mine: true}))
	assert.ElementsMatch(t, []string{"Alice Secret Soup"}, titles(models.RecipeFilter{ViewerID: alice.ID, Tag: "Lunch"}))
	assert.ElementsMatch(t, []string{"Alice Public Pasta"}, titles(models.RecipeFilter{ViewerID: alice.ID, Query: "pasta"}))
	assert.Empty(t, titles(models.RecipeFilter{ViewerID: alice.ID, Cuisine: "thai"}))
}

func TestRecipeRepo_ListPagingAndIngredientSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "cook@example.com")
	repo := NewSQLiteRecipeRepo(db.Conn)

	for i := range 120 {
		createRecipe(t, repo, u.ID, fmt.Sprintf("Recipe %03d", i), false)
	}
	saffron := &models.Recipe{
		OwnerID: u.ID, Title: "Paella", Servings: 4, Difficulty: models.DifficultyMedium,
		Ingredients:  []models.RecipeIngredient{{Name: "Saffron threads", Quantity: 1, Unit: "g"}},
		Instructions: []string{"Cook"},
	}
	require.NoError(t, repo.Create(ctx, saffron))

	list, err := repo.List(ctx, models.RecipeFilter{ViewerID: u.ID, Limit: 150})
	require.NoError(t, err)
	assert.Len(t, list, 121, "limit is used as passed")

	list, err = repo.List(ctx, models.RecipeFilter{ViewerID: u.ID, Limit: 50, Offset: 100})
	require.NoError(t, err)
	assert.Len(t, list, 21)

	list, err = repo.List(ctx, models.RecipeFilter{ViewerID: u.ID, Query: "unit"})
	require.NoError(t, err)
	assert.Empty(t, list, "JSON keys are not searched")

	list, err = repo.List(ctx, models.RecipeFilter{ViewerID: u.ID, Query: "SAFFRON"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Paella", list[0].Title)
}

func TestRecipeRepo_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "c@example.com")
	repo := NewSQLiteRecipeRepo(db.Conn)

	rec := createRecipe(t, repo, u.ID, "Bread", false)
	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Ingredients, got.Ingredients)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, 800.0, got.Nutrition.Calories)

	got.Servings = 8
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.Delete(ctx, rec.ID))
	assert.ErrorIs(t, repo.Delete(ctx, rec.ID), pkg.ErrNotFound)
}

func TestMealPlanRepo_ListByRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "plan@example.com")
	rec := createRecipe(t, NewSQLiteRecipeRepo(db.Conn), u.ID, "Omelette", false)
	repo := NewSQLiteMealPlanRepo(db.Conn)

	for _, e := range []models.MealPlanEntry{
		{Date: "2024-03-02", MealType: models.MealDinner},
		{Date: "2024-03-02", MealType: models.MealBreakfast},
		{Date: "2024-03-01", MealType: models.MealSnack},
		{Date: "2024-03-09", MealType: models.MealLunch},
	} {
		e.UserID, e.RecipeID, e.Servings = u.ID, rec.ID, 2
		require.NoError(t, repo.Create(ctx, &e))
	}

	err := repo.Create(ctx, &models.MealPlanEntry{UserID: u.ID, RecipeID: "missing", Date: "2024-03-01", MealType: models.MealLunch, Servings: 1})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	entries, err := repo.ListByRange(ctx, u.ID, "2024-03-01", "2024-03-07")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-03-01", entries[0].Date)
	assert.Equal(t, models.MealBreakfast, entries[1].MealType)
	assert.Equal(t, models.MealDinner, entries[2].MealType)
	assert.Equal(t, "Omelette", entries[0].RecipeTitle)
}

func TestPantryRepo_ListExpiring(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "p@example.com")
	repo := NewSQLitePantryRepo(db.Conn)

	date := func(s string) *string { return &s }
	for _, it := range []models.PantryItem{
		{Name: "milk", Quantity: 1, Unit: "l", ExpiresOn: date("2024-03-03")},
		{Name: "yogurt", Quantity: 2, ExpiresOn: date("2024-03-01")},
		{Name: "rice", Quantity: 1, Unit: "kg"},
		{Name: "cheese", Quantity: 1, ExpiresOn: date("2024-04-01")},
	} {
		it.UserID = u.ID
		require.NoError(t, repo.Create(ctx, &it))
	}

	items, err := repo.ListExpiring(ctx, u.ID, "2024-03-05")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "yogurt", items[0].Name)
	assert.Equal(t, "milk", items[1].Name)

	all, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestShoppingListRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "l@example.com")
	repo := NewSQLiteShoppingListRepo(db.Conn)

	l := &models.ShoppingList{UserID: u.ID, Title: "Week 10", Items: []shoplist.Item{
		{Name: "flour", Quantity: 2, Unit: "cup", Category: "pantry", UsedIn: []string{"Bread"}},
	}}
	require.NoError(t, repo.Create(ctx, l))

	require.NoError(t, repo.SetItemChecked(ctx, l.ID, 0, true))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Checked)
	assert.Equal(t, []string{"Bread"}, got.Items[0].UsedIn)
	assert.Equal(t, 2.0, got.Items[0].Quantity)

	assert.ErrorIs(t, repo.SetItemChecked(ctx, l.ID, 1, true), pkg.ErrNotFound, "no append past the end")
	assert.ErrorIs(t, repo.SetItemChecked(ctx, "missing", 0, true), pkg.ErrNotFound)
	got, err = repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	lists, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lists, 1)

	require.NoError(t, repo.Delete(ctx, l.ID))
	_, err = repo.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestIngredientRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewSQLiteIngredientRepo(newTestDB(t).Conn)

	ing := &models.Ingredient{Name: "green onion", Aliases: []string{"scallion"}, Category: "produce"}
	require.NoError(t, repo.Create(ctx, ing))
	assert.ErrorIs(t, repo.Create(ctx, &models.Ingredient{Name: "Green Onion"}), pkg.ErrAlreadyExists)

	got, err := repo.GetByName(ctx, "GREEN ONION")
	require.NoError(t, err)
	assert.Equal(t, []string{"scallion"}, got.Aliases)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestContributionRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := newTestDB(t)
	u := createUser(t, NewSQLiteUserRepo(db.Conn), "gh@example.com")
	repo := NewSQLiteContributionRepo(db.Conn)

	require.NoError(t, repo.Create(ctx, &models.Contribution{
		UserID: u.ID, RecipeTitle: "Shakshuka", PRNumber: 7, PRURL: "https://github.com/foodie-app/recipes/pull/7", Branch: "recipe/shakshuka-1",
	}))

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].PRNumber)
	assert.Nil(t, list[0].RecipeID)
}
