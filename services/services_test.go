package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/cache"
	"github.com/foodie-app/foodie/pkg/crypto"
	"github.com/foodie-app/foodie/pkg/email"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/pkg/ratelimit"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

func TestMain(m *testing.M) {
	locales, err := i18n.Locales()
	if err != nil {
		panic(err)
	}
	if err := i18n.Load(locales); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type recordedEvent struct {
	UserID string
	Op     string
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) BroadcastToUser(userID string, event ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Op: event.Op})
}

func (r *recorder) ops(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ops []string
	for _, e := range r.events {
		if e.UserID == userID {
			ops = append(ops, e.Op)
		}
	}
	return ops
}

type fakeMailer struct {
	mu     sync.Mutex
	resets []email.PasswordReset
	lists  []email.ShoppingList
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, msg email.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, msg)
	return nil
}

func (m *fakeMailer) SendShoppingList(_ context.Context, msg email.ShoppingList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, msg)
	return nil
}

type fixture struct {
	hub    *recorder
	mailer *fakeMailer

	userRepo         repository.UserRepository
	contributionRepo repository.ContributionRepository

	auth        AuthService
	ingredients IngredientService
	recipes     RecipeService
	pantry      PantryService
	plans       MealPlanService
	shopping    ShoppingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "foodie.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.DeriveKey(strings.Repeat("ab", 32))
	require.NoError(t, err)

	catalog := cache.NewSnapshot[[]models.Ingredient](time.Minute)
	shareLimiter := ratelimit.NewActionRateLimiter(1, time.Minute, time.Minute)
	t.Cleanup(shareLimiter.Stop)

	f := &fixture{hub: &recorder{}, mailer: &fakeMailer{}}
	f.userRepo = repository.NewSQLiteUserRepo(db.Conn)
	f.contributionRepo = repository.NewSQLiteContributionRepo(db.Conn)
	mealRepo := repository.NewSQLiteMealPlanRepo(db.Conn)
	pantryRepo := repository.NewSQLitePantryRepo(db.Conn)

	f.auth = NewAuthService(
		f.userRepo,
		repository.NewSQLiteSessionRepo(db.Conn),
		repository.NewSQLiteResetTokenRepo(db.Conn),
		f.mailer, "test-secret", 15, 7, key,
	)
	f.ingredients = NewIngredientService(repository.NewSQLiteIngredientRepo(db.Conn), catalog, 0.8)
	f.recipes = NewRecipeService(repository.NewSQLiteRecipeRepo(db.Conn), f.ingredients, f.hub)
	f.pantry = NewPantryService(pantryRepo, f.ingredients, f.hub)
	f.plans = NewMealPlanService(mealRepo, f.recipes, f.hub)
	f.shopping = NewShoppingService(
		repository.NewSQLiteShoppingListRepo(db.Conn), mealRepo, pantryRepo, f.userRepo,
		f.recipes, f.mailer, shareLimiter, f.hub,
	)
	return f
}

func (f *fixture) register(t *testing.T, addr, lang string) *models.User {
	t.Helper()
	tokens, err := f.auth.Register(context.Background(), &models.CreateUserRequest{
		Email: addr, Password: "correct horse", Language: lang,
	})
	require.NoError(t, err)
	return tokens.User
}

func TestAuth_RegisterLoginRefreshLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	tokens, err := f.auth.Register(ctx, &models.CreateUserRequest{Email: " Cook@Example.com ", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", tokens.User.Email)
	assert.Equal(t, "cook", tokens.User.DisplayName)
	assert.Equal(t, "en", tokens.User.Language)
	assert.Equal(t, 15*60, tokens.ExpiresIn)

	claims, err := f.auth.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, claims.UserID)

	_, err = f.auth.Register(ctx, &models.CreateUserRequest{Email: "cook@example.com", Password: "another pass"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "cook@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	login, err := f.auth.Login(ctx, &models.LoginRequest{Email: "COOK@example.com", Password: "correct horse"})
	require.NoError(t, err)

	rotated, err := f.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized, "old refresh token is single use")

	require.NoError(t, f.auth.Logout(ctx, rotated.RefreshToken))
	_, err = f.auth.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
	assert.NoError(t, f.auth.Logout(ctx, rotated.RefreshToken), "logout is idempotent")
}

func TestAuth_ValidateAccessToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := f.auth.(*authService)

	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	tokens, err := f.auth.Register(context.Background(), &models.CreateUserRequest{Email: "a@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = f.auth.ValidateAccessToken(tokens.AccessToken)
	assert.NoError(t, err)

	svc.now = time.Now
	_, err = f.auth.ValidateAccessToken(tokens.AccessToken)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized, "expired after 15 minutes")

	_, err = f.auth.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestAuth_ProfileAndPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "cook@example.com", "")

	name, lang := "  Chef  ", "ES"
	updated, err := f.auth.UpdateProfile(ctx, u.ID, &models.UpdateUserRequest{DisplayName: &name, Language: &lang})
	require.NoError(t, err)
	assert.Equal(t, "Chef", updated.DisplayName)
	assert.Equal(t, "es", updated.Language)

	bad := "fr"
	_, err = f.auth.UpdateProfile(ctx, u.ID, &models.UpdateUserRequest{Language: &bad})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	err = f.auth.ChangePassword(ctx, u.ID, &models.ChangePasswordRequest{CurrentPassword: "nope nope", NewPassword: "brand new pass"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	require.NoError(t, f.auth.ChangePassword(ctx, u.ID, &models.ChangePasswordRequest{CurrentPassword: "correct horse", NewPassword: "brand new pass"}))
	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "cook@example.com", Password: "brand new pass"})
	assert.NoError(t, err)
}

func TestAuth_ForgotAndResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "cocinero@example.com", "es")

	require.NoError(t, f.auth.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "nobody@example.com"}))
	assert.Empty(t, f.mailer.resets, "unknown email sends nothing")

	require.NoError(t, f.auth.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "Cocinero@example.com"}))
	require.NoError(t, f.auth.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "cocinero@example.com"}))
	require.Len(t, f.mailer.resets, 1, "second request inside the cooldown is dropped")

	mail := f.mailer.resets[0]
	assert.Equal(t, "cocinero@example.com", mail.To)
	assert.Equal(t, "Restablece tu contraseña de Foodie", mail.Subject)
	assert.Len(t, mail.Token, 64)

	err := f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Token: "bogus", NewPassword: "brand new pass"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	require.NoError(t, f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Token: mail.Token, NewPassword: "brand new pass"}))
	_, err = f.auth.Login(ctx, &models.LoginRequest{Email: "cocinero@example.com", Password: "brand new pass"})
	assert.NoError(t, err)

	err = f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Token: mail.Token, NewPassword: "another pass"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest, "tokens are single use")
}

func TestAuth_ResetTokenExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.auth.(*authService)
	f.register(t, "cook@example.com", "")

	require.NoError(t, f.auth.ForgotPassword(ctx, &models.ForgotPasswordRequest{Email: "cook@example.com"}))
	require.Len(t, f.mailer.resets, 1)

	svc.now = func() time.Time { return time.Now().Add(21 * time.Minute) }
	err := f.auth.ResetPassword(ctx, &models.ResetPasswordRequest{Token: f.mailer.resets[0].Token, NewPassword: "brand new pass"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAuth_GitHubToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "cook@example.com", "")

	token, err := f.auth.GitHubToken(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, token)

	updated, err := f.auth.SetGitHubToken(ctx, u.ID, &models.GitHubTokenRequest{Token: " ghp_secret "})
	require.NoError(t, err)
	assert.True(t, updated.HasGitHubToken)
	assert.NotEqual(t, "ghp_secret", *updated.GitHubTokenEnc, "stored encrypted")

	token, err = f.auth.GitHubToken(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", token)

	updated, err = f.auth.SetGitHubToken(ctx, u.ID, &models.GitHubTokenRequest{})
	require.NoError(t, err)
	assert.False(t, updated.HasGitHubToken)
}
