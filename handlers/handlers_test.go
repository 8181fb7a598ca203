package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodie-app/foodie/database"
	"github.com/foodie-app/foodie/handlers"
	"github.com/foodie-app/foodie/middleware"
	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg/cache"
	"github.com/foodie-app/foodie/pkg/crypto"
	"github.com/foodie-app/foodie/pkg/email"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/pkg/ratelimit"
	"github.com/foodie-app/foodie/pkg/shoplist"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/services"
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

type nopPublisher struct{}

func (nopPublisher) BroadcastToUser(string, ws.Event) {}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "foodie.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	key, err := crypto.DeriveKey(strings.Repeat("cd", 32))
	require.NoError(t, err)

	catalog := cache.NewSnapshot[[]models.Ingredient](time.Minute)
	loginLimiter := ratelimit.NewLoginRateLimiter(3, time.Minute)
	shareLimiter := ratelimit.NewActionRateLimiter(5, time.Minute, time.Minute)
	t.Cleanup(func() {
		loginLimiter.Stop()
		shareLimiter.Stop()
	})

	hub := nopPublisher{}
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	mealRepo := repository.NewSQLiteMealPlanRepo(db.Conn)
	pantryRepo := repository.NewSQLitePantryRepo(db.Conn)

	authSvc := services.NewAuthService(userRepo, repository.NewSQLiteSessionRepo(db.Conn),
		repository.NewSQLiteResetTokenRepo(db.Conn), email.NoopSender{}, "handler-secret", 15, 7, key)
	ingredientSvc := services.NewIngredientService(repository.NewSQLiteIngredientRepo(db.Conn), catalog, 0.8)
	recipeSvc := services.NewRecipeService(repository.NewSQLiteRecipeRepo(db.Conn), ingredientSvc, hub)
	shoppingSvc := services.NewShoppingService(repository.NewSQLiteShoppingListRepo(db.Conn), mealRepo,
		pantryRepo, userRepo, recipeSvc, email.NoopSender{}, shareLimiter, hub)

	authH := handlers.NewAuthHandler(authSvc, loginLimiter)
	recipeH := handlers.NewRecipeHandler(recipeSvc)
	pantryH := handlers.NewPantryHandler(services.NewPantryService(pantryRepo, ingredientSvc, hub))
	shoppingH := handlers.NewShoppingHandler(shoppingSvc)
	auth := middleware.NewAuthMiddleware(authSvc).RequireFunc

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handlers.NewHealthHandler(db).Health)
	mux.HandleFunc("POST /api/auth/register", authH.Register)
	mux.HandleFunc("POST /api/auth/login", authH.Login)
	mux.Handle("GET /api/users/me", auth(authH.Me))
	mux.Handle("PATCH /api/users/me", auth(authH.UpdateMe))
	mux.Handle("POST /api/recipes", auth(recipeH.Create))
	mux.Handle("GET /api/recipes/{id}/scaled", auth(recipeH.Scaled))
	mux.Handle("GET /api/pantry/expiring", auth(pantryH.Expiring))
	mux.Handle("POST /api/shopping-lists", auth(shoppingH.Save))
	mux.Handle("GET /api/shopping-lists/{id}/export", auth(shoppingH.Export))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{srv}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = strings.NewReader(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(b)
		}
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if into != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func (s *testServer) register(t *testing.T, addr string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": addr, "password": "correct horse"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tokens models.AuthTokens
	decode(t, resp, &tokens)
	return tokens.AccessToken
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body handlers.HealthResponse
	env := decode(t, resp, &body)
	assert.True(t, env.Success)
	assert.Equal(t, "ok", body.Database)

	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(downPinger{}).Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unreachable"`)
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "ana@example.com", "password": "correct horse"},
		"Accept-Language", "es-MX,es;q=0.9")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tokens models.AuthTokens
	decode(t, resp, &tokens)
	assert.Equal(t, "es", tokens.User.Language, "language picked from Accept-Language")

	resp = s.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/users/me", "", nil, "Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/users/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	decode(t, resp, &me)
	assert.Equal(t, "ana@example.com", me["email"])
	assert.NotContains(t, me, "password_hash")

	resp = s.do(t, http.MethodPatch, "/api/users/me", tokens.AccessToken, map[string]string{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", decode(t, resp, nil).Error)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "ana@example.com", "password": "correct horse"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.register(t, "ana@example.com")

	bad := map[string]string{"email": "ana@example.com", "password": "wrong password"}
	for range 3 {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", bad)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "correct horse"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assert.Contains(t, decode(t, resp, nil).Error, "too many login attempts")
}

func TestRecipeScaledEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.register(t, "ana@example.com")

	resp := s.do(t, http.MethodPost, "/api/recipes", token, models.RecipeRequest{
		Title: "Porridge", Servings: 2,
		Ingredients:  []models.RecipeIngredient{{Name: "oats", Quantity: 1, Unit: "cup"}},
		Instructions: []string{"Simmer"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var recipe models.Recipe
	decode(t, resp, &recipe)

	resp = s.do(t, http.MethodGet, "/api/recipes/"+recipe.ID+"/scaled?servings=3", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scaled models.ScaledRecipe
	decode(t, resp, &scaled)
	assert.Equal(t, 1.5, scaled.Factor)
	assert.Equal(t, "1 ½", scaled.Ingredients[0].Display)

	resp = s.do(t, http.MethodGet, "/api/recipes/"+recipe.ID+"/scaled?servings=lots", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	other := s.register(t, "bo@example.com")
	resp = s.do(t, http.MethodGet, "/api/recipes/"+recipe.ID+"/scaled", other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPantryExpiringEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.register(t, "ana@example.com")

	resp := s.do(t, http.MethodGet, "/api/pantry/expiring?days=7", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/pantry/expiring?days=week", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/pantry/expiring?days=1000", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShoppingExportEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	token := s.register(t, "ana@example.com")

	resp := s.do(t, http.MethodPost, "/api/shopping-lists", token, models.SaveListRequest{
		Title: "Weekend",
		Items: []shoplist.Item{{Name: "milk", Quantity: 2, Unit: "cup", Category: "dairy_eggs"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var list models.ShoppingList
	decode(t, resp, &list)

	resp = s.do(t, http.MethodGet, "/api/shopping-lists/"+list.ID+"/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="weekend.csv"`, resp.Header.Get("Content-Disposition"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Dairy & Eggs,milk,2,cup,,false")

	resp = s.do(t, http.MethodGet, "/api/shopping-lists/"+list.ID+"/export?format=text&lang=es", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Lácteos y huevos")

	resp = s.do(t, http.MethodGet, "/api/shopping-lists/"+list.ID+"/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
