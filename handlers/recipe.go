package handlers

import (
	"net/http"
	"strconv"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/services"
)

type RecipeHandler struct {
	recipeService services.RecipeService
}

func NewRecipeHandler(recipeService services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// List godoc
// GET /api/recipes?q=&cuisine=&tag=&mine=true&limit=&offset=
//
// Returns the caller's recipes plus every public one, or only the caller's
// with mine=true.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := models.RecipeFilter{
		ViewerID: user.ID,
		Query:    q.Get("q"),
		Cuisine:  q.Get("cuisine"),
		Tag:      q.Get("tag"),
		Mine:     q.Get("mine") == "true",
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			filter.Offset = parsed
		}
	}

	recipes, err := h.recipeService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, recipes)
}

// Get godoc
// GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, recipe)
}

// Scaled godoc
// GET /api/recipes/{id}/scaled?servings=N
//
// Missing servings keeps the recipe's own yield.
func (h *RecipeHandler) Scaled(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	servings := 0
	if v := r.URL.Query().Get("servings"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "servings must be a whole number")
			return
		}
		servings = parsed
	}

	scaled, err := h.recipeService.Scaled(r.Context(), user.ID, r.PathValue("id"), servings)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, scaled)
}

// Create godoc
// POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.RecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, recipe)
}

// Update godoc
// PUT /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.RecipeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, recipe)
}

// Delete godoc
// DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}
