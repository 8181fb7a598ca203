package handlers

import (
	"net/http"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/services"
)

// IngredientHandler serves the shared ingredient catalog.
type IngredientHandler struct {
	ingredientService services.IngredientService
}

func NewIngredientHandler(ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// List godoc
// GET /api/ingredients
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.ingredientService.List(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// Get godoc
// GET /api/ingredients/{id}
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	ing, err := h.ingredientService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, ing)
}

// Create godoc
// POST /api/ingredients
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.IngredientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ing, err := h.ingredientService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, ing)
}

// Update godoc
// PUT /api/ingredients/{id}
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.IngredientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ing, err := h.ingredientService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, ing)
}

// Delete godoc
// DELETE /api/ingredients/{id}
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ingredientService.Delete(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "ingredient deleted"})
}

// Resolve godoc
// POST /api/ingredients/resolve
//
// Returns the closest catalog entry for free text, creating one when
// nothing is similar enough.
func (h *IngredientHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.ingredientService.Resolve(r.Context(), req.Name)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	pkg.JSON(w, status, res)
}
