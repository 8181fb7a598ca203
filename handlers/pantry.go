package handlers

import (
	"net/http"
	"strconv"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/services"
)

const defaultExpiringDays = 3

type PantryHandler struct {
	pantryService services.PantryService
}

func NewPantryHandler(pantryService services.PantryService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService}
}

// List godoc
// GET /api/pantry
func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	items, err := h.pantryService.List(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, items)
}

// Expiring godoc
// GET /api/pantry/expiring?days=N
func (h *PantryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	days := defaultExpiringDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "days must be a whole number")
			return
		}
		days = parsed
	}

	items, err := h.pantryService.Expiring(r.Context(), user.ID, days)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, items)
}

// Create godoc
// POST /api/pantry
func (h *PantryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.PantryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.pantryService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, item)
}

// Update godoc
// PUT /api/pantry/{id}
func (h *PantryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.PantryItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.pantryService.Update(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, item)
}

// Delete godoc
// DELETE /api/pantry/{id}
func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	if err := h.pantryService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "pantry item deleted"})
}
