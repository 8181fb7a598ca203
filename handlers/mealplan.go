package handlers

import (
	"net/http"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/services"
)

// MealPlanHandler serves the meal-plan calendar.
type MealPlanHandler struct {
	mealPlanService services.MealPlanService
}

func NewMealPlanHandler(mealPlanService services.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlanService: mealPlanService}
}

func dateRange(r *http.Request) models.DateRange {
	q := r.URL.Query()
	return models.DateRange{Start: q.Get("start"), End: q.Get("end")}
}

// List godoc
// GET /api/mealplan?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	entries, err := h.mealPlanService.List(r.Context(), user.ID, dateRange(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, entries)
}

// Nutrition godoc
// GET /api/mealplan/nutrition?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *MealPlanHandler) Nutrition(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	summary, err := h.mealPlanService.Nutrition(r.Context(), user.ID, dateRange(r))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, summary)
}

// Add godoc
// POST /api/mealplan
func (h *MealPlanHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.MealPlanEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.mealPlanService.Add(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, entry)
}

// Move godoc
// PATCH /api/mealplan/{id}
//
// Drag and drop on the calendar: any of date, meal_type and servings.
func (h *MealPlanHandler) Move(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.MoveEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.mealPlanService.Move(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, entry)
}

// Delete godoc
// DELETE /api/mealplan/{id}
func (h *MealPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	if err := h.mealPlanService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "entry deleted"})
}
