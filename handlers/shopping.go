package handlers

import (
	"fmt"
	"net/http"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/services"
)

// ShoppingHandler serves shopping list generation, storage and export.
type ShoppingHandler struct {
	shoppingService services.ShoppingService
}

func NewShoppingHandler(shoppingService services.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

// Generate godoc
// POST /api/shopping-lists/generate
//
// Builds an unsaved list from the meal plan for a date range.
func (h *ShoppingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.GenerateListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.shoppingService.Generate(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// Save godoc
// POST /api/shopping-lists
func (h *ShoppingHandler) Save(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.SaveListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.shoppingService.Save(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, list)
}

// List godoc
// GET /api/shopping-lists
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	lists, err := h.shoppingService.List(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, lists)
}

// Get godoc
// GET /api/shopping-lists/{id}
func (h *ShoppingHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	list, err := h.shoppingService.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// Toggle godoc
// PATCH /api/shopping-lists/{id}/items
func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.ToggleItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.shoppingService.Toggle(r.Context(), user.ID, r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// Delete godoc
// DELETE /api/shopping-lists/{id}
func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	if err := h.shoppingService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "shopping list deleted"})
}

// Export godoc
// GET /api/shopping-lists/{id}/export?format=text|csv|whatsapp&lang=
//
// Answers with the raw file rather than the JSON envelope. Labels use lang,
// else the user's language.
func (h *ShoppingHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if !i18n.IsSupported(lang) {
		lang = user.Language
	}

	export, err := h.shoppingService.Export(r.Context(), user.ID, r.PathValue("id"), r.URL.Query().Get("format"), lang)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Content))
}

// Share godoc
// POST /api/shopping-lists/{id}/share
func (h *ShoppingHandler) Share(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.ShareListRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.shoppingService.Share(r.Context(), user.ID, r.PathValue("id"), &req); err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "shopping list sent"})
}
