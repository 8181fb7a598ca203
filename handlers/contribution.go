package handlers

import (
	"net/http"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/services"
)

type ContributionHandler struct {
	contributionService services.ContributionService
}

func NewContributionHandler(contributionService services.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributionService: contributionService}
}

// Contribute godoc
// POST /api/contributions
//
// Opens a pull request against the upstream recipe repository. Slow: it
// makes several sequential GitHub calls.
func (h *ContributionHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	var req models.ContributeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.contributionService.Contribute(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, c)
}

// List godoc
// GET /api/contributions
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(w, r)
	if !ok {
		return
	}

	list, err := h.contributionService.List(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}
