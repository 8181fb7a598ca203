package services

import (
	"context"
	"fmt"
	"time"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/units"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

const maxExpiringDays = 365

// PantryService manages a user's stock on hand.
type PantryService interface {
	Create(ctx context.Context, userID string, req *models.PantryItemRequest) (*models.PantryItem, error)
	List(ctx context.Context, userID string) ([]models.PantryItem, error)
	// Expiring lists items expiring within days from today, including
	// already expired ones.
	Expiring(ctx context.Context, userID string, days int) ([]models.PantryItem, error)
	Update(ctx context.Context, userID, id string, req *models.PantryItemRequest) (*models.PantryItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type pantryService struct {
	repo     repository.PantryRepository
	resolver IngredientResolver
	hub      ws.EventPublisher
	now      func() time.Time
}

func NewPantryService(repo repository.PantryRepository, resolver IngredientResolver, hub ws.EventPublisher) PantryService {
	return &pantryService{repo: repo, resolver: resolver, hub: hub, now: time.Now}
}

func (s *pantryService) Create(ctx context.Context, userID string, req *models.PantryItemRequest) (*models.PantryItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	item := &models.PantryItem{UserID: userID}
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpPantryCreate, Data: item})
	return item, nil
}

func (s *pantryService) List(ctx context.Context, userID string) ([]models.PantryItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *pantryService) Expiring(ctx context.Context, userID string, days int) ([]models.PantryItem, error) {
	if days < 0 || days > maxExpiringDays {
		return nil, fmt.Errorf("%w: days must be between 0 and %d", pkg.ErrBadRequest, maxExpiringDays)
	}
	until := s.now().UTC().AddDate(0, 0, days).Format(models.DateLayout)
	return s.repo.ListExpiring(ctx, userID, until)
}

func (s *pantryService) owned(ctx context.Context, userID, id string) (*models.PantryItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: pantry item", pkg.ErrNotFound)
	}
	return item, nil
}

func (s *pantryService) Update(ctx context.Context, userID, id string, req *models.PantryItemRequest) (*models.PantryItem, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	item, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpPantryUpdate, Data: item})
	return item, nil
}

func (s *pantryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpPantryDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

// apply copies req onto item and links the item to the catalog so it can be
// matched against shopping list lines.
func (s *pantryService) apply(ctx context.Context, item *models.PantryItem, req *models.PantryItemRequest) error {
	res, err := s.resolver.Resolve(ctx, req.Name)
	if err != nil {
		return err
	}
	id := res.Ingredient.ID

	item.IngredientID = &id
	item.Name = req.Name
	item.Quantity = req.Quantity
	item.Unit = units.Canonical(req.Unit)
	item.ExpiresOn = nil
	if req.ExpiresOn != "" {
		exp := req.ExpiresOn
		item.ExpiresOn = &exp
	}
	return nil
}
