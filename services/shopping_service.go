package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/foodie-app/foodie/models"
	"github.com/foodie-app/foodie/pkg"
	"github.com/foodie-app/foodie/pkg/email"
	"github.com/foodie-app/foodie/pkg/i18n"
	"github.com/foodie-app/foodie/pkg/ratelimit"
	"github.com/foodie-app/foodie/pkg/scaling"
	"github.com/foodie-app/foodie/pkg/shoplist"
	"github.com/foodie-app/foodie/repository"
	"github.com/foodie-app/foodie/ws"
)

// GeneratedList is an unsaved list built from the meal plan.
type GeneratedList struct {
	StartDate string                   `json:"start_date"`
	EndDate   string                   `json:"end_date"`
	Items     []shoplist.Item          `json:"items"`
	Groups    []shoplist.CategoryGroup `json:"groups"`
}

// Export is a rendered list ready to download.
type Export struct {
	Filename    string
	ContentType string
	Content     string
}

// ShoppingService builds, stores, exports and shares shopping lists.
type ShoppingService interface {
	Generate(ctx context.Context, userID string, req *models.GenerateListRequest) (*GeneratedList, error)
	Save(ctx context.Context, userID string, req *models.SaveListRequest) (*models.ShoppingList, error)
	List(ctx context.Context, userID string) ([]models.ShoppingList, error)
	Get(ctx context.Context, userID, id string) (*models.ShoppingList, error)
	Toggle(ctx context.Context, userID, id string, req *models.ToggleItemRequest) (*models.ShoppingList, error)
	Delete(ctx context.Context, userID, id string) error
	// Export renders a saved list as text, csv or whatsapp with labels in lang.
	Export(ctx context.Context, userID, id, format, lang string) (*Export, error)
	Share(ctx context.Context, userID, id string, req *models.ShareListRequest) error
}

type shoppingService struct {
	lists   repository.ShoppingListRepository
	plans   repository.MealPlanRepository
	pantry  repository.PantryRepository
	users   repository.UserRepository
	recipes RecipeGetter
	mailer  email.Sender
	limiter *ratelimit.ActionRateLimiter
	hub     ws.EventPublisher
	log     *zap.Logger
}

// NewShoppingService wires the service. limiter throttles Share per user.
func NewShoppingService(
	lists repository.ShoppingListRepository,
	plans repository.MealPlanRepository,
	pantry repository.PantryRepository,
	users repository.UserRepository,
	recipes RecipeGetter,
	mailer email.Sender,
	limiter *ratelimit.ActionRateLimiter,
	hub ws.EventPublisher,
) ShoppingService {
	return &shoppingService{
		lists:   lists,
		plans:   plans,
		pantry:  pantry,
		users:   users,
		recipes: recipes,
		mailer:  mailer,
		limiter: limiter,
		hub:     hub,
		log:     zap.L().Named("shopping"),
	}
}

func (s *shoppingService) Generate(ctx context.Context, userID string, req *models.GenerateListRequest) (*GeneratedList, error) {
	if err := req.DateRange.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	entries, err := s.plans.ListByRange(ctx, userID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.RecipeID
	}
	recipes, err := loadRecipes(ctx, s.recipes, userID, ids)
	if err != nil {
		return nil, err
	}

	var needs []shoplist.Entry
	for _, e := range entries {
		recipe, ok := recipes[e.RecipeID]
		if !ok {
			continue
		}
		factor, err := scaling.Factor(recipe.Servings, e.Servings)
		if err != nil {
			s.log.Warn("skipping meal plan entry", zap.String("entry_id", e.ID), zap.Error(err))
			continue
		}
		for _, line := range scaling.ScaleIngredients(recipe.Ingredients, factor) {
			needs = append(needs, shoplist.Entry{
				IngredientID: line.IngredientID,
				Name:         line.Name,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
				UsedIn:       []string{recipe.Title},
			})
		}
	}

	items := shoplist.Consolidate(needs)

	if req.SubtractPantry {
		stock, err := s.pantry.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		items = shoplist.SubtractPantry(items, pantryStock(stock))
	}
	if items == nil {
		items = []shoplist.Item{}
	}

	return &GeneratedList{
		StartDate: req.Start,
		EndDate:   req.End,
		Items:     items,
		Groups:    shoplist.GroupByCategory(items),
	}, nil
}

func pantryStock(items []models.PantryItem) []shoplist.Stock {
	stock := make([]shoplist.Stock, len(items))
	for i, p := range items {
		stock[i] = shoplist.Stock{Name: p.Name, Quantity: p.Quantity, Unit: p.Unit}
		if p.IngredientID != nil {
			stock[i].IngredientID = *p.IngredientID
		}
	}
	return stock
}

func (s *shoppingService) Save(ctx context.Context, userID string, req *models.SaveListRequest) (*models.ShoppingList, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	list := &models.ShoppingList{
		UserID:    userID,
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Items:     req.Items,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpShoppingListCreate, Data: list})
	return list, nil
}

func (s *shoppingService) List(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	return s.lists.ListByUser(ctx, userID)
}

func (s *shoppingService) Get(ctx context.Context, userID, id string) (*models.ShoppingList, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, fmt.Errorf("%w: shopping list", pkg.ErrNotFound)
	}
	return list, nil
}

func (s *shoppingService) Toggle(ctx context.Context, userID, id string, req *models.ToggleItemRequest) (*models.ShoppingList, error) {
	list, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Index < 0 || req.Index >= len(list.Items) {
		return nil, fmt.Errorf("%w: item index %d out of range", pkg.ErrBadRequest, req.Index)
	}

	if err := s.lists.SetItemChecked(ctx, id, req.Index, req.Checked); err != nil {
		return nil, err
	}
	// Reload so concurrent toggles from other devices are included.
	if list, err = s.lists.GetByID(ctx, id); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpShoppingListUpdate, Data: list})
	return list, nil
}

func (s *shoppingService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpShoppingListDelete, Data: ws.DeletedData{ID: id}})
	return nil
}

var exportTypes = map[string]struct{ ext, contentType string }{
	shoplist.FormatTextName:     {"txt", "text/plain; charset=utf-8"},
	shoplist.FormatCSVName:      {"csv", "text/csv; charset=utf-8"},
	shoplist.FormatWhatsAppName: {"txt", "text/plain; charset=utf-8"},
}

func (s *shoppingService) Export(ctx context.Context, userID, id, format, lang string) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = shoplist.FormatTextName
	}
	kind, ok := exportTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported export format %q", pkg.ErrBadRequest, format)
	}

	list, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	content, err := shoplist.Format(format, list.Title, list.Items, i18n.NewLocalizer(lang))
	if err != nil {
		return nil, fmt.Errorf("failed to render shopping list: %w", err)
	}

	return &Export{
		Filename:    fmt.Sprintf("%s.%s", slugify(list.Title, "shopping-list"), kind.ext),
		ContentType: kind.contentType,
		Content:     content,
	}, nil
}

func (s *shoppingService) Share(ctx context.Context, userID, id string, req *models.ShareListRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	if !s.limiter.Allow(userID) {
		return fmt.Errorf("%w: try again in %s", pkg.ErrRateLimited,
			ratelimit.FormatRetryMessage(s.limiter.CooldownSeconds(userID)))
	}

	list, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	sender, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	l := i18n.NewLocalizer(sender.Language)
	msg := email.ShoppingList{
		To:      req.Email,
		Subject: l.TWithParams("email.shopping_list_subject", map[string]string{"title": list.Title}),
		Intro:   l.TWithParams("email.shopping_list_intro", map[string]string{"sender": sender.DisplayName}),
		Text:    shoplist.FormatText(list.Title, list.Items, l),
	}
	if err := s.mailer.SendShoppingList(ctx, msg); err != nil {
		return fmt.Errorf("failed to send shopping list: %w", err)
	}

	s.log.Info("shopping list shared", zap.String("list_id", list.ID), zap.String("user_id", userID))
	return nil
}
