package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodie-app/foodie/pkg/shoplist"
)

// ShoppingList is a saved, consolidated list. Items keep their order.
type ShoppingList struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Items     []shoplist.Item `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GenerateListRequest builds a list from the meal plan between Start and
// End. When SubtractPantry is set, stock on hand is deducted.
type GenerateListRequest struct {
	DateRange
	SubtractPantry bool `json:"subtract_pantry"`
}

// SaveListRequest stores a (possibly edited) generated list.
type SaveListRequest struct {
	Title     string          `json:"title"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Items     []shoplist.Item `json:"items"`
}

func (r *SaveListRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	n := utf8.RuneCountInString(r.Title)
	if n == 0 || n > 100 {
		return fmt.Errorf("title must be between 1 and 100 characters")
	}
	for i := range r.Items {
		it := &r.Items[i]
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			return fmt.Errorf("item %d: name is required", i+1)
		}
		if it.Quantity < 0 {
			return fmt.Errorf("item %d: quantity cannot be negative", i+1)
		}
		if it.Category == "" {
			it.Category = shoplist.Categorize(it.Name).Key
		}
		if it.UsedIn == nil {
			it.UsedIn = []string{}
		}
	}
	if r.Items == nil {
		r.Items = []shoplist.Item{}
	}
	return nil
}

// ToggleItemRequest sets the checked state of one item by index.
type ToggleItemRequest struct {
	Index   int  `json:"index"`
	Checked bool `json:"checked"`
}

// ShareListRequest emails a list in text form.
type ShareListRequest struct {
	Email string `json:"email"`
}

func (r *ShareListRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validateEmail(r.Email)
}
