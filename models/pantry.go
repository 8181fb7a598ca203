package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// PantryItem is stock a user has at home. ExpiresOn is a YYYY-MM-DD date.
type PantryItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	IngredientID *string   `json:"ingredient_id"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	ExpiresOn    *string   `json:"expires_on"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PantryItemRequest creates or replaces a pantry item.
type PantryItemRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	ExpiresOn string  `json:"expires_on"`
}

func (r *PantryItemRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	r.Unit = strings.TrimSpace(r.Unit)
	r.ExpiresOn = strings.TrimSpace(r.ExpiresOn)
	if r.ExpiresOn != "" {
		if _, err := time.Parse(DateLayout, r.ExpiresOn); err != nil {
			return fmt.Errorf("expires_on must be a YYYY-MM-DD date")
		}
	}
	return nil
}
