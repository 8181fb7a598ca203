// Package shoplist turns the ingredient lines of planned recipes into a
// consolidated, categorized shopping list and renders it for export.
//
// Everything here is pure: callers load recipes and pantry stock and pass
// plain values in.
package shoplist

import (
	"sort"
	"strings"

	"github.com/foodie-app/foodie/pkg/units"
)

// Entry is one ingredient requirement coming from a recipe.
type Entry struct {
	IngredientID string
	Name         string
	Quantity     float64
	Unit         string
	UsedIn       []string
}

// Item is a consolidated shopping list line.
type Item struct {
	IngredientID string   `json:"ingredient_id,omitempty"`
	Name         string   `json:"name"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	Category     string   `json:"category"`
	UsedIn       []string `json:"used_in"`
	Checked      bool     `json:"checked"`
}

// Stock is an amount already on hand, used by SubtractPantry.
type Stock struct {
	IngredientID string
	Name         string
	Quantity     float64
	Unit         string
}

type groupKey struct {
	ingredient string
	unit       string
}

// identity is the grouping identity of an ingredient: its catalog id, or its
// normalized name when it was never resolved.
func identity(ingredientID, name string) string {
	if ingredientID != "" {
		return ingredientID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(name))
}

// normalize converts to the base unit unless the result would round to
// zero, in which case the quantity stays in its own (canonical) unit.
func normalize(quantity float64, unit string) (float64, string) {
	qty, base := units.Normalize(quantity, unit)
	if quantity != 0 && units.Round2(qty) == 0 {
		return quantity, units.Canonical(unit)
	}
	return qty, base
}

// Consolidate merges entries that share an ingredient and normalized unit.
// Quantities are summed in the base unit and rounded to two decimals; amounts
// too small to survive that rounding keep their own unit. UsedIn
// is the union of recipe names in first-seen order.
func Consolidate(entries []Entry) []Item {
	index := make(map[groupKey]int)
	var items []Item
	used := make([]map[string]bool, 0)

	for _, e := range entries {
		qty, unit := normalize(e.Quantity, e.Unit)
		key := groupKey{ingredient: identity(e.IngredientID, e.Name), unit: unit}

		i, ok := index[key]
		if !ok {
			i = len(items)
			index[key] = i
			items = append(items, Item{
				IngredientID: e.IngredientID,
				Name:         strings.TrimSpace(e.Name),
				Unit:         unit,
				Category:     Categorize(e.Name).Key,
				UsedIn:       []string{},
			})
			used = append(used, make(map[string]bool))
		}

		items[i].Quantity += qty
		for _, r := range e.UsedIn {
			if r == "" || used[i][r] {
				continue
			}
			used[i][r] = true
			items[i].UsedIn = append(items[i].UsedIn, r)
		}
	}

	for i := range items {
		items[i].Quantity = units.Round2(items[i].Quantity)
	}
	Sort(items)
	return items
}

// SubtractPantry removes stock already on hand. Only stock with the same
// ingredient and normalized unit is subtracted; lines that drop to zero or
// below are removed.
func SubtractPantry(items []Item, pantry []Stock) []Item {
	onHand := make(map[groupKey]float64)
	for _, s := range pantry {
		qty, unit := normalize(s.Quantity, s.Unit)
		onHand[groupKey{ingredient: identity(s.IngredientID, s.Name), unit: unit}] += qty
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := groupKey{ingredient: identity(it.IngredientID, it.Name), unit: units.Canonical(it.Unit)}
		if have, ok := onHand[key]; ok {
			it.Quantity = units.Round2(it.Quantity - have)
			if it.Quantity <= 0 {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// Sort orders items by category display order, then by name.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := categoryRank(items[i].Category), categoryRank(items[j].Category)
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

// CategoryGroup is a category with its items, for rendering.
type CategoryGroup struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// GroupByCategory groups items in category display order. Empty categories
// are omitted.
func GroupByCategory(items []Item) []CategoryGroup {
	sorted := append([]Item(nil), items...)
	Sort(sorted)

	var groups []CategoryGroup
	for _, it := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Category.Key == it.Category {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, CategoryGroup{
			Category: CategoryByKey(it.Category),
			Items:    []Item{it},
		})
	}
	return groups
}
