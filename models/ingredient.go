package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Ingredient is a catalog entry. Aliases are alternative spellings matched
// exactly by the resolver.
type Ingredient struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Aliases     []string  `json:"aliases" yaml:"aliases"`
	Category    string    `json:"category" yaml:"category"`
	DefaultUnit string    `json:"default_unit" yaml:"default_unit"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
}

// NormalizeName lowercases, trims and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// IngredientRequest creates or updates a catalog entry.
type IngredientRequest struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Category    string   `json:"category"`
	DefaultUnit string   `json:"default_unit"`
}

// Validate normalizes the name and aliases. An empty category is filled in
// by the service from the name.
func (r *IngredientRequest) Validate() error {
	r.Name = NormalizeName(r.Name)
	n := utf8.RuneCountInString(r.Name)
	if n == 0 || n > 100 {
		return fmt.Errorf("name must be between 1 and 100 characters")
	}

	aliases := make([]string, 0, len(r.Aliases))
	seen := map[string]bool{r.Name: true}
	for _, a := range r.Aliases {
		a = NormalizeName(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		aliases = append(aliases, a)
	}
	r.Aliases = aliases

	r.Category = strings.TrimSpace(r.Category)
	r.DefaultUnit = strings.TrimSpace(r.DefaultUnit)
	return nil
}

// ResolveRequest asks the catalog to map free text to an ingredient.
type ResolveRequest struct {
	Name string `json:"name"`
}

// ResolveResult is the answer of the resolver. Created is true when no
// close enough match existed and a new ingredient was added.
type ResolveResult struct {
	Ingredient Ingredient `json:"ingredient"`
	Confidence float64    `json:"confidence"`
	Created    bool       `json:"created"`
}
