// Package units normalizes recipe quantities into a small set of base units
// so that the same ingredient measured in different units can be summed.
//
// The table only folds units within one dimension (volume spoons, volume
// cups, weight pounds, weight kilograms). Count units such as "clove" or
// "pinch" are left alone.
package units

import (
	"math"
	"strings"
)

// Conversion maps a unit onto its base unit.
type Conversion struct {
	Factor float64
	Base   string
}

// Base units.
const (
	Tbsp = "tbsp"
	Cup  = "cup"
	Lb   = "lb"
	Kg   = "kg"
)

var conversions = map[string]Conversion{
	"tsp":   {Factor: 1.0 / 3.0, Base: Tbsp},
	"tbsp":  {Factor: 1, Base: Tbsp},
	"ml":    {Factor: 1 / 236.588, Base: Cup},
	"l":     {Factor: 1000 / 236.588, Base: Cup},
	"cup":   {Factor: 1, Base: Cup},
	"pint":  {Factor: 2, Base: Cup},
	"quart": {Factor: 4, Base: Cup},
	"oz":    {Factor: 1.0 / 16.0, Base: Lb},
	"lb":    {Factor: 1, Base: Lb},
	"g":     {Factor: 1.0 / 1000.0, Base: Kg},
	"kg":    {Factor: 1, Base: Kg},
}

var aliases = map[string]string{
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tsps":        "tsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tbsps":       "tbsp",
	"tbs":         "tbsp",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"cups":        "cup",
	"pints":       "pint",
	"quarts":      "quart",
	"ounce":       "oz",
	"ounces":      "oz",
	"lbs":         "lb",
	"pound":       "lb",
	"pounds":      "lb",
	"gram":        "g",
	"grams":       "g",
	"kilogram":    "kg",
	"kilograms":   "kg",
}

// Canonical lowercases and trims a unit and resolves known aliases.
// Unknown units come back lowercased and trimmed.
func Canonical(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, ".")
	if c, ok := aliases[u]; ok {
		return c
	}
	return u
}

// Lookup returns the conversion for unit, if it is in the table.
func Lookup(unit string) (Conversion, bool) {
	c, ok := conversions[Canonical(unit)]
	return c, ok
}

// Normalize converts quantity into the base unit of its dimension.
// Units outside the table pass through with only their name canonicalized.
func Normalize(quantity float64, unit string) (float64, string) {
	u := Canonical(unit)
	c, ok := conversions[u]
	if !ok {
		return quantity, u
	}
	return quantity * c.Factor, c.Base
}

// IsBase reports whether unit is one of the base units.
func IsBase(unit string) bool {
	switch Canonical(unit) {
	case Tbsp, Cup, Lb, Kg:
		return true
	}
	return false
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
