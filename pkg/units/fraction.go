package units

import (
	"fmt"
	"math"
)

type fraction struct {
	value float64
	glyph string
}

// fractions are the display steps; 0 and 1 bracket the table so rounding can
// fall back to the whole number.
var fractions = []fraction{
	{0, ""},
	{1.0 / 8.0, "⅛"},
	{1.0 / 4.0, "¼"},
	{1.0 / 3.0, "⅓"},
	{1.0 / 2.0, "½"},
	{2.0 / 3.0, "⅔"},
	{3.0 / 4.0, "¾"},
	{1, ""},
}

// NiceFraction formats q as a whole number plus the nearest common kitchen
// fraction, e.g. 1.5 -> "1 ½", 0.33 -> "⅓", 2.97 -> "3".
func NiceFraction(q float64) string {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return "0"
	}
	sign := ""
	if q < 0 {
		sign = "-"
		q = -q
	}

	whole := math.Floor(q)
	rest := q - whole

	best := fractions[0]
	bestDist := math.Abs(rest - best.value)
	for _, f := range fractions[1:] {
		if d := math.Abs(rest - f.value); d < bestDist {
			best, bestDist = f, d
		}
	}
	if best.value == 1 {
		whole++
	}

	switch {
	case best.glyph == "" && whole == 0:
		return "0"
	case best.glyph == "":
		return fmt.Sprintf("%s%d", sign, int64(whole))
	case whole == 0:
		return sign + best.glyph
	default:
		return fmt.Sprintf("%s%d %s", sign, int64(whole), best.glyph)
	}
}
