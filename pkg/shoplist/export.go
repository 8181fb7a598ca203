package shoplist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/foodie-app/foodie/pkg/units"
)

// Export formats.
const (
	FormatTextName     = "text"
	FormatCSVName      = "csv"
	FormatWhatsAppName = "whatsapp"
)

// Labeler translates i18n keys. *i18n.Localizer satisfies it.
type Labeler interface {
	T(key string) string
}

// englishLabels is used when no Labeler is supplied.
type englishLabels struct{}

func (englishLabels) T(key string) string { return key }

func categoryLabel(l Labeler, c Category) string {
	if l == nil {
		l = englishLabels{}
	}
	key := "category." + c.Key
	if label := l.T(key); label != key {
		return label
	}
	return c.Name
}

func label(l Labeler, key, fallback string) string {
	if l == nil {
		return fallback
	}
	if v := l.T(key); v != key {
		return v
	}
	return fallback
}

// quantityText renders "1 ½ cup" or "2" for unitless items. Positive
// amounts below ⅛ are printed as decimals rather than "0".
func quantityText(it Item) string {
	q := units.NiceFraction(it.Quantity)
	if q == "0" && it.Quantity > 0 {
		q = strconv.FormatFloat(it.Quantity, 'f', -1, 64)
	}
	if it.Unit == "" {
		return q
	}
	return q + " " + it.Unit
}

// Format renders items in the named format.
func Format(format, title string, items []Item, l Labeler) (string, error) {
	switch strings.ToLower(format) {
	case FormatTextName, "txt", "":
		return FormatText(title, items, l), nil
	case FormatCSVName:
		return FormatCSV(items, l)
	case FormatWhatsAppName:
		return FormatWhatsApp(title, items, l), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

// FormatText renders a plain-text checklist grouped by category.
func FormatText(title string, items []Item, l Labeler) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	for _, g := range GroupByCategory(items) {
		b.WriteString("\n")
		b.WriteString(categoryLabel(l, g.Category))
		b.WriteString("\n")
		for _, it := range g.Items {
			box := "[ ]"
			if it.Checked {
				box = "[x]"
			}
			fmt.Fprintf(&b, "- %s %s %s", box, quantityText(it), it.Name)
			if len(it.UsedIn) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(it.UsedIn, ", "))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatCSV renders one row per item with a header row. Quantities are
// written as plain decimals so spreadsheets can sum them.
func FormatCSV(items []Item, l Labeler) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		label(l, "export.category", "Category"),
		label(l, "export.item", "Item"),
		label(l, "export.quantity", "Quantity"),
		label(l, "export.unit", "Unit"),
		label(l, "export.used_in", "Used In"),
		label(l, "export.checked", "Checked"),
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, g := range GroupByCategory(items) {
		cat := categoryLabel(l, g.Category)
		for _, it := range g.Items {
			row := []string{
				cat,
				it.Name,
				strconv.FormatFloat(it.Quantity, 'f', -1, 64),
				it.Unit,
				strings.Join(it.UsedIn, "; "),
				strconv.FormatBool(it.Checked),
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.String(), nil
}

// FormatWhatsApp renders a message using WhatsApp markup: *bold* headers,
// bullet lines and ~strikethrough~ for checked items.
func FormatWhatsApp(title string, items []Item, l Labeler) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *%s*\n", title)

	for _, g := range GroupByCategory(items) {
		fmt.Fprintf(&b, "\n%s *%s*\n", g.Category.Emoji, categoryLabel(l, g.Category))
		for _, it := range g.Items {
			if it.Checked {
				fmt.Fprintf(&b, "✅ ~%s~\n", it.Name)
				continue
			}
			fmt.Fprintf(&b, "• %s %s\n", quantityText(it), it.Name)
		}
	}

	fmt.Fprintf(&b, "\n%s: %d", label(l, "export.total_items", "Total items"), len(items))
	return b.String()
}
