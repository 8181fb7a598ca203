package shoplist

import (
	"strings"
	"unicode"
)

// Category is a shopping aisle. Key is stable and doubles as the i18n key
// suffix ("category.<key>"); Name is the English label.
type Category struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji"`
	Keywords []string `json:"-"`
}

// Other is the fallback category.
var Other = Category{Key: "other", Name: "Other", Emoji: "🛍️"}

// Categories is in display order, which also breaks ties in Categorize.
var Categories = []Category{
	{
		Key: "produce", Name: "Produce", Emoji: "🥬",
		Keywords: []string{"onion", "garlic", "tomato", "potato", "carrot", "lettuce", "spinach", "apple", "banana", "lemon", "lime", "pepper", "bell pepper", "cucumber", "celery", "broccoli", "mushroom", "avocado", "zucchini", "eggplant", "squash", "berry", "strawberry", "blueberry", "herb", "basil", "cilantro", "parsley", "ginger", "cabbage", "kale", "orange", "corn", "bean sprout", "green bean", "melon", "pea", "shallot"},
	},
	{
		Key: "meat_poultry", Name: "Meat & Poultry", Emoji: "🥩",
		Keywords: []string{"chicken", "beef", "pork", "lamb", "turkey", "bacon", "sausage", "ham", "steak", "mince", "ground beef", "veal", "duck", "chorizo", "prosciutto"},
	},
	{
		Key: "seafood", Name: "Seafood", Emoji: "🐟",
		Keywords: []string{"salmon", "tuna", "shrimp", "prawn", "cod", "fish", "crab", "lobster", "scallop", "mussel", "clam", "anchovy", "anchovies", "sardine", "tilapia"},
	},
	{
		Key: "dairy_eggs", Name: "Dairy & Eggs", Emoji: "🧀",
		Keywords: []string{"milk", "cheese", "butter", "cream", "yogurt", "yoghurt", "egg", "parmesan", "mozzarella", "cheddar", "feta", "ricotta"},
	},
	{
		Key: "bakery", Name: "Bakery", Emoji: "🍞",
		Keywords: []string{"bread", "bun", "roll", "bagel", "tortilla", "pita", "croissant", "baguette", "naan"},
	},
	{
		Key: "pantry", Name: "Pantry Staples", Emoji: "🥫",
		Keywords: []string{"flour", "sugar", "rice", "pasta", "oil", "vinegar", "honey", "oat", "bean", "lentil", "stock", "broth", "chicken stock", "chicken broth", "sauce", "fish sauce", "soy sauce", "noodle", "baking powder", "baking soda", "yeast", "cocoa", "chocolate", "nut", "peanut butter", "coconut milk", "syrup", "canned", "cereal", "chickpea", "quinoa", "cracker", "cornstarch"},
	},
	{
		Key: "spices", Name: "Spices & Seasonings", Emoji: "🧂",
		Keywords: []string{"salt", "black pepper", "peppercorn", "cumin", "paprika", "oregano", "cinnamon", "nutmeg", "turmeric", "chili powder", "garlic powder", "onion powder", "thyme", "rosemary", "bay leaf", "curry", "vanilla", "seasoning", "spice"},
	},
	{
		Key: "frozen", Name: "Frozen", Emoji: "🧊",
		Keywords: []string{"frozen", "ice cream", "popsicle"},
	},
	{
		Key: "beverages", Name: "Beverages", Emoji: "🥤",
		Keywords: []string{"juice", "coffee", "tea", "soda", "wine", "beer", "water"},
	},
}

// words splits s into lowercase letter runs.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// wordMatches reports whether word is kw or one of its plural forms.
func wordMatches(word, kw string) bool {
	switch word {
	case kw, kw + "s", kw + "es":
		return true
	}
	if stem, ok := strings.CutSuffix(kw, "y"); ok {
		return word == stem+"ies"
	}
	return false
}

// phraseIn reports whether the words of kw occur consecutively in name.
func phraseIn(name, kw []string) bool {
	for i := 0; i+len(kw) <= len(name); i++ {
		ok := true
		for j, w := range kw {
			if !wordMatches(name[i+j], w) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Categorize matches whole keywords (plurals included) against name. The
// keyword with the most words wins, so "black pepper" beats "pepper"; ties
// go to the category listed first. No match yields Other.
func Categorize(name string) Category {
	n := words(name)
	best, bestLen := Other, 0
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			k := words(kw)
			if len(k) > bestLen && phraseIn(n, k) {
				best, bestLen = c, len(k)
			}
		}
	}
	return best
}

// CategoryByKey finds a category by key, falling back to Other.
func CategoryByKey(key string) Category {
	for _, c := range Categories {
		if c.Key == key {
			return c
		}
	}
	return Other
}

// categoryRank orders categories for display; Other sorts last.
func categoryRank(key string) int {
	for i, c := range Categories {
		if c.Key == key {
			return i
		}
	}
	return len(Categories)
}
