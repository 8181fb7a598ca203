// Package i18n translates server-rendered text: shopping list category
// labels, export headers and email subjects.
//
// The language is picked in this order:
//  1. the user's saved language preference
//  2. the Accept-Language header
//  3. DefaultLanguage
//
// Usage:
//
//	l := i18n.NewLocalizer("es")
//	l.T("category.produce") // "Frutas y verduras"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// SupportedLanguages lists locale files that must exist.
var SupportedLanguages = []string{"en", "es"}

// DefaultLanguage is used when nothing else matches.
const DefaultLanguage = "en"

var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error

	matcher = language.NewMatcher([]language.Tag{language.English, language.Spanish})
)

// Load reads one JSON file per supported language from localesFS. Nested
// objects become dotted keys. Only the first call does any work.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			zap.L().Named("i18n").Info("loaded translations", zap.String("lang", lang), zap.Int("keys", len(flat)))
		}

		translations = loaded
	})

	return loadErr
}

// Localizer translates keys for one language.
type Localizer struct {
	lang string
}

// NewLocalizer falls back to DefaultLanguage for unsupported languages.
func NewLocalizer(lang string) *Localizer {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !IsSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang is the resolved language code.
func (l *Localizer) Lang() string { return l.lang }

// T returns the translation for key, the English text when the language
// lacks it, or key itself.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams replaces {{name}} placeholders.
//
//	l.TWithParams("email.shopping_list_subject", map[string]string{"title": "Week 12"})
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage picks the best supported language for an Accept-Language
// header such as "es-MX,es;q=0.9,en;q=0.8".
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

// IsSupported reports whether lang has a locale file.
func IsSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// flattenMap turns {"a": {"b": "x"}} into {"a.b": "x"}.
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
