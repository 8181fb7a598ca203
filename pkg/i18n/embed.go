package i18n

import (
	"embed"
	"io/fs"
)

// EmbeddedLocales holds locales/<lang>.json.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS

// Locales returns the embedded locales directory as a filesystem rooted at
// the JSON files.
func Locales() (fs.FS, error) {
	return fs.Sub(EmbeddedLocales, "locales")
}
