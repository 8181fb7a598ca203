package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foodie-app/foodie/models"
)

// Seed kinds.
const (
	KindRecipes     = "recipes"
	KindIngredients = "ingredients"
)

// nameField is the field that identifies a record of kind when it has no id.
func nameField(kind string) (string, error) {
	switch kind {
	case KindRecipes:
		return "title", nil
	case KindIngredients:
		return "name", nil
	default:
		return "", fmt.Errorf("unknown kind %q, want %s or %s", kind, KindRecipes, KindIngredients)
	}
}

// readSeed decodes a JSON or YAML array of objects, picked by extension.
// Values go through JSON so YAML input ends up with the same shapes.
func readSeed(path string) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		// Round trip so numbers and nested maps match encoding/json.
		b, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s: %w", path, err)
		}
		records = nil
		if err := json.Unmarshal(b, &records); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return records, nil
}

// recordKeys returns the trimmed id and the normalized name of rec; either
// may be empty.
func recordKeys(rec map[string]any, field string) (id, name string) {
	if v, ok := rec["id"].(string); ok {
		id = strings.TrimSpace(v)
	}
	if v, ok := rec[field].(string); ok {
		name = models.NormalizeName(v)
	}
	return id, name
}

// AppendResult reports what appendSeed did.
type AppendResult struct {
	Existing int
	Added    int
	Skipped  int
}

// appendSeed appends the records of seedPath that dataPath does not already
// hold. A record matches when ids are equal, or, when it has no id, when
// normalized names are equal. Existing entries keep their order and
// content. A missing dataPath starts empty.
func appendSeed(kind, dataPath, seedPath string) (*AppendResult, error) {
	field, err := nameField(kind)
	if err != nil {
		return nil, err
	}

	var existing []json.RawMessage
	raw, err := os.ReadFile(dataPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	case len(bytes.TrimSpace(raw)) > 0:
		if err := json.Unmarshal(raw, &existing); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", dataPath, err)
		}
	}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for i, entry := range existing {
		var rec map[string]any
		if err := json.Unmarshal(entry, &rec); err != nil {
			return nil, fmt.Errorf("%s entry %d is not an object: %w", dataPath, i, err)
		}
		id, name := recordKeys(rec, field)
		if id != "" {
			ids[id] = true
		}
		if name != "" {
			names[name] = true
		}
	}

	incoming, err := readSeed(seedPath)
	if err != nil {
		return nil, err
	}

	res := &AppendResult{Existing: len(existing)}
	for i, rec := range incoming {
		id, name := recordKeys(rec, field)
		if id == "" && name == "" {
			return nil, fmt.Errorf("%s record %d has neither id nor %s", seedPath, i, field)
		}
		if (id != "" && ids[id]) || (id == "" && names[name]) {
			res.Skipped++
			continue
		}

		entry, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		existing = append(existing, entry)
		if id != "" {
			ids[id] = true
		}
		if name != "" {
			names[name] = true
		}
		res.Added++
	}

	if res.Added == 0 {
		return res, nil
	}

	out, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')

	// Replace via rename.
	tmp := dataPath + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmp, dataPath); err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	return res, nil
}

// decodeInto converts a generic record into a typed request.
func decodeInto[T any](rec map[string]any) (*T, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
