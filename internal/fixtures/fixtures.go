// Package fixtures reads the reference data shipped in data/: ingredients
// as JSON and tags as YAML.
package fixtures

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/validation"
)

type tagFile struct {
	Tags []models.Tag `yaml:"tags"`
}

// DecodeIngredients reads a JSON array of {"name", "measurement_unit"}
// objects. Repeated (name, unit) pairs are kept once.
func DecodeIngredients(r io.Reader) ([]models.Ingredient, error) {
	var raw []models.Ingredient
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	seen := make(map[[2]string]bool, len(raw))
	out := make([]models.Ingredient, 0, len(raw))
	for i, ing := range raw {
		ing.ID = 0
		ing.Name = strings.TrimSpace(ing.Name)
		ing.MeasurementUnit = strings.TrimSpace(ing.MeasurementUnit)
		if err := validation.ValidateStruct(ing); err != nil {
			return nil, fmt.Errorf("ingredient %d: %w", i, err)
		}
		key := [2]string{strings.ToLower(ing.Name), ing.MeasurementUnit}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ing)
	}
	return out, nil
}

// DecodeTags reads a YAML document with a top level "tags" list.
func DecodeTags(r io.Reader) ([]models.Tag, error) {
	var file tagFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	for i := range file.Tags {
		tag := &file.Tags[i]
		tag.ID = 0
		tag.Color = strings.ToUpper(tag.Color)
		if err := validation.ValidateStruct(tag); err != nil {
			return nil, fmt.Errorf("tag %d (%s): %w", i, tag.Slug, err)
		}
	}
	return file.Tags, nil
}

func ReadIngredientsFile(path string) ([]models.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeIngredients(f)
}

func ReadTagsFile(path string) ([]models.Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeTags(f)
}
