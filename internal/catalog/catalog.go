// Package catalog serves the built-in guide of chemotherapy side effects and
// the collection of patient stories.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

var (
	//go:embed symptoms.json
	symptomsJSON []byte

	//go:embed experiences.json
	experiencesJSON []byte
)

// Symptom is one side-effect guide entry.
type Symptom struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Letter          string   `json:"letter"`
	Color           string   `json:"color"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	VideoTitle      string   `json:"videoTitle"`
}

// Experience is one patient story.
type Experience struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Date       string `json:"date"`
	Preview    string `json:"preview"`
	ImageColor string `json:"imageColor"`
	Story      string `json:"story"`
}

// Guide is an immutable, ordered set of entries addressed by id.
type Guide[T any] struct {
	items []T
	byID  map[string]int
}

// Catalog is the side-effect guide.
type Catalog = Guide[Symptom]

// Experiences is the collection of patient stories.
type Experiences = Guide[Experience]

// Load parses the embedded symptom catalog.
func Load() (*Catalog, error) {
	return parse(symptomsJSON, "symptom", func(s Symptom) string { return s.ID })
}

// LoadExperiences parses the embedded patient stories.
func LoadExperiences() (*Experiences, error) {
	return parse(experiencesJSON, "experience", func(e Experience) string { return e.ID })
}

func parse[T any](data []byte, kind string, id func(T) string) (*Guide[T], error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s catalog: %w", kind, err)
	}
	g := &Guide[T]{items: items, byID: make(map[string]int, len(items))}
	for i, it := range items {
		k := id(it)
		if _, dup := g.byID[k]; dup {
			return nil, fmt.Errorf("duplicate %s id %q", kind, k)
		}
		g.byID[k] = i
	}
	return g, nil
}

// All returns every entry in display order.
func (g *Guide[T]) All() []T {
	out := make([]T, len(g.items))
	copy(out, g.items)
	return out
}

// ByID looks up an entry.
func (g *Guide[T]) ByID(id string) (T, bool) {
	i, ok := g.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return g.items[i], true
}
