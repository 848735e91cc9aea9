// Package templates holds the static catalog of household event archetypes
// used to pre-fill new events. The catalog is parsed once at process start
// from an embedded document and is read-only afterwards, so unsynchronized
// concurrent lookups are safe.
package templates

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var catalogYAML []byte

// Categories templates can belong to.
const (
	CategoryCleaning    = "cleaning"
	CategoryCooking     = "cooking"
	CategoryShopping    = "shopping"
	CategoryFinance     = "finance"
	CategoryFamily      = "family"
	CategoryHealth      = "health"
	CategoryMaintenance = "maintenance"
)

type Template struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Category        string `yaml:"category" json:"category"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes"`
	RRule           string `yaml:"rrule" json:"rrule"`
	Location        string `yaml:"location" json:"location"`
	ReminderMinutes []int  `yaml:"reminder_minutes" json:"reminder_minutes"`
	Color           string `yaml:"color" json:"color"`
	IsAllDay        bool   `yaml:"is_all_day" json:"is_all_day"`
}

func (t Template) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

var catalog []Template

func init() {
	var doc struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		panic(fmt.Sprintf("templates: bad embedded catalog: %v", err))
	}
	catalog = doc.Templates
}

// All returns the full catalog in table order.
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// ByCategory returns the templates in one category, in table order.
func ByCategory(category string) []Template {
	var out []Template
	for _, t := range catalog {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// ByID looks up a single template.
func ByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Categories returns the distinct categories present in the catalog, in
// first-appearance order.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range catalog {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// Suggest proposes templates for the given instant using fixed hour bands
// and weekend-ness. The instant's clock is read as given; callers localize
// first when they want zone-local suggestions. Results are de-duplicated by
// template ID in first-seen order.
func Suggest(at time.Time) []Template {
	var categories []string
	switch hour := at.Hour(); {
	case hour >= 5 && hour < 12:
		categories = []string{CategoryCleaning, CategoryHealth, CategoryCooking}
	case hour >= 12 && hour < 17:
		categories = []string{CategoryShopping, CategoryFamily, CategoryMaintenance}
	case hour >= 17 && hour < 23:
		categories = []string{CategoryCooking, CategoryFamily, CategoryFinance}
	default:
		categories = []string{CategoryHealth}
	}

	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		categories = append(categories, CategoryCleaning, CategoryMaintenance, CategoryShopping)
	}

	seen := make(map[string]bool)
	var out []Template
	for _, category := range categories {
		for _, t := range ByCategory(category) {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}
