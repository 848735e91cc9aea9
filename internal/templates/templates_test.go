package templates

import (
	"reflect"
	"testing"
	"time"

	"github.com/slipperyrat/home-management-app-sub004/internal/rrule"
)

func TestCatalogIsWellFormed(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("catalog is empty")
	}

	known := map[string]bool{
		CategoryCleaning: true, CategoryCooking: true, CategoryShopping: true,
		CategoryFinance: true, CategoryFamily: true, CategoryHealth: true,
		CategoryMaintenance: true,
	}
	seen := map[string]bool{}
	anchor := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for _, tmpl := range all {
		if tmpl.ID == "" || tmpl.Name == "" {
			t.Errorf("template %+v missing id or name", tmpl)
		}
		if seen[tmpl.ID] {
			t.Errorf("duplicate template id %q", tmpl.ID)
		}
		seen[tmpl.ID] = true
		if !known[tmpl.Category] {
			t.Errorf("template %q has unknown category %q", tmpl.ID, tmpl.Category)
		}
		if tmpl.DurationMinutes <= 0 {
			t.Errorf("template %q has non-positive duration", tmpl.ID)
		}
		if tmpl.RRule != "" {
			if _, err := rrule.Parse(tmpl.RRule, anchor); err != nil {
				t.Errorf("template %q carries unparseable rule %q: %v", tmpl.ID, tmpl.RRule, err)
			}
			if rrule.Describe(tmpl.RRule) == "Custom recurrence" {
				t.Errorf("template %q rule %q does not describe cleanly", tmpl.ID, tmpl.RRule)
			}
		}
	}
}

func TestByID(t *testing.T) {
	tmpl, ok := ByID("grocery-run")
	if !ok {
		t.Fatal("ByID(grocery-run) not found")
	}
	if tmpl.Category != CategoryShopping {
		t.Errorf("grocery-run category = %q, want shopping", tmpl.Category)
	}
	if tmpl.DurationMinutes != 60 {
		t.Errorf("grocery-run duration = %d, want 60", tmpl.DurationMinutes)
	}

	if _, ok := ByID("does-not-exist"); ok {
		t.Error("ByID(does-not-exist) unexpectedly found")
	}
}

func TestByCategory(t *testing.T) {
	finance := ByCategory(CategoryFinance)

	wantIDs := []string{"pay-rent", "pay-bills", "budget-review"}
	gotIDs := make([]string, len(finance))
	for i, tmpl := range finance {
		gotIDs[i] = tmpl.ID
	}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("ByCategory(finance) = %v, want %v in table order", gotIDs, wantIDs)
	}

	if got := ByCategory("gardening"); len(got) != 0 {
		t.Errorf("ByCategory(gardening) = %v, want empty", got)
	}
}

func TestCategories(t *testing.T) {
	want := []string{
		CategoryCleaning, CategoryCooking, CategoryShopping, CategoryFinance,
		CategoryFamily, CategoryHealth, CategoryMaintenance,
	}
	if got := Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name           string
		at             time.Time
		wantCategories []string
	}{
		{
			name: "weekday morning",
			at:   time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC), // Wednesday
			wantCategories: []string{
				CategoryCleaning, CategoryHealth, CategoryCooking,
			},
		},
		{
			name: "weekday evening",
			at:   time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC),
			wantCategories: []string{
				CategoryCooking, CategoryFamily, CategoryFinance,
			},
		},
		{
			name: "weekday small hours",
			at:   time.Date(2024, 3, 6, 2, 0, 0, 0, time.UTC),
			wantCategories: []string{
				CategoryHealth,
			},
		},
		{
			name: "saturday afternoon unions weekend categories",
			at:   time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC),
			wantCategories: []string{
				CategoryShopping, CategoryFamily, CategoryMaintenance, CategoryCleaning,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.at)
			if len(got) == 0 {
				t.Fatal("Suggest() returned nothing")
			}

			wantSet := map[string]bool{}
			for _, c := range tt.wantCategories {
				wantSet[c] = true
			}
			seen := map[string]bool{}
			for _, tmpl := range got {
				if !wantSet[tmpl.Category] {
					t.Errorf("Suggest() included %q from unexpected category %q", tmpl.ID, tmpl.Category)
				}
				if seen[tmpl.ID] {
					t.Errorf("Suggest() repeated template %q", tmpl.ID)
				}
				seen[tmpl.ID] = true
			}
			for _, c := range tt.wantCategories {
				if len(ByCategory(c)) > 0 {
					found := false
					for _, tmpl := range got {
						if tmpl.Category == c {
							found = true
							break
						}
					}
					if !found {
						t.Errorf("Suggest() missing category %q entirely", c)
					}
				}
			}
		})
	}
}

func TestSuggestFirstSeenOrder(t *testing.T) {
	// Saturday afternoon: shopping leads the band, weekend extras follow.
	got := Suggest(time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC))
	if got[0].Category != CategoryShopping {
		t.Errorf("Suggest() first template category = %q, want shopping to lead", got[0].Category)
	}
}
