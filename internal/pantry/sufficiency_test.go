package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/larder/internal/model"
)

func ing(name, form string, qty float64, unit string) model.Ingredient {
	return model.Ingredient{Name: name, Form: form, Quantity: qty, Unit: unit}
}

func item(name, form string, qty float64, unit string) *model.InventoryItem {
	return &model.InventoryItem{Name: name, Form: form, Quantity: qty, Unit: unit}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		recipe model.Ingredient
		pantry *model.InventoryItem
		want   Status
	}{
		{
			name:   "no pantry match",
			recipe: ing("flour", "all-purpose", 2, "cup"),
			pantry: nil,
			want:   StatusMissing,
		},
		{
			name:   "no pantry match regardless of quantity",
			recipe: ing("flour", "all-purpose", 0.001, "cup"),
			pantry: nil,
			want:   StatusMissing,
		},
		{
			name:   "same unit not enough",
			recipe: ing("sugar", "granulated", 3, "cup"),
			pantry: item("sugar", "granulated", 2, "cup"),
			want:   StatusInsufficientSameUnit,
		},
		{
			name:   "same unit exactly enough",
			recipe: ing("sugar", "granulated", 2, "cup"),
			pantry: item("sugar", "granulated", 2, "cup"),
			want:   StatusSufficient,
		},
		{
			name:   "same unit plenty",
			recipe: ing("sugar", "granulated", 1, "cup"),
			pantry: item("sugar", "granulated", 2, "cup"),
			want:   StatusSufficient,
		},
		{
			name:   "recipe unit not in table",
			recipe: ing("saffron", "threads", 1, "smidgen"),
			pantry: item("saffron", "threads", 100, "gram"),
			want:   StatusUnconvertible,
		},
		{
			name:   "pantry unit not in table",
			recipe: ing("saffron", "threads", 1, "gram"),
			pantry: item("saffron", "threads", 2, "jar"),
			want:   StatusUnconvertible,
		},
		{
			name:   "converted not enough",
			recipe: ing("milk", "whole", 2, "liter"),
			pantry: item("milk", "whole", 1500, "milliliter"),
			want:   StatusInsufficientConverted,
		},
		{
			name:   "converted enough",
			recipe: ing("milk", "whole", 1, "liter"),
			pantry: item("milk", "whole", 1500, "milliliter"),
			want:   StatusSufficient,
		},
		{
			name:   "converted across gram and kilogram",
			recipe: ing("flour", "bread", 750, "gram"),
			pantry: item("flour", "bread", 1, "kilogram"),
			want:   StatusSufficient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.recipe, tt.pantry))
		})
	}
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "error", StatusMissing.Severity())
	assert.Equal(t, "warning", StatusInsufficientSameUnit.Severity())
	assert.Equal(t, "warning", StatusInsufficientConverted.Severity())
	assert.Equal(t, "info", StatusUnconvertible.Severity())
	assert.Equal(t, "success", StatusSufficient.Severity())
}

func TestAnnotateMatchesCaseInsensitive(t *testing.T) {
	ingredients := []model.Ingredient{
		ing("Flour", "All-Purpose", 2, "cup"),
		ing("eggs", "large", 3, "count"),
	}
	pantryItems := []model.InventoryItem{
		{Name: " flour ", Form: "all-purpose", Quantity: 5, Unit: "cup"},
	}

	annotated := Annotate(ingredients, pantryItems)
	require.Len(t, annotated, 2)

	assert.Equal(t, StatusSufficient, annotated[0].Status)
	assert.Equal(t, "success", annotated[0].Severity)
	assert.Equal(t, StatusMissing, annotated[1].Status)
	assert.Equal(t, "error", annotated[1].Severity)
}

func TestAnnotateFormDistinguishesItems(t *testing.T) {
	ingredients := []model.Ingredient{ing("tomato", "diced", 400, "gram")}

	annotated := Annotate(ingredients, []model.InventoryItem{
		{Name: "tomato", Form: "whole", Quantity: 1, Unit: "kilogram"},
	})
	require.Len(t, annotated, 1)
	assert.Equal(t, StatusMissing, annotated[0].Status)
}

func TestAnnotateEmptyPantry(t *testing.T) {
	annotated := Annotate([]model.Ingredient{ing("salt", "", 1, "pinch")}, nil)
	require.Len(t, annotated, 1)
	assert.Equal(t, StatusMissing, annotated[0].Status)
}
