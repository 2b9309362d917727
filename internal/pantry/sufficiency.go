// Package pantry classifies recipe ingredients against a user's pantry.
package pantry

import (
	"strings"

	"github.com/dukerupert/larder/internal/model"
	"github.com/dukerupert/larder/internal/units"
)

// Status is the sufficiency classification of one recipe ingredient
// measured against the matching pantry item, if any.
type Status string

const (
	// StatusMissing: no pantry item matches the ingredient's name+form.
	StatusMissing Status = "missing"
	// StatusInsufficientSameUnit: units match textually and the pantry
	// holds less than the recipe needs.
	StatusInsufficientSameUnit Status = "insufficient"
	// StatusUnconvertible: units differ and at least one of them is not
	// in the conversion table, so the quantities cannot be compared.
	StatusUnconvertible Status = "unconvertible"
	// StatusInsufficientConverted: units differ, both are convertible,
	// and after conversion the pantry holds less than the recipe needs.
	StatusInsufficientConverted Status = "insufficient_converted"
	// StatusSufficient: the pantry covers the recipe quantity.
	StatusSufficient Status = "sufficient"
)

// Severity maps a status to a display severity level.
func (s Status) Severity() string {
	switch s {
	case StatusMissing:
		return "error"
	case StatusInsufficientSameUnit, StatusInsufficientConverted:
		return "warning"
	case StatusUnconvertible:
		return "info"
	default:
		return "success"
	}
}

// Classify determines the sufficiency status of a recipe ingredient given
// the matching pantry item, or nil when the pantry has no match. Branches
// are ordered: the presence check must come first, the same-unit
// comparison avoids conversion error when possible, and unconvertible
// units must be caught before any table lookup.
func Classify(recipe model.Ingredient, pantryItem *model.InventoryItem) Status {
	if pantryItem == nil {
		return StatusMissing
	}

	if recipe.Unit == pantryItem.Unit {
		if recipe.Quantity > pantryItem.Quantity {
			return StatusInsufficientSameUnit
		}
		return StatusSufficient
	}

	recipeFactor, ok := units.Factor(recipe.Unit)
	if !ok {
		return StatusUnconvertible
	}
	pantryFactor, ok := units.Factor(pantryItem.Unit)
	if !ok {
		return StatusUnconvertible
	}

	if recipe.Quantity*recipeFactor > pantryItem.Quantity*pantryFactor {
		return StatusInsufficientConverted
	}
	return StatusSufficient
}

// AnnotatedIngredient is a recipe ingredient with its sufficiency status
// against the pantry.
type AnnotatedIngredient struct {
	model.Ingredient
	Status   Status `json:"status"`
	Severity string `json:"severity"`
}

// Annotate classifies each recipe ingredient against the pantry items.
// Matching is by name+form, case-insensitive and trimmed.
func Annotate(ingredients []model.Ingredient, pantryItems []model.InventoryItem) []AnnotatedIngredient {
	byKey := make(map[string]*model.InventoryItem, len(pantryItems))
	for i := range pantryItems {
		byKey[matchKey(pantryItems[i].Name, pantryItems[i].Form)] = &pantryItems[i]
	}

	annotated := make([]AnnotatedIngredient, 0, len(ingredients))
	for _, ing := range ingredients {
		status := Classify(ing, byKey[matchKey(ing.Name, ing.Form)])
		annotated = append(annotated, AnnotatedIngredient{
			Ingredient: ing,
			Status:     status,
			Severity:   status.Severity(),
		})
	}
	return annotated
}

func matchKey(name, form string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(form))
}
