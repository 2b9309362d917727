// Package units holds the fixed conversion table used to compare
// ingredient quantities across units. Mass units are expressed in
// milligrams, volume units in milliliters. Units absent from the table
// cannot be compared cross-unit.
package units

var factors = map[string]float64{
	// mass
	"milligram": 1,
	"gram":      1_000,
	"kilogram":  1_000_000,
	"ounce":     28_349.5,
	"pound":     453_592,
	// volume
	"milliliter": 1,
	"liter":      1_000,
	"teaspoon":   4.92892,
	"tablespoon": 14.7868,
	"cup":        236.588,
	"pint":       473.176,
	"quart":      946.353,
	"gallon":     3_785.41,
	"pinch":      355.625,
}

// Factor returns the base-quantity multiplier for a unit name, and whether
// the unit is convertible at all.
func Factor(unit string) (float64, bool) {
	f, ok := factors[unit]
	return f, ok
}

// Convertible reports whether the unit appears in the conversion table.
func Convertible(unit string) bool {
	_, ok := factors[unit]
	return ok
}
