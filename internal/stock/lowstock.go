package stock

import "tably/internal/model"

// IsLow reports whether an ingredient is at or below its reorder threshold.
// The boundary is inclusive: quantity equal to the threshold is low.
func IsLow(ing model.Ingredient) bool {
	return ing.Quantity <= ing.MinThreshold
}
