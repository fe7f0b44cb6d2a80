package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain lowercase name unchanged",
			input:    "flour",
			expected: "flour",
		},
		{
			name:     "Uppercase is lowered",
			input:    "Flour",
			expected: "flour",
		},
		{
			name:     "Unit suffix with punctuation stripped",
			input:    "Flour - 25kg bag",
			expected: "flour",
		},
		{
			name:     "Spaced unit tokens stripped",
			input:    "flour 25 kg bag",
			expected: "flour",
		},
		{
			name:     "Counter words stripped",
			input:    "Eggs 30 pcs",
			expected: "eggs",
		},
		{
			name:     "Multiplication token stripped",
			input:    "Milk 12 x 1 liter",
			expected: "milk",
		},
		{
			name:     "Slashes and parentheses stripped",
			input:    "Sugar (white) 50/50",
			expected: "sugar white",
		},
		{
			name:     "Whitespace runs collapse",
			input:    "  olive   oil  ",
			expected: "olive oil",
		},
		{
			name:     "Non-unit word containing a unit word survives",
			input:    "garlic",
			expected: "garlic",
		},
		{
			name:     "Unit words embedded in digits drop",
			input:    "Rice 5kg sack",
			expected: "rice sack",
		},
		{
			name:     "Empty input yields empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "Only units and digits yields empty string",
			input:    "25kg x 2 bags",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Flour - 25kg bag",
		"Bag of flour 25kg",
		"Sugar (white) 50/50",
		"",
		"tomato paste",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "normalizing %q twice changed the result", input)
	}
}

func TestNormalize_EquivalentSpellings(t *testing.T) {
	// Differently written purchases of the same item must canonicalise to
	// the same string.
	variants := []string{
		"Flour - 25kg bag",
		"flour 25 kg bag",
		"FLOUR 25KG BAG",
		"flour, 25kg (bag)",
	}

	for _, v := range variants {
		assert.Equal(t, "flour", Normalize(v))
	}
}
