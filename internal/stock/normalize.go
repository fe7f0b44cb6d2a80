package stock

import "strings"

// unitWords are measurement and counter tokens stripped from item names
// before matching. Matching is on whole tokens only, after digits and
// punctuation have already been turned into separators, so "25kg" reduces
// to the token "kg" and is dropped.
var unitWords = map[string]struct{}{
	"kg":     {},
	"g":      {},
	"gram":   {},
	"grams":  {},
	"bag":    {},
	"bags":   {},
	"pc":     {},
	"pcs":    {},
	"piece":  {},
	"pieces": {},
	"liter":  {},
	"liters": {},
	"litre":  {},
	"litres": {},
	"l":      {},
	"x":      {},
}

// Normalize canonicalises a free-text item description for fuzzy name
// matching: lowercase, digits and punctuation replaced by spaces, unit and
// counter tokens removed, whitespace collapsed. It is pure and total; empty
// input yields the empty string, and the function is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteByte(' ')
		case r == '.' || r == ',' || r == '-' || r == '/' || r == '(' || r == ')':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if _, isUnit := unitWords[f]; !isUnit {
			kept = append(kept, f)
		}
	}

	return strings.Join(kept, " ")
}
