package facet

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// unitPattern matches numeric tokens with a magnitude suffix such as "7B",
// "13b", "1.5T" or "500M".
var unitPattern = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)\s*([KkMmBbTt])$`)

var unitScale = map[byte]float64{
	'k': 1e3,
	'm': 1e6,
	'b': 1e9,
	't': 1e12,
}

// magnitude returns the numeric value of s when it is a plain number or a
// number with a K/M/B/T suffix.
func magnitude(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	m := unitPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f * unitScale[strings.ToLower(m[2])[0]], true
}

// CompareValues orders dimension values for display.
//
// Numbers and numeric-with-unit tokens compare by magnitude, so "7B" sorts
// before "13B" and "1T". Numeric values sort before non-numeric ones, and
// non-numeric values compare lexicographically. Ties in magnitude ("1000M"
// vs "1B") fall back to lexicographic order so the result is total.
func CompareValues(a, b string) int {
	fa, na := magnitude(a)
	fb, nb := magnitude(b)
	switch {
	case na && nb:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case na:
		return -1
	case nb:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// SortValues returns a sorted copy of values using CompareValues.
func SortValues(values []string) []string {
	out := slices.Clone(values)
	slices.SortStableFunc(out, CompareValues)
	return out
}
