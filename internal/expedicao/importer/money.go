package importer

import (
	"strconv"
	"strings"
)

// CleanMoney normalizes a marketplace money cell into a float. Both Brazilian
// ("1.000,00") and US ("1,000.00") conventions appear in exports, detected by
// the relative position of '.' and ','. Anything non-numeric yields 0.
func CleanMoney(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// strip currency symbols and embedded whitespace
	s = strings.NewReplacer("R$", "", "$", "", "\u00a0", "", " ", "", "\t", "").Replace(s)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			// Brazilian: '.' thousands, ',' decimal
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US: ',' thousands, '.' decimal
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		// single ',' separator: decimal when followed by 1-2 digits,
		// thousands otherwise
		if len(s)-comma-1 <= 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case dot >= 0:
		// single '.' separator: exactly 3 trailing digits reads as a
		// thousands group ("1.000"), otherwise as a decimal point
		if len(s)-dot-1 == 3 && strings.Count(s, ".") >= 1 && dot > 0 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		return -v
	}
	return v
}
