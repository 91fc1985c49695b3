package importer

import (
	"strconv"
	"strings"
	"time"
)

// excel serial day 0 is 1899-12-30 (the 1900 leap-year bug is baked into the
// epoch offset).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"02/01/2006", // DD/MM/YYYY first: Brazilian exports
	"2006/01/02",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeDate turns a spreadsheet date cell into YYYY-MM-DD. Cells arrive
// either as an excel serial number or as free text; unparseable input yields
// an empty string rather than an error.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	// excel serial date
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 200000 {
		return excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour))).Format("2006-01-02")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// last resort: a leading YYYY-MM-DD or DD/MM/YYYY fragment of a longer
	// timestamp string
	if len(s) >= 10 {
		head := s[:10]
		for _, layout := range []string{"2006-01-02", "02/01/2006"} {
			if t, err := time.Parse(layout, head); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	return ""
}
