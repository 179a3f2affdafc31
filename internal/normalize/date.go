package normalize

import (
	"strings"
	"time"
)

// DayFormat is the calendar-day format every output date uses.
const DayFormat = "2006-01-02"

var dayLayouts = []string{
	DayFormat,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	// month-first forms, including the spreadsheet default "mm-dd-yy"
	"1/2/2006",
	"1/2/06",
	"01-02-06",
}

// Date parses a cell into a YYYY-MM-DD calendar day. Time-of-day and zone are dropped.
func Date(v any) (string, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return "", false
		}
		return d.Format(DayFormat), true
	case string:
		return parseDay(d)
	default:
		return "", false
	}
}

func parseDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DayFormat), true
		}
	}
	// "2024-01-02T00:00:00.000Z" and other timestamp tails
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		if t, err := time.Parse(DayFormat, s[:10]); err == nil {
			return t.Format(DayFormat), true
		}
	}
	return "", false
}
