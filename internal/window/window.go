// Package window trims date-ordered series to a trailing display window.
package window

import (
	"fmt"
	"strconv"
	"strings"
)

// Window keeps the last Points entries of a series; zero keeps everything.
type Window struct {
	Points int
}

var (
	All    = Window{}
	Last30 = Window{Points: 30}
	Last90 = Window{Points: 90}
)

func (w Window) String() string {
	if w.Points <= 0 {
		return "all"
	}
	return strconv.Itoa(w.Points) + "d"
}

// Parse accepts "all", "30d", "90", "12w", "6m" and "1y". Weeks, months and years are
// converted to 7, 30 and 365 points.
func Parse(s string) (Window, error) {
	raw := s
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" || s == "max" {
		return All, nil
	}
	mult := 1
	switch s[len(s)-1] {
	case 'd':
		s = s[:len(s)-1]
	case 'w':
		mult, s = 7, s[:len(s)-1]
	case 'm':
		mult, s = 30, s[:len(s)-1]
	case 'y':
		mult, s = 365, s[:len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return All, fmt.Errorf("invalid window %q", raw)
	}
	return Window{Points: n * mult}, nil
}

// Tail returns the trailing slice of series covered by w. The result shares storage with series.
func Tail[T any](series []T, w Window) []T {
	if w.Points <= 0 || len(series) <= w.Points {
		return series
	}
	return series[len(series)-w.Points:]
}
