package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate_Formats(t *testing.T) {
	for _, in := range []any{
		"2024-01-02",
		"2024-1-2",
		"2024/01/02",
		"2024-01-02T15:04:05Z",
		"2024-01-02T00:00:00.000Z",
		"2024-01-02 09:30:00",
		"02 Jan 2024",
		"2 Jan 2024",
		"January 2, 2024",
		"1/2/2024",
		"01-02-24",
		time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC),
	} {
		got, ok := Date(in)
		assert.True(t, ok, "input %v", in)
		assert.Equal(t, "2024-01-02", got, "input %v", in)
	}
}

func TestDate_Rejects(t *testing.T) {
	for _, in := range []any{nil, "", "Total", "Average", "2024-13-45", 20240102, time.Time{}} {
		_, ok := Date(in)
		assert.False(t, ok, "input %v", in)
	}
}
