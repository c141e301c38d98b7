package report

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday. The current week runs through Sunday Jan 19, the following
// week through Sunday Jan 26.
var wednesday = time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

func TestRelativeDueDate(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		expected string
	}{
		{
			name:     "Past due date",
			due:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			expected: "Overdue",
		},
		{
			name:     "Yesterday",
			due:      time.Date(2025, 1, 14, 23, 0, 0, 0, time.UTC),
			expected: "Overdue",
		},
		{
			name:     "Today",
			due:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			expected: "Due today",
		},
		{
			name:     "Tomorrow",
			due:      time.Date(2025, 1, 16, 9, 0, 0, 0, time.UTC),
			expected: "Due tomorrow",
		},
		{
			name:     "Later this week",
			due:      time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
			expected: "Due Friday",
		},
		{
			name:     "Week boundary Sunday is this week",
			due:      time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC),
			expected: "Due Sunday",
		},
		{
			name:     "Monday after the boundary is next week",
			due:      time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			expected: "Due next Monday",
		},
		{
			name:     "Next week boundary Sunday",
			due:      time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC),
			expected: "Due next Sunday",
		},
		{
			name:     "Beyond next week falls back to absolute date",
			due:      time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC),
			expected: "Due 01/27",
		},
		{
			name:     "Far future",
			due:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			expected: "Due 03/02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relativeDueDate(tt.due, wednesday))
		})
	}
}

func TestRelativeDueDateFromSunday(t *testing.T) {
	// Sunday=0: from a Sunday the current week runs a full seven days.
	sunday := time.Date(2025, 1, 19, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, "Due today", relativeDueDate(sunday, sunday))
	assert.Equal(t, "Due Saturday",
		relativeDueDate(time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), sunday))
	assert.Equal(t, "Due Sunday",
		relativeDueDate(time.Date(2025, 1, 26, 0, 0, 0, 0, time.UTC), sunday))
	assert.Equal(t, "Due next Monday",
		relativeDueDate(time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC), sunday))
}

func TestFormatRelativeDueDateNil(t *testing.T) {
	assert.Equal(t, "", FormatRelativeDueDate(nil))
}

// dueDateCategory ranks labels by distance so monotonicity can be checked.
func dueDateCategory(t *testing.T, label string) int {
	t.Helper()

	absoluteRe := regexp.MustCompile(`^Due \d{2}/\d{2}$`)
	switch {
	case label == "Overdue":
		return 0
	case label == "Due today":
		return 1
	case label == "Due tomorrow":
		return 2
	case absoluteRe.MatchString(label):
		return 5
	case strings.HasPrefix(label, "Due next "):
		return 4
	case strings.HasPrefix(label, "Due "):
		return 3
	}

	t.Fatalf("unrecognized label %q", label)
	return -1
}

func TestRelativeDueDateMonotonic(t *testing.T) {
	// Walking the due date forward one day at a time must never move the
	// label to an earlier category, from any starting weekday.
	for weekday := 0; weekday < 7; weekday++ {
		now := wednesday.AddDate(0, 0, weekday)
		prev := -1
		for offset := -10; offset <= 30; offset++ {
			due := now.AddDate(0, 0, offset)
			label := relativeDueDate(due, now)
			category := dueDateCategory(t, label)
			require.GreaterOrEqual(t, category, prev,
				"label %q for offset %d regressed (now weekday %v)", label, offset, now.Weekday())
			prev = category
		}
	}
}

func TestRelativeDueDateIdempotent(t *testing.T) {
	due := time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)
	first := relativeDueDate(due, wednesday)
	second := relativeDueDate(due, wednesday)
	assert.Equal(t, first, second)
}
