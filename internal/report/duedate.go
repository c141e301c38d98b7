package report

import (
	"fmt"
	"time"
)

// FormatRelativeDueDate converts a due date into a human-relative label for
// display, evaluated at date granularity against today. A nil due date
// yields an empty string.
func FormatRelativeDueDate(due *time.Time) string {
	if due == nil {
		return ""
	}
	return relativeDueDate(*due, time.Now())
}

// relativeDueDate is the pure core of FormatRelativeDueDate. Week boundaries
// follow a Sunday=0 convention: the current week ends at the next Sunday
// (inclusive), the following week seven days after that.
func relativeDueDate(due, now time.Time) string {
	today := truncateToDay(now)
	dueDay := truncateToDay(due)

	diffDays := int(dueDay.Sub(today).Hours() / 24)

	switch {
	case diffDays < 0:
		return "Overdue"
	case diffDays == 0:
		return "Due today"
	case diffDays == 1:
		return "Due tomorrow"
	}

	weekday := dueDay.Weekday().String()

	endOfWeek := today.AddDate(0, 0, 7-int(today.Weekday()))
	if !dueDay.After(endOfWeek) {
		return fmt.Sprintf("Due %s", weekday)
	}

	endOfNextWeek := endOfWeek.AddDate(0, 0, 7)
	if !dueDay.After(endOfNextWeek) {
		return fmt.Sprintf("Due next %s", weekday)
	}

	return fmt.Sprintf("Due %s", dueDay.Format("01/02"))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
