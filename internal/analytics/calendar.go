package analytics

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the number of whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Calendar is the month context a dashboard is computed against.
type Calendar struct {
	Today          time.Time
	MonthStart     time.Time
	PrevMonthStart time.Time
	PrevMonthEnd   time.Time
}

// NewCalendar builds the calendar context for the day containing now.
func NewCalendar(now time.Time) Calendar {
	today := Day(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	prevYear, prevMonth := today.Year(), today.Month()-1
	if today.Month() == time.January {
		prevYear, prevMonth = today.Year()-1, time.December
	}

	return Calendar{
		Today:          today,
		MonthStart:     monthStart,
		PrevMonthStart: time.Date(prevYear, prevMonth, 1, 0, 0, 0, 0, time.UTC),
		PrevMonthEnd:   monthStart.AddDate(0, 0, -1),
	}
}

// DayOfMonth is the number of days elapsed in the current month, today included.
func (c Calendar) DayOfMonth() int {
	return c.Today.Day()
}

// MonthLabel renders the current month as e.g. "March 2025".
func (c Calendar) MonthLabel() string {
	return c.Today.Format("January 2006")
}
