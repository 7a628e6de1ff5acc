package utils

import "time"

const DayFormat = "2006-01-02"

func Today() string {
	return time.Now().Format(DayFormat)
}

// FormatDayLabel turns "2006-01-02" into the short "01/02" label used by the
// history chart. Unparseable dates are returned as-is rather than erroring.
func FormatDayLabel(date string) string {
	t, err := time.Parse(DayFormat, date)
	if err != nil {
		return date
	}
	return t.Format("01/02")
}

// FormatDayLong turns "2006-01-02" into e.g. "Monday, January 02".
func FormatDayLong(date string) string {
	t, err := time.Parse(DayFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 02")
}
