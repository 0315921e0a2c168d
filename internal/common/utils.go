package common

import "time"

// DateLayout is the ISO 8601 calendar date layout used on the wire and on disk.
const DateLayout = "2006-01-02"

// YearRange returns every year from start through end, inclusive.
// An empty slice is returned when end < start.
func YearRange(start, end int) []int {
	if end < start {
		return []int{}
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// Yesterday returns the calendar day before now, in now's location.
func Yesterday(now time.Time) time.Time {
	d := now.AddDate(0, 0, -1)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
