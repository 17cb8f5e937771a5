// Package calendar provides civil (zone-free) dates in YYYY-MM-DD form.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the on-disk date format.
const Layout = "2006-01-02"

// Date is a calendar day with no time of day and no zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return FromTime(t), nil
}

// FromTime takes the calendar fields of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today is the local calendar date of now.
func Today(now time.Time) Date {
	return FromTime(now.Local())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// noon anchors arithmetic away from midnight so no zone rule can move the day.
func (d Date) noon() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week, Sunday = 0.
func (d Date) Weekday() int {
	return int(d.noon().Weekday())
}

// AddDays moves by n calendar days by adjusting the day-of-month field.
func (d Date) AddDays(n int) Date {
	return FromTime(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Next is the following calendar day.
func (d Date) Next() Date {
	return d.AddDays(1)
}

// Before reports whether d is strictly earlier than u.
func (d Date) Before(u Date) bool {
	return d.Compare(u) < 0
}

// After reports whether d is strictly later than u.
func (d Date) After(u Date) bool {
	return d.Compare(u) > 0
}

// Compare returns -1, 0 or 1.
func (d Date) Compare(u Date) int {
	switch {
	case d.Year != u.Year:
		return cmp(d.Year, u.Year)
	case d.Month != u.Month:
		return cmp(int(d.Month), int(u.Month))
	default:
		return cmp(d.Day, u.Day)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Range returns every date from start to end inclusive. It is empty when end is before start.
func Range(start, end Date) []Date {
	var dates []Date
	for d := start; !d.After(end); d = d.Next() {
		dates = append(dates, d)
	}
	return dates
}

// ParseRange parses both bounds and checks their order. A missing bound takes the value of
// the other one.
func ParseRange(startStr, endStr string) (Date, Date, error) {
	if startStr != "" && endStr == "" {
		endStr = startStr
	}
	if endStr != "" && startStr == "" {
		startStr = endStr
	}
	if startStr == "" {
		return Date{}, Date{}, fmt.Errorf("no date range given")
	}

	start, err := Parse(startStr)
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := Parse(endStr)
	if err != nil {
		return Date{}, Date{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return Date{}, Date{}, fmt.Errorf("end date cannot be before start date")
	}
	return start, end, nil
}
