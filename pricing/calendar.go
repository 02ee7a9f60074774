package pricing

import (
	"fmt"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// CalendarDate is a day on the calendar with no time of day and no zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) CalendarDate {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf takes the year, month and day of t as seen in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CalendarDate{}, &InvalidDateError{Value: s, Err: err}
	}
	return DateOf(t), nil
}

// ParseOptionalDate treats the empty string as an absent date.
func ParseOptionalDate(s string) (*CalendarDate, error) {
	if s == "" {
		return nil, nil
	}

	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d CalendarDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *CalendarDate) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Nights returns the paid nights of a stay: [checkIn, checkOut).
// The result is empty when checkOut is not after checkIn.
func Nights(checkIn, checkOut CalendarDate) []CalendarDate {
	if !checkOut.After(checkIn) {
		return nil
	}

	var nights []CalendarDate
	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		nights = append(nights, d)
	}
	return nights
}

// NightsBetween counts the nights from checkIn to checkOut without listing
// them. It is negative when checkOut comes first.
func NightsBetween(checkIn, checkOut CalendarDate) int {
	return int((checkOut.Time().Unix() - checkIn.Time().Unix()) / secondsPerDay)
}

// DaysInclusive returns every day of [start, end]. Callers listing paid nights
// must pass end = checkOut - 1 day.
func DaysInclusive(start, end CalendarDate) []CalendarDate {
	var days []CalendarDate
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
