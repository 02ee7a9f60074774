package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPrice  = errors.New("malformed price")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrUnknownPolicy   = errors.New("unknown negative price policy")
	ErrUnknownDiscount = errors.New("unknown discount type")
)

// InvalidDateError is returned when a date string cannot be read as a calendar date.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

func IsInvalidDateError(err error) *InvalidDateError {
	var dateErr *InvalidDateError
	if errors.As(err, &dateErr) {
		return dateErr
	}
	return nil
}

// NegativeNightlyPriceError is returned under RejectNegative when a discount exceeds the night's base price.
type NegativeNightlyPriceError struct {
	Date      CalendarDate
	BasePrice Currency
	Reduction Currency
}

func (e *NegativeNightlyPriceError) Error() string {
	return fmt.Sprintf(
		"nightly price for %s is negative: base %d, reduction %d",
		e.Date, int64(e.BasePrice), int64(e.Reduction),
	)
}

// MissingPrice records a night priced with the villa's flat base price because
// its weekday entry was absent or unreadable.
type MissingPrice struct {
	Date   CalendarDate `json:"date"`
	Label  WeekdayLabel `json:"label"`
	Reason string       `json:"reason"`
}
