package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Currency is an amount in the smallest currency unit.
type Currency int64

var (
	plainDigits   = regexp.MustCompile(`^\d+$`)
	groupedDigits = regexp.MustCompile(`^\d{1,3}(?:([.,\s])\d{3})(?:[.,\s]\d{3})*$`)
	currencyMarks = []string{"VNĐ", "VND", "vnđ", "vnd", "₫", "đ", "Đ"}
)

// ParseCurrency normalises a raw price as it may arrive from the villa editor:
// a number, or text with thousands separators and an optional currency mark.
func ParseCurrency(v any) (Currency, error) {
	switch p := v.(type) {
	case Currency:
		return nonNegative(int64(p), v)
	case int:
		return nonNegative(int64(p), v)
	case int32:
		return nonNegative(int64(p), v)
	case int64:
		return nonNegative(p, v)
	case uint:
		return fromUint(uint64(p), v)
	case uint32:
		return fromUint(uint64(p), v)
	case uint64:
		return fromUint(p, v)
	case float32:
		return fromFloat(float64(p), v)
	case float64:
		return fromFloat(p, v)
	case json.Number:
		return parseCurrencyText(p.String())
	case string:
		return parseCurrencyText(p)
	default:
		return 0, fmt.Errorf("%w: unsupported value %v (%T)", ErrMalformedPrice, v, v)
	}
}

func parseCurrencyText(s string) (Currency, error) {
	text := strings.TrimSpace(s)
	for _, mark := range currencyMarks {
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, mark), mark))
	}

	switch {
	case plainDigits.MatchString(text):
	case groupedDigits.MatchString(text):
		sep := groupedDigits.FindStringSubmatch(text)[1]
		if strings.Count(text, sep) != countSeparators(text) {
			return 0, fmt.Errorf("%w: mixed separators in %q", ErrMalformedPrice, s)
		}

		text = strings.ReplaceAll(text, sep, "")
	default:
		return 0, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrMalformedPrice, s, err)
	}
	return Currency(n), nil
}

func countSeparators(s string) int {
	return strings.Count(s, ".") + strings.Count(s, ",") + strings.Count(s, " ")
}

func nonNegative(n int64, raw any) (Currency, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative value %v", ErrMalformedPrice, raw)
	}
	return Currency(n), nil
}

func fromUint(n uint64, raw any) (Currency, error) {
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %v overflows", ErrMalformedPrice, raw)
	}
	return Currency(n), nil
}

func fromFloat(f float64, raw any) (Currency, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %v is not a whole amount", ErrMalformedPrice, raw)
	}
	return nonNegative(int64(f), raw)
}

// String renders the amount with Vietnamese digit grouping, e.g. "8.500.000 ₫".
func (c Currency) String() string {
	n := int64(c)

	var sign string
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}

		b.WriteRune(r)
	}
	return sign + b.String() + " ₫"
}
