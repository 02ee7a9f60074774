package pricing

import (
	"fmt"
	"strings"
)

// NegativePricePolicy decides what happens when a discount exceeds a night's base price.
type NegativePricePolicy int

const (
	// AllowNegative lets the negative nightly price reach the total.
	AllowNegative NegativePricePolicy = iota
	// ClampAtZero prices such a night at zero.
	ClampAtZero
	// RejectNegative fails the quote with a NegativeNightlyPriceError.
	RejectNegative
)

var policyNames = map[NegativePricePolicy]string{
	AllowNegative:  "allow",
	ClampAtZero:    "clamp",
	RejectNegative: "reject",
}

func ParsePolicy(s string) (NegativePricePolicy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return AllowNegative, nil
	}

	for policy, n := range policyNames {
		if n == name {
			return policy, nil
		}
	}
	return AllowNegative, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p NegativePricePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("NegativePricePolicy(%d)", int(p))
}

// Night is the resolved price of one night of a stay.
type Night struct {
	Date         CalendarDate `json:"date"`
	Label        WeekdayLabel `json:"label"`
	BasePrice    Currency     `json:"base_price"`
	Reduction    Currency     `json:"reduction"`
	DiscountID   int64        `json:"discount_id,omitempty"`
	DiscountName string       `json:"discount_name,omitempty"`
	Price        Currency     `json:"price"`
	Fallback     bool         `json:"fallback,omitempty"`
	Clamped      bool         `json:"clamped,omitempty"`
}

// NightlyPriceResolver prices single nights from a price table and a discount set.
type NightlyPriceResolver struct {
	Table     PriceTable
	Discounts DiscountSet
	Policy    NegativePricePolicy
}

// Resolve prices the night of d. The returned MissingPrice is non-nil when the
// villa's flat base price stood in for the weekday price.
func (r NightlyPriceResolver) Resolve(d CalendarDate) (Night, *MissingPrice, error) {
	base, missing := r.Table.Lookup(d)

	night := Night{
		Date:      d,
		Label:     LabelFor(d),
		BasePrice: base,
		Price:     base,
		Fallback:  missing != nil,
	}

	if best, ok := r.Discounts.Best(d, base); ok {
		night.Reduction = best.Amount
		night.DiscountID = best.Discount.ID
		night.DiscountName = best.Discount.Name
		night.Price = base - best.Amount
	}

	if night.Price < 0 {
		switch r.Policy {
		case AllowNegative:
		case ClampAtZero:
			night.Price = 0
			night.Clamped = true
		case RejectNegative:
			return Night{}, missing, &NegativeNightlyPriceError{Date: d, BasePrice: base, Reduction: night.Reduction}
		default:
			return Night{}, missing, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(r.Policy))
		}
	}
	return night, missing, nil
}

// PriceFor is the post-discount price of the night of d.
func (r NightlyPriceResolver) PriceFor(d CalendarDate) (Currency, error) {
	night, _, err := r.Resolve(d)
	if err != nil {
		return 0, err
	}
	return night.Price, nil
}
