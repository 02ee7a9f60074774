package pricing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	KindPercentage = "percentage"
	KindFixed      = "fixed"
)

// Kind is how a discount reduces a night's base price. The only
// implementations are Percentage and Fixed.
type Kind interface {
	// Reduction is the amount taken off base.
	Reduction(base Currency) Currency
	String() string
	sealed()
}

// Percentage takes p percent off the base price, 0 <= p <= 100.
type Percentage uint8

// Fixed takes a flat amount off the base price.
type Fixed Currency

func NewPercentage(p int64) (Percentage, error) {
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: percentage %d outside 0..100", ErrInvalidDiscount, p)
	}
	return Percentage(p), nil
}

func NewFixed(amount Currency) (Fixed, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative fixed amount %d", ErrInvalidDiscount, int64(amount))
	}
	return Fixed(amount), nil
}

// ParseKind builds a Kind from the stored type name and value.
func ParseKind(kind string, value int64) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindPercentage:
		return NewPercentage(value)
	case KindFixed:
		return NewFixed(Currency(value))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiscount, kind)
	}
}

// Reduction rounds half away from zero to a whole currency unit.
func (p Percentage) Reduction(base Currency) Currency {
	amount := decimal.NewFromInt(int64(base)).
		Mul(decimal.NewFromInt(int64(p))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return Currency(amount.IntPart())
}

func (p Percentage) String() string { return fmt.Sprintf("%d%%", uint8(p)) }

func (Percentage) sealed() {}

func (f Fixed) Reduction(Currency) Currency { return Currency(f) }

func (f Fixed) String() string { return Currency(f).String() }

func (Fixed) sealed() {}

// describeKind returns the stored type name and value of k.
func describeKind(k Kind) (string, int64) {
	switch k := k.(type) {
	case Percentage:
		return KindPercentage, int64(k)
	case Fixed:
		return KindFixed, int64(k)
	default:
		return "", 0
	}
}

// Discount is a time-bounded price reduction owned by a villa.
type Discount struct {
	ID       int64
	Name     string
	Kind     Kind
	Start    CalendarDate
	End      CalendarDate
	IsActive bool
}

// AppliesOn reports whether the discount is active and d lies in [Start, End].
func (d Discount) AppliesOn(date CalendarDate) bool {
	return d.IsActive && !date.Before(d.Start) && !date.After(d.End)
}

type discountJSON struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Value    int64        `json:"value"`
	Start    CalendarDate `json:"start_date"`
	End      CalendarDate `json:"end_date"`
	IsActive bool         `json:"is_active"`
}

func (d Discount) MarshalJSON() ([]byte, error) {
	kind, value := describeKind(d.Kind)
	return json.Marshal(discountJSON{
		ID:       d.ID,
		Name:     d.Name,
		Type:     kind,
		Value:    value,
		Start:    d.Start,
		End:      d.End,
		IsActive: d.IsActive,
	})
}

func (d *Discount) UnmarshalJSON(data []byte) error {
	var raw discountJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	kind, err := ParseKind(raw.Type, raw.Value)
	if err != nil {
		return err
	}

	*d = Discount{
		ID:       raw.ID,
		Name:     raw.Name,
		Kind:     kind,
		Start:    raw.Start,
		End:      raw.End,
		IsActive: raw.IsActive,
	}
	return nil
}

func (d Discount) Reduction(base Currency) Currency {
	if d.Kind == nil {
		return 0
	}
	return d.Kind.Reduction(base)
}

// AppliedDiscount is the discount chosen for one night and what it took off.
type AppliedDiscount struct {
	Discount Discount
	Amount   Currency
}

// DiscountSet holds a villa's discounts. Applicable discounts never stack:
// only the largest reduction is used.
type DiscountSet []Discount

// Best returns the applicable discount with the largest reduction on base.
// On equal reductions the earlier discount in the set wins.
func (s DiscountSet) Best(date CalendarDate, base Currency) (AppliedDiscount, bool) {
	var (
		best  AppliedDiscount
		found bool
	)

	for _, d := range s {
		if !d.AppliesOn(date) {
			continue
		}

		amount := d.Reduction(base)
		if !found || amount > best.Amount {
			best = AppliedDiscount{Discount: d, Amount: amount}
			found = true
		}
	}
	return best, found
}

func (s DiscountSet) BestDiscountAmount(date CalendarDate, base Currency) Currency {
	best, ok := s.Best(date, base)
	if !ok {
		return 0
	}
	return best.Amount
}

// ActiveOn returns the discounts applicable on reference, in set order.
func (s DiscountSet) ActiveOn(reference CalendarDate) DiscountSet {
	var active DiscountSet
	for _, d := range s {
		if d.AppliesOn(reference) {
			active = append(active, d)
		}
	}
	return active
}
