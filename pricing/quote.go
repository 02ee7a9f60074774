package pricing

import "fmt"

// VillaPricing is the read-only pricing snapshot of one villa.
type VillaPricing struct {
	Table         PriceTable
	Discounts     DiscountSet
	BasePrice     Currency
	ServiceCharge Currency
}

// StayRequest asks for the price of a stay. A nil date means the guest has
// not picked it yet.
type StayRequest struct {
	Villa    VillaPricing
	CheckIn  *CalendarDate
	CheckOut *CalendarDate
	// ReferenceDate decides which discounts count as currently active.
	ReferenceDate CalendarDate
}

func (r StayRequest) hasStay() bool {
	return r.CheckIn != nil && r.CheckOut != nil && r.CheckOut.After(*r.CheckIn)
}

// StayQuote is the priced stay.
type StayQuote struct {
	Nights        []Night        `json:"nights"`
	Subtotal      Currency       `json:"subtotal"`
	ServiceCharge Currency       `json:"service_charge"`
	Total         Currency       `json:"total"`
	Fallback      bool           `json:"fallback"`
	MissingPrices []MissingPrice `json:"missing_prices,omitempty"`
	Active        DiscountSet    `json:"active_discounts,omitempty"`
}

// NightCount is checkOut - checkIn, or zero for the flat fallback.
func (q StayQuote) NightCount() int {
	return len(q.Nights)
}

// Aggregator prices whole stays. The zero value uses AllowNegative.
type Aggregator struct {
	Policy NegativePricePolicy
}

func (a Aggregator) resolver(v VillaPricing) NightlyPriceResolver {
	return NightlyPriceResolver{Table: v.Table, Discounts: v.Discounts, Policy: a.Policy}
}

// Quote sums the nightly prices of [checkIn, checkOut) and adds the service
// charge once. Without a valid range it falls back to basePrice + serviceCharge.
func (a Aggregator) Quote(req StayRequest) (StayQuote, error) {
	v := req.Villa

	quote := StayQuote{
		ServiceCharge: v.ServiceCharge,
		Active:        v.Discounts.ActiveOn(req.ReferenceDate),
	}

	if !req.hasStay() {
		quote.Fallback = true
		quote.Subtotal = v.BasePrice
		quote.Total = v.BasePrice + v.ServiceCharge
		return quote, nil
	}

	resolver := a.resolver(v)

	for _, d := range Nights(*req.CheckIn, *req.CheckOut) {
		night, missing, err := resolver.Resolve(d)
		if err != nil {
			return StayQuote{}, fmt.Errorf("price night %s: %w", d, err)
		}

		if missing != nil {
			quote.MissingPrices = append(quote.MissingPrices, *missing)
		}

		quote.Nights = append(quote.Nights, night)
		quote.Subtotal += night.Price
	}

	quote.Total = quote.Subtotal + v.ServiceCharge
	return quote, nil
}

// Breakdown lists the paid nights for display with their pre- and
// post-discount prices. It walks the inclusive range [checkIn, checkOut-1].
func (a Aggregator) Breakdown(req StayRequest) ([]Night, error) {
	if !req.hasStay() {
		return nil, nil
	}

	resolver := a.resolver(req.Villa)
	days := DaysInclusive(*req.CheckIn, req.CheckOut.AddDays(-1))

	nights := make([]Night, 0, len(days))
	for _, d := range days {
		night, _, err := resolver.Resolve(d)
		if err != nil {
			return nil, fmt.Errorf("price night %s: %w", d, err)
		}

		nights = append(nights, night)
	}
	return nights, nil
}
