package models

import (
	"fmt"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

// Pricing maps a loaded villa, with its day prices and discounts preloaded,
// into the engine's snapshot. Discounts keep their load order.
func (v Villa) Pricing() (pricing.VillaPricing, error) {
	raw := make(map[string]any, len(v.DayPrices))
	for _, dp := range v.DayPrices {
		raw[dp.Day] = dp.Price
	}

	discounts := make(pricing.DiscountSet, 0, len(v.Discounts))
	for _, d := range v.Discounts {
		discount, err := d.Pricing()
		if err != nil {
			return pricing.VillaPricing{}, fmt.Errorf("villa %d: %w", v.ID, err)
		}

		discounts = append(discounts, discount)
	}

	base := pricing.Currency(v.BasePrice)
	return pricing.VillaPricing{
		Table:         pricing.NewPriceTable(raw, base),
		Discounts:     discounts,
		BasePrice:     base,
		ServiceCharge: pricing.Currency(v.ServiceCharge),
	}, nil
}

func (d Discount) Pricing() (pricing.Discount, error) {
	kind, err := pricing.ParseKind(d.Type, d.Value)
	if err != nil {
		return pricing.Discount{}, fmt.Errorf("discount %d: %w", d.ID, err)
	}
	return pricing.Discount{
		ID:       int64(d.ID),
		Name:     d.Name,
		Kind:     kind,
		Start:    pricing.DateOf(d.StartDate),
		End:      pricing.DateOf(d.EndDate),
		IsActive: d.IsActive,
	}, nil
}
