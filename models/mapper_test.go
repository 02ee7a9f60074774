package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

func TestVillaPricing(t *testing.T) {
	villa := Villa{
		Model:         gorm.Model{ID: 3},
		Name:          "Villa Sơn Trà",
		BasePrice:     8500000,
		ServiceCharge: 500000,
		DayPrices: []VillaDayPrice{
			{Day: "Thứ 2", Price: "8.500.000 ₫"},
			{Day: "Thứ 7", Price: "10.500.000 ₫"},
		},
		Discounts: []Discount{{
			Model:     gorm.Model{ID: 9},
			Name:      "Summer",
			Type:      "percentage",
			Value:     15,
			StartDate: time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2023, time.August, 31, 0, 0, 0, 0, time.UTC),
			IsActive:  true,
		}},
	}

	vp, err := villa.Pricing()
	require.NoError(t, err)

	assert.Equal(t, pricing.Currency(8500000), vp.BasePrice)
	assert.Equal(t, pricing.Currency(500000), vp.ServiceCharge)
	assert.Equal(t, pricing.Currency(10500000), vp.Table.BasePriceFor(pricing.NewDate(2023, time.July, 8)))

	require.Len(t, vp.Discounts, 1)
	assert.Equal(t, int64(9), vp.Discounts[0].ID)
	assert.Equal(t, pricing.Percentage(15), vp.Discounts[0].Kind)
	assert.Equal(t, pricing.NewDate(2023, time.August, 31), vp.Discounts[0].End)
}

func TestVillaPricingRejectsBadDiscount(t *testing.T) {
	villa := Villa{Discounts: []Discount{{Type: "percentage", Value: 120}}}

	_, err := villa.Pricing()
	assert.True(t, errors.Is(err, pricing.ErrInvalidDiscount))

	villa.Discounts[0].Type = "voucher"
	_, err = villa.Pricing()
	assert.True(t, errors.Is(err, pricing.ErrUnknownDiscount))
}
