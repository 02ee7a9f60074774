package models

import "gorm.io/gorm"

type Villa struct {
	gorm.Model
	Name          string          `json:"name"           validate:"required"`
	BasePrice     int64           `json:"base_price"     validate:"gte=0"`
	ServiceCharge int64           `json:"service_charge" validate:"gte=0"`
	MaxGuests     int64           `json:"max_guests"     validate:"gte=0"`
	DayPrices     []VillaDayPrice `json:"day_prices"`
	Discounts     []Discount      `json:"discounts"`
}

// VillaDayPrice is one entry of the price-by-day table. Price keeps the text
// as the admin typed it, e.g. "8.500.000 ₫".
type VillaDayPrice struct {
	gorm.Model
	VillaID uint   `json:"villa_id" gorm:"uniqueIndex:idx_villa_day"`
	Day     string `json:"day"      gorm:"uniqueIndex:idx_villa_day"`
	Price   string `json:"price"`
}
