package models

import (
	"time"

	"gorm.io/gorm"
)

type Discount struct {
	gorm.Model
	VillaID   uint      `json:"villa_id"   gorm:"index"`
	Name      string    `json:"name"`
	Type      string    `json:"type"                          validate:"oneof=percentage fixed"`
	Value     int64     `json:"value"                         validate:"gte=0"`
	StartDate time.Time `json:"start_date" gorm:"type:date"   validate:"required"`
	EndDate   time.Time `json:"end_date"   gorm:"type:date"   validate:"gtefield=StartDate"`
	IsActive  bool      `json:"is_active"`
}
