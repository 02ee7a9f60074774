package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	gorm.Model
	Code           string        `json:"code"             gorm:"uniqueIndex"`
	VillaID        uint          `json:"villa_id"         gorm:"index"           validate:"required"`
	UserId         int64         `json:"user_id"                                 validate:"required"`
	NumberOfGuests int64         `json:"number_of_guests"                        validate:"gte=1"`
	CheckIn        time.Time     `json:"check_in"         gorm:"type:date"       validate:"required"`
	CheckOut       time.Time     `json:"check_out"        gorm:"type:date"       validate:"gtfield=CheckIn"`
	Total          int64         `json:"total"`
	Status         BookingStatus `json:"status"`
}

type BookingStatus int32

const (
	UNSPECIFIED BookingStatus = 0
	PENDING     BookingStatus = 1
	ACCEPTED    BookingStatus = 2
	DECLINED    BookingStatus = 3
	CANCELLED   BookingStatus = 4
)

func (s BookingStatus) String() string {
	switch s {
	case PENDING:
		return "pending"
	case ACCEPTED:
		return "accepted"
	case DECLINED:
		return "declined"
	case CANCELLED:
		return "cancelled"
	default:
		return "unspecified"
	}
}
