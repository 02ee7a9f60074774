package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/dzoniops/villa-pricing-service/config"
	"github.com/dzoniops/villa-pricing-service/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrOverlap is returned when an accepted booking already holds the dates.
	ErrOverlap = errors.New("dates overlap an accepted booking")
)

func Connect(cfg config.Postgres) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Villa{},
		&models.VillaDayPrice{},
		&models.Discount{},
		&models.Booking{},
	)
}

// Store is the villa and booking repository.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Villa loads a villa with its price-by-day rows and its discounts in id order.
func (s *Store) Villa(ctx context.Context, id uint) (models.Villa, error) {
	var villa models.Villa
	err := s.db.WithContext(ctx).
		Preload("DayPrices").
		Preload("Discounts", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&villa, id).Error
	if err != nil {
		return models.Villa{}, notFound(err)
	}
	return villa, nil
}

// CreateVilla inserts the villa together with its day prices and discounts.
func (s *Store) CreateVilla(ctx context.Context, villa *models.Villa) error {
	return s.db.WithContext(ctx).Create(villa).Error
}

func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return s.db.WithContext(ctx).Create(booking).Error
}

func (s *Store) Booking(ctx context.Context, id uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return models.Booking{}, notFound(err)
	}
	return booking, nil
}

// OverlappingBookings returns the bookings of a villa in the given status whose
// stay shares at least one night with [checkIn, checkOut).
func (s *Store) OverlappingBookings(
	ctx context.Context,
	villaID uint,
	checkIn, checkOut time.Time,
	status models.BookingStatus,
) ([]models.Booking, error) {
	var bookings []models.Booking
	err := overlapping(s.db.WithContext(ctx), villaID, checkIn, checkOut, status).
		Order("id").
		Find(&bookings).Error
	return bookings, err
}

// AcceptBooking moves a pending booking to ACCEPTED and declines the pending
// bookings of the same villa that overlap it, all in one transaction. The
// villa row is locked so two accepts of one villa run one after the other.
// It returns the declined bookings.
func (s *Store) AcceptBooking(ctx context.Context, booking models.Booking) ([]models.Booking, error) {
	var declined []models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var villa models.Villa
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&villa, booking.VillaID).Error; err != nil {
			return notFound(err)
		}

		var taken int64
		err := overlapping(tx.Model(&models.Booking{}), booking.VillaID, booking.CheckIn, booking.CheckOut, models.ACCEPTED).
			Count(&taken).Error
		if err != nil {
			return err
		}
		if taken != 0 {
			return ErrOverlap
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.PENDING).
			Update("status", models.ACCEPTED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		err = overlapping(tx, booking.VillaID, booking.CheckIn, booking.CheckOut, models.PENDING).
			Order("id").
			Find(&declined).Error
		if err != nil || len(declined) == 0 {
			return err
		}

		ids := make([]uint, len(declined))
		for i := range declined {
			ids[i] = declined[i].ID
			declined[i].Status = models.DECLINED
		}
		return tx.Model(&models.Booking{}).Where("id IN ?", ids).Update("status", models.DECLINED).Error
	})
	if err != nil {
		return nil, err
	}
	return declined, nil
}

// overlapping narrows tx to bookings in status that share a night with
// [checkIn, checkOut).
func overlapping(tx *gorm.DB, villaID uint, checkIn, checkOut time.Time, status models.BookingStatus) *gorm.DB {
	return tx.Where("villa_id = ? AND check_in < ? AND check_out > ? AND status = ?", villaID, checkOut, checkIn, status)
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
