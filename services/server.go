package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dzoniops/villa-pricing-service/models"
	"github.com/dzoniops/villa-pricing-service/pricing"
)

// Store is what the storefront needs from persistence. db.Store implements it.
type Store interface {
	Villa(ctx context.Context, id uint) (models.Villa, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	Booking(ctx context.Context, id uint) (models.Booking, error)
	OverlappingBookings(
		ctx context.Context,
		villaID uint,
		checkIn, checkOut time.Time,
		status models.BookingStatus,
	) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uint, status models.BookingStatus) error
	// AcceptBooking accepts a pending booking and declines the overlapping
	// pending ones atomically, returning those it declined.
	AcceptBooking(ctx context.Context, booking models.Booking) ([]models.Booking, error)
}

// DefaultMaxNights is the longest stay priced when NewServer gets no limit.
const DefaultMaxNights = 365

type Server struct {
	store   Store
	logger  log.Logger
	metrics *Metrics
	tracer  trace.Tracer
	policy    pricing.NegativePricePolicy
	maxNights int
	now       func() time.Time
}

func NewServer(
	store Store,
	logger log.Logger,
	metrics *Metrics,
	policy pricing.NegativePricePolicy,
	maxNights int,
) *Server {
	if maxNights < 1 {
		maxNights = DefaultMaxNights
	}
	return &Server{
		store:     store,
		logger:    log.With(logger, "component", "storefront"),
		metrics:   metrics,
		tracer:    otel.Tracer("github.com/dzoniops/villa-pricing-service/services"),
		policy:    policy,
		maxNights: maxNights,
		now:       time.Now,
	}
}

func (s *Server) today() pricing.CalendarDate {
	return pricing.DateOf(s.now())
}

// checkStayLength adds a check_out error to ie when the stay is longer than
// the server prices. Reversed ranges are left to the caller.
func (s *Server) checkStayLength(ie *InputError, checkIn, checkOut pricing.CalendarDate) {
	if pricing.NightsBetween(checkIn, checkOut) > s.maxNights {
		ie.addError("check_out", fmt.Sprintf("must be at most %d nights after check_in", s.maxNights))
	}
}
