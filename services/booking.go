package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/models"
	"github.com/dzoniops/villa-pricing-service/pricing"
	"github.com/dzoniops/villa-pricing-service/utils"
)

type CheckoutRequest struct {
	VillaID  uint   `json:"villa_id"  validate:"required"`
	UserID   int64  `json:"user_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,calendar-date"`
	CheckOut string `json:"check_out" validate:"required,calendar-date"`
	Guests   int64  `json:"guests"    validate:"gte=1"`
	// Total is the amount shown to the guest. It is checked, never trusted.
	Total int64 `json:"total"`
}

type BookingResponse struct {
	ID       uint                 `json:"id"`
	Code     string               `json:"code"`
	VillaID  uint                 `json:"villa_id"`
	CheckIn  pricing.CalendarDate `json:"check_in"`
	CheckOut pricing.CalendarDate `json:"check_out"`
	Guests   int64                `json:"guests"`
	Total    pricing.Currency     `json:"total"`
	Status   string               `json:"status"`
}

func bookingResponse(b models.Booking) BookingResponse {
	return BookingResponse{
		ID:       b.ID,
		Code:     b.Code,
		VillaID:  b.VillaID,
		CheckIn:  pricing.DateOf(b.CheckIn),
		CheckOut: pricing.DateOf(b.CheckOut),
		Guests:   b.NumberOfGuests,
		Total:    pricing.Currency(b.Total),
		Status:   b.Status.String(),
	}
}

// Checkout recomputes the stay total, refuses a total that differs from the
// submitted one and stores a pending booking.
func (s *Server) Checkout(ctx context.Context, req CheckoutRequest) (BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "Checkout", trace.WithAttributes(
		attribute.Int64("villa.id", int64(req.VillaID)),
		attribute.String("stay.check_in", req.CheckIn),
		attribute.String("stay.check_out", req.CheckOut),
	))
	defer span.End()

	resp, err := s.checkout(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BookingResponse{}, err
	}

	level.Info(s.logger).Log("msg", "booking created", "booking", resp.ID, "code", resp.Code, "villa", resp.VillaID, "total", int64(resp.Total))
	return resp, nil
}

func (s *Server) checkout(ctx context.Context, req CheckoutRequest) (BookingResponse, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return BookingResponse{}, validationError(err)
	}

	checkIn, err := pricing.ParseDate(req.CheckIn)
	if err != nil {
		return BookingResponse{}, dateError("check_in", err)
	}
	checkOut, err := pricing.ParseDate(req.CheckOut)
	if err != nil {
		return BookingResponse{}, dateError("check_out", err)
	}

	ie := newInputError()
	if !checkOut.After(checkIn) {
		ie.addError("check_out", "must be after check_in")
	} else {
		s.checkStayLength(ie, checkIn, checkOut)
	}
	if checkIn.Before(s.today()) {
		ie.addError("check_in", "must not be in the past")
	}
	if ie.fieldsCount() != 0 {
		return BookingResponse{}, ie
	}

	st, err := s.priceStay(ctx, req.VillaID, pricing.StayRequest{
		CheckIn:       &checkIn,
		CheckOut:      &checkOut,
		ReferenceDate: s.today(),
	})
	if err != nil {
		return BookingResponse{}, err
	}

	if submitted := pricing.Currency(req.Total); submitted != st.quote.Total {
		s.metrics.TotalMismatches.Inc()
		level.Warn(s.logger).Log(
			"msg", "checkout total mismatch",
			"villa", req.VillaID,
			"submitted", int64(submitted),
			"expected", int64(st.quote.Total),
		)
		return BookingResponse{}, &TotalMismatchError{Submitted: submitted, Expected: st.quote.Total}
	}

	taken, err := s.store.OverlappingBookings(ctx, st.villa.ID, checkIn.Time(), checkOut.Time(), models.ACCEPTED)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("check overlapping bookings: %w", err)
	}
	if len(taken) != 0 {
		return BookingResponse{}, ErrDatesTaken
	}

	booking := models.Booking{
		Code:           uuid.NewString(),
		VillaID:        st.villa.ID,
		UserId:         req.UserID,
		NumberOfGuests: req.Guests,
		CheckIn:        checkIn.Time(),
		CheckOut:       checkOut.Time(),
		Total:          int64(st.quote.Total),
		Status:         models.PENDING,
	}
	if err := utils.Validate.Struct(booking); err != nil {
		return BookingResponse{}, validationError(err)
	}
	if err := s.store.CreateBooking(ctx, &booking); err != nil {
		return BookingResponse{}, fmt.Errorf("create booking: %w", err)
	}
	return bookingResponse(booking), nil
}

// AcceptBooking accepts a pending booking and declines the pending bookings
// of the same villa that overlap it.
func (s *Server) AcceptBooking(ctx context.Context, id uint) (BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AcceptBooking", trace.WithAttributes(attribute.Int64("booking.id", int64(id))))
	defer span.End()

	booking, err := s.booking(ctx, id)
	if err != nil {
		return BookingResponse{}, err
	}
	if booking.Status != models.PENDING {
		return BookingResponse{}, ErrBookingNotFound
	}

	declined, err := s.store.AcceptBooking(ctx, booking)
	switch {
	case errors.Is(err, db.ErrOverlap):
		return BookingResponse{}, ErrDatesTaken
	case errors.Is(err, db.ErrNotFound):
		return BookingResponse{}, ErrBookingNotFound
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BookingResponse{}, fmt.Errorf("accept booking %d: %w", id, err)
	}

	level.Info(s.logger).Log("msg", "booking status changed", "booking", booking.ID, "from", booking.Status, "to", models.ACCEPTED)
	for _, d := range declined {
		level.Info(s.logger).Log("msg", "booking status changed", "booking", d.ID, "from", models.PENDING, "to", models.DECLINED)
	}
	booking.Status = models.ACCEPTED
	return bookingResponse(booking), nil
}

func (s *Server) DeclineBooking(ctx context.Context, id uint) (BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "DeclineBooking", trace.WithAttributes(attribute.Int64("booking.id", int64(id))))
	defer span.End()

	booking, err := s.booking(ctx, id)
	if err != nil {
		return BookingResponse{}, err
	}
	if err := s.setStatus(ctx, &booking, models.DECLINED); err != nil {
		return BookingResponse{}, err
	}
	return bookingResponse(booking), nil
}

// CancelBooking cancels a booking on behalf of the guest. Cancelling is not
// possible once check-in is less than a day away.
func (s *Server) CancelBooking(ctx context.Context, id uint) (BookingResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CancelBooking", trace.WithAttributes(attribute.Int64("booking.id", int64(id))))
	defer span.End()

	booking, err := s.booking(ctx, id)
	if err != nil {
		return BookingResponse{}, err
	}
	if booking.Status == models.CANCELLED || booking.Status == models.DECLINED {
		return BookingResponse{}, ErrBookingNotFound
	}

	dayBefore := booking.CheckIn.Add(-24 * time.Hour)
	if s.now().After(dayBefore) {
		return BookingResponse{}, ErrCancellationWindow
	}

	if err := s.setStatus(ctx, &booking, models.CANCELLED); err != nil {
		return BookingResponse{}, err
	}
	return bookingResponse(booking), nil
}

func (s *Server) booking(ctx context.Context, id uint) (models.Booking, error) {
	booking, err := s.store.Booking(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return models.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("load booking %d: %w", id, err)
	}
	return booking, nil
}

func (s *Server) setStatus(ctx context.Context, booking *models.Booking, status models.BookingStatus) error {
	if err := s.store.UpdateBookingStatus(ctx, booking.ID, status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("update booking %d: %w", booking.ID, err)
	}

	level.Info(s.logger).Log("msg", "booking status changed", "booking", booking.ID, "from", booking.Status, "to", status)
	booking.Status = status
	return nil
}
