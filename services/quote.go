package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/models"
	"github.com/dzoniops/villa-pricing-service/pricing"
	"github.com/dzoniops/villa-pricing-service/utils"
)

type QuoteRequest struct {
	VillaID  uint   `json:"villa_id"  validate:"required"`
	CheckIn  string `json:"check_in"  validate:"omitempty,calendar-date"`
	CheckOut string `json:"check_out" validate:"omitempty,calendar-date"`
	Guests   int64  `json:"guests"    validate:"gte=0"`
	// ReferenceDate decides which discounts are shown as running now.
	// Empty means today.
	ReferenceDate string `json:"reference_date" validate:"omitempty,calendar-date"`
}

type QuoteResponse struct {
	VillaID         uint                  `json:"villa_id"`
	VillaName       string                `json:"villa_name"`
	CheckIn         *pricing.CalendarDate `json:"check_in,omitempty"`
	CheckOut        *pricing.CalendarDate `json:"check_out,omitempty"`
	Quote           pricing.StayQuote     `json:"quote"`
	Breakdown       []pricing.Night       `json:"breakdown"`
	MaxGuests       int64                 `json:"max_guests"`
	ExceedsCapacity bool                  `json:"exceeds_capacity"`
}

// stay is a priced stay of a loaded villa.
type stay struct {
	villa     models.Villa
	quote     pricing.StayQuote
	breakdown []pricing.Night
}

// Quote prices the stay shown on the booking form. Missing or reversed dates
// give the villa's flat price; guests only drive the capacity flag.
func (s *Server) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	ctx, span := s.tracer.Start(ctx, "Quote", trace.WithAttributes(
		attribute.Int64("villa.id", int64(req.VillaID)),
		attribute.String("stay.check_in", req.CheckIn),
		attribute.String("stay.check_out", req.CheckOut),
	))
	defer span.End()

	resp, err := s.quote(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.quoteOutcome(outcome(err))
		return QuoteResponse{}, err
	}

	if resp.Quote.Fallback {
		s.metrics.quoteOutcome("fallback")
	} else {
		s.metrics.quoteOutcome("priced")
	}
	span.SetAttributes(
		attribute.Int("stay.nights", resp.Quote.NightCount()),
		attribute.Int64("stay.total", int64(resp.Quote.Total)),
	)
	return resp, nil
}

func (s *Server) quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	if err := utils.Validate.Struct(req); err != nil {
		return QuoteResponse{}, validationError(err)
	}

	checkIn, err := pricing.ParseOptionalDate(req.CheckIn)
	if err != nil {
		return QuoteResponse{}, dateError("check_in", err)
	}
	checkOut, err := pricing.ParseOptionalDate(req.CheckOut)
	if err != nil {
		return QuoteResponse{}, dateError("check_out", err)
	}
	if checkIn != nil && checkOut != nil {
		ie := newInputError()
		s.checkStayLength(ie, *checkIn, *checkOut)
		if ie.fieldsCount() != 0 {
			return QuoteResponse{}, ie
		}
	}

	reference := s.today()
	if req.ReferenceDate != "" {
		if reference, err = pricing.ParseDate(req.ReferenceDate); err != nil {
			return QuoteResponse{}, dateError("reference_date", err)
		}
	}

	st, err := s.priceStay(ctx, req.VillaID, pricing.StayRequest{
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		ReferenceDate: reference,
	})
	if err != nil {
		return QuoteResponse{}, err
	}
	return QuoteResponse{
		VillaID:         st.villa.ID,
		VillaName:       st.villa.Name,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Quote:           st.quote,
		Breakdown:       st.breakdown,
		MaxGuests:       st.villa.MaxGuests,
		ExceedsCapacity: st.villa.MaxGuests > 0 && req.Guests > st.villa.MaxGuests,
	}, nil
}

// priceStay loads the villa snapshot and runs the engine on req. req.Villa is
// filled in from the store.
func (s *Server) priceStay(ctx context.Context, villaID uint, req pricing.StayRequest) (stay, error) {
	villa, err := s.store.Villa(ctx, villaID)
	if errors.Is(err, db.ErrNotFound) {
		return stay{}, ErrVillaNotFound
	}
	if err != nil {
		return stay{}, fmt.Errorf("load villa %d: %w", villaID, err)
	}

	req.Villa, err = villa.Pricing()
	if err != nil {
		return stay{}, err
	}

	for label, problem := range req.Villa.Table.Problems() {
		level.Warn(s.logger).Log("msg", "unreadable weekday price", "villa", villa.ID, "day", label, "err", problem)
	}

	agg := pricing.Aggregator{Policy: s.policy}

	quote, err := agg.Quote(req)
	if err != nil {
		return stay{}, err
	}
	breakdown, err := agg.Breakdown(req)
	if err != nil {
		return stay{}, err
	}

	if n := len(quote.MissingPrices); n != 0 {
		s.metrics.MissingPrices.Add(float64(n))
		level.Warn(s.logger).Log(
			"msg", "weekday price missing, using villa base price",
			"villa", villa.ID,
			"nights", n,
			"first", quote.MissingPrices[0].Date,
		)
	}
	return stay{villa: villa, quote: quote, breakdown: breakdown}, nil
}

func dateError(field string, err error) error {
	if pricing.IsInvalidDateError(err) == nil {
		return err
	}

	ie := newInputError()
	ie.addError(field, "must be a date in YYYY-MM-DD format")
	return ie
}

func outcome(err error) string {
	var negErr *pricing.NegativeNightlyPriceError
	switch {
	case IsInputError(err) != nil:
		return "invalid"
	case errors.Is(err, ErrVillaNotFound):
		return "not_found"
	case errors.As(err, &negErr):
		return "negative"
	default:
		return "error"
	}
}
