package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-kit/log/level"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

type errorBody struct {
	Error    string              `json:"error"`
	Fields   map[string][]string `json:"fields,omitempty"`
	Expected *pricing.Currency   `json:"expected_total,omitempty"`
}

// Handler returns the storefront API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.addRoutes(mux)
	return mux
}

func (s *Server) addRoutes(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/quotes", s.route("quote", s.quoteHandler))
	mux.Handle("POST /api/v1/bookings", s.route("checkout", s.checkoutHandler))
	mux.Handle("POST /api/v1/bookings/{id}/accept", s.route("accept", s.bookingHandler(s.AcceptBooking)))
	mux.Handle("POST /api/v1/bookings/{id}/decline", s.route("decline", s.bookingHandler(s.DeclineBooking)))
	mux.Handle("DELETE /api/v1/bookings/{id}", s.route("cancel", s.bookingHandler(s.CancelBooking)))
	mux.Handle("GET /healthz", s.route("healthz", s.livenessHandler))
}

func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.Quote(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.Checkout(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) bookingHandler(
	action func(context.Context, uint) (BookingResponse, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil || id == 0 {
			ie := newInputError()
			ie.addError("id", "must be a positive integer")
			s.writeError(w, ie)
			return
		}

		resp, err := action(r.Context(), uint(id))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		ie := newInputError()
		ie.addError("body", "must be a JSON object with known fields")
		s.writeError(w, ie)
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		mismatch *TotalMismatchError
		negative *pricing.NegativeNightlyPriceError
	)

	switch {
	case IsInputError(err) != nil:
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request", Fields: IsInputError(err).Fields()})
	case errors.As(err, &mismatch):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: mismatch.Error(), Expected: &mismatch.Expected})
	case errors.As(err, &negative):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: negative.Error()})
	case errors.Is(err, ErrVillaNotFound), errors.Is(err, ErrBookingNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, ErrDatesTaken), errors.Is(err, ErrCancellationWindow):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		level.Error(s.logger).Log("msg", "request failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(s.logger).Log("msg", "could not encode response", "err", err)
	}
}
