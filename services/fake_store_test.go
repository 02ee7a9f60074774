package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dzoniops/villa-pricing-service/db"
	"github.com/dzoniops/villa-pricing-service/models"
	"github.com/dzoniops/villa-pricing-service/pricing"
	"github.com/dzoniops/villa-pricing-service/utils"
)

func TestMain(m *testing.M) {
	utils.InitValidator()
	os.Exit(m.Run())
}

type fakeStore struct {
	mu       sync.Mutex
	villas   map[uint]models.Villa
	bookings map[uint]models.Booking
	nextID   uint
	// acceptErr makes AcceptBooking fail before it changes anything.
	acceptErr error
}

func newFakeStore(villas ...models.Villa) *fakeStore {
	s := &fakeStore{
		villas:   make(map[uint]models.Villa),
		bookings: make(map[uint]models.Booking),
		nextID:   1,
	}
	for _, v := range villas {
		s.villas[v.ID] = v
	}
	return s
}

func (s *fakeStore) Villa(_ context.Context, id uint) (models.Villa, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.villas[id]
	if !ok {
		return models.Villa{}, db.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID
	s.nextID++
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeStore) Booking(_ context.Context, id uint) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return models.Booking{}, db.ErrNotFound
	}
	return b, nil
}

func (s *fakeStore) OverlappingBookings(
	_ context.Context,
	villaID uint,
	checkIn, checkOut time.Time,
	status models.BookingStatus,
) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for id := uint(1); id < s.nextID; id++ {
		b, ok := s.bookings[id]
		if !ok || b.VillaID != villaID || b.Status != status {
			continue
		}
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateBookingStatus(_ context.Context, id uint, status models.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return db.ErrNotFound
	}
	b.Status = status
	s.bookings[id] = b
	return nil
}

func (s *fakeStore) AcceptBooking(ctx context.Context, booking models.Booking) ([]models.Booking, error) {
	if s.acceptErr != nil {
		return nil, s.acceptErr
	}

	taken, _ := s.OverlappingBookings(ctx, booking.VillaID, booking.CheckIn, booking.CheckOut, models.ACCEPTED)
	if len(taken) != 0 {
		return nil, db.ErrOverlap
	}
	current, err := s.Booking(ctx, booking.ID)
	if err != nil || current.Status != models.PENDING {
		return nil, db.ErrNotFound
	}
	_ = s.UpdateBookingStatus(ctx, booking.ID, models.ACCEPTED)

	declined, _ := s.OverlappingBookings(ctx, booking.VillaID, booking.CheckIn, booking.CheckOut, models.PENDING)
	for i := range declined {
		_ = s.UpdateBookingStatus(ctx, declined[i].ID, models.DECLINED)
		declined[i].Status = models.DECLINED
	}
	return declined, nil
}

func (s *fakeStore) add(b models.Booking) models.Booking {
	_ = s.CreateBooking(context.Background(), &b)
	return b
}

func (s *fakeStore) status(id uint) models.BookingStatus {
	b, _ := s.Booking(context.Background(), id)
	return b.Status
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sonTra() models.Villa {
	v := models.Villa{
		Name:          "Villa Sơn Trà",
		BasePrice:     8500000,
		ServiceCharge: 500000,
		MaxGuests:     12,
		DayPrices: []models.VillaDayPrice{
			{Day: "Chủ nhật", Price: "9.500.000 ₫"},
			{Day: "Thứ 2", Price: "8.500.000 ₫"},
			{Day: "Thứ 3", Price: "8.500.000 ₫"},
			{Day: "Thứ 4", Price: "8.500.000 ₫"},
			{Day: "Thứ 5", Price: "liên hệ"},
			{Day: "Thứ 6", Price: "9.500.000 ₫"},
			{Day: "Thứ 7", Price: "10.500.000 ₫"},
		},
		Discounts: []models.Discount{{
			Name:      "Summer",
			Type:      "percentage",
			Value:     15,
			StartDate: date(2023, time.July, 1),
			EndDate:   date(2023, time.August, 31),
			IsActive:  true,
		}},
	}
	v.ID = 1
	v.Discounts[0].ID = 4
	return v
}

type testServer struct {
	*Server
	store   *fakeStore
	metrics *Metrics
}

// newTestServer builds a server whose clock reads 2023-06-20 10:00 UTC.
func newTestServer(policy pricing.NegativePricePolicy, villas ...models.Villa) testServer {
	store := newFakeStore(villas...)
	metrics := NewMetrics(prometheus.NewRegistry())
	srv := NewServer(store, log.NewNopLogger(), metrics, policy, 0)
	srv.now = func() time.Time { return time.Date(2023, time.June, 20, 10, 0, 0, 0, time.UTC) }
	return testServer{Server: srv, store: store, metrics: metrics}
}
