package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/domain"
)

// flakyStore wraps a MemoryStore and fails selected operations, standing in
// for an unreachable durable backend.
type flakyStore struct {
	inner     *MemoryStore
	failWrite bool
	failRead  bool
}

func (s *flakyStore) Name() string { return "flaky" }

func (s *flakyStore) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	if s.failWrite {
		return errors.New("connection refused")
	}
	return s.inner.SaveBooking(ctx, booking)
}

func (s *flakyStore) FindBookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error) {
	if s.failRead {
		return nil, errors.New("connection refused")
	}
	return s.inner.FindBookingsByWallet(ctx, walletAddress)
}

func (s *flakyStore) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if s.failRead {
		return nil, errors.New("connection refused")
	}
	return s.inner.FindBookingByID(ctx, bookingID)
}

func (s *flakyStore) UpsertUser(ctx context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error) {
	if s.failWrite {
		return nil, errors.New("connection refused")
	}
	return s.inner.UpsertUser(ctx, walletAddress, userDID, bookingID, price)
}

func (s *flakyStore) FindUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	if s.failRead {
		return nil, errors.New("connection refused")
	}
	return s.inner.FindUserByWallet(ctx, walletAddress)
}

func (s *flakyStore) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.failRead {
		return nil, errors.New("connection refused")
	}
	return s.inner.Stats(ctx)
}

func TestFallbackStore_WriteFailureLandsInMemory(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore(), failWrite: true}
	store := NewFallbackStore(durable, NewMemoryStore())
	ctx := context.Background()

	booking := testBooking("b1", "cheqd1wallet", domain.BookingTypeFlight, 0.0001, time.Now().UTC())
	assert.NoError(t, store.SaveBooking(ctx, booking))

	// The booking is readable even though the durable write failed.
	found, err := store.FindBookingByID(ctx, "b1")
	assert.NoError(t, err)
	assert.Equal(t, "b1", found.BookingID)

	// And it never reached the durable store.
	_, err = durable.inner.FindBookingByID(ctx, "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFallbackStore_MergesDurableAndOverlayReads(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore()}
	store := NewFallbackStore(durable, NewMemoryStore())
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// First write lands durably, then the backend goes away.
	assert.NoError(t, store.SaveBooking(ctx, testBooking("b1", "cheqd1wallet", domain.BookingTypeFlight, 0.0001, older)))
	durable.failWrite = true
	assert.NoError(t, store.SaveBooking(ctx, testBooking("b2", "cheqd1wallet", domain.BookingTypeHotel, 0.0002, newer)))

	bookings, err := store.FindBookingsByWallet(ctx, "cheqd1wallet")
	assert.NoError(t, err)
	assert.Len(t, bookings, 2)
	assert.Equal(t, "b2", bookings[0].BookingID)
	assert.Equal(t, "b1", bookings[1].BookingID)
}

func TestFallbackStore_ReadFailureServesOverlay(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore(), failWrite: true}
	store := NewFallbackStore(durable, NewMemoryStore())
	ctx := context.Background()

	assert.NoError(t, store.SaveBooking(ctx, testBooking("b1", "cheqd1wallet", domain.BookingTypeFlight, 0.0001, time.Now().UTC())))
	durable.failRead = true

	bookings, err := store.FindBookingsByWallet(ctx, "cheqd1wallet")
	assert.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestFallbackStore_UserUpsertFallsBack(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore(), failWrite: true}
	store := NewFallbackStore(durable, NewMemoryStore())
	ctx := context.Background()

	user, err := store.UpsertUser(ctx, "cheqd1wallet", "did:cheqd:testnet:user-cheqd1wa", "b1", 0.0001)
	assert.NoError(t, err)
	assert.Equal(t, 0.0001, user.TotalSpent)

	found, err := store.FindUserByWallet(ctx, "cheqd1wallet")
	assert.NoError(t, err)
	assert.Equal(t, []string{"b1"}, found.Bookings)
}

func TestFallbackStore_StatsIncludeOverlayBookings(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore()}
	store := NewFallbackStore(durable, NewMemoryStore())
	ctx := context.Background()

	now := time.Now().UTC()
	assert.NoError(t, store.SaveBooking(ctx, testBooking("b1", "cheqd1wallet", domain.BookingTypeFlight, 0.0001, now)))
	durable.failWrite = true
	assert.NoError(t, store.SaveBooking(ctx, testBooking("b2", "cheqd1wallet", domain.BookingTypeHotel, 0.0002, now)))

	bookings, err := store.FindBookingsByWallet(ctx, "cheqd1wallet")
	assert.NoError(t, err)
	assert.Len(t, bookings, 2)

	// The stats snapshot must agree with the merged reads.
	stats, err := store.Stats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBookings)
	assert.InDelta(t, 0.0003, stats.TotalSpent, 1e-12)
	assert.Equal(t, 1, stats.BookingsByType.Flight)
	assert.Equal(t, 1, stats.BookingsByType.Hotel)
	assert.Equal(t, "Paris", stats.PopularDestinations[0].Destination)
	assert.Equal(t, 2, stats.PopularDestinations[0].Count)
}

func TestFallbackStore_NotFoundStaysNotFound(t *testing.T) {
	durable := &flakyStore{inner: NewMemoryStore()}
	store := NewFallbackStore(durable, NewMemoryStore())

	_, err := store.FindBookingByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFallbackStore_Name(t *testing.T) {
	store := NewFallbackStore(&flakyStore{inner: NewMemoryStore()}, NewMemoryStore())
	assert.Equal(t, "flaky+fallback", store.Name())
}
