package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/trusttrip/backend/internal/domain"
)

// MemoryStore keeps bookings and users in process memory. It is the last
// resort when no durable backend is reachable and the per-write fallback
// target of FallbackStore. All records are lost on restart.
//
// A single mutex guards the read-modify-write of the user aggregate so
// concurrent bookings from the same wallet cannot lose updates.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	users    []domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) SaveBooking(_ context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, *booking)
	return nil
}

func (s *MemoryStore) FindBookingsByWallet(_ context.Context, walletAddress string) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Booking
	for _, b := range s.bookings {
		if b.WalletAddress == walletAddress {
			matched = append(matched, b)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *MemoryStore) FindBookingByID(_ context.Context, bookingID string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.BookingID == bookingID {
			found := b
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) UpsertUser(_ context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for i := range s.users {
		if s.users[i].WalletAddress == walletAddress {
			s.users[i].Bookings = append(s.users[i].Bookings, bookingID)
			s.users[i].TotalSpent += price
			s.users[i].UpdatedAt = now
			user := s.users[i]
			return &user, nil
		}
	}

	user := domain.User{
		WalletAddress: walletAddress,
		UserDID:       userDID,
		Bookings:      []string{bookingID},
		TotalSpent:    price,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.users = append(s.users, user)
	return &user, nil
}

func (s *MemoryStore) FindUserByWallet(_ context.Context, walletAddress string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.WalletAddress == walletAddress {
			found := u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) Stats(_ context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return buildStats(s.bookings, len(s.users)), nil
}

// SeedDemoData loads the sample records served when the process runs without
// any persistent storage.
func (s *MemoryStore) SeedDemoData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bookings) > 0 {
		return
	}

	wallet := "cheqd1d0v2gzwgvzvmw4mgeypt03l2xln56yzfhhdu5p"
	s.bookings = append(s.bookings,
		domain.Booking{
			BookingID:       "flight-123",
			BookingType:     domain.BookingTypeFlight,
			Provider:        "British Airways",
			Destination:     "London",
			DepartureDate:   "2025-06-01",
			ReturnDate:      "2025-06-07",
			Price:           0.00007,
			Currency:        "CHEQ",
			Travelers:       1,
			WalletAddress:   wallet,
			TransactionHash: "B7904C90B63EFF0F95D0BB9F8BE40245D2FEF258BA98D433055AA094D4286ED2",
			Status:          domain.BookingStatusConfirmed,
			CreatedAt:       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
			UpdatedAt:       time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		},
		domain.Booking{
			BookingID:        "hotel-456",
			BookingType:      domain.BookingTypeHotel,
			Provider:         "Marriott Hotels",
			Destination:      "Paris",
			DepartureDate:    "2025-07-15",
			ReturnDate:       "2025-07-20",
			Price:            0.00012,
			Currency:         "CHEQ",
			Travelers:        2,
			WalletAddress:    wallet,
			TransactionHash:  "SIMULATED_TX_HASH_123",
			SimulatedPayment: true,
			Status:           domain.BookingStatusConfirmed,
			CreatedAt:        time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
			UpdatedAt:        time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
		},
	)
	s.users = append(s.users, domain.User{
		WalletAddress: wallet,
		UserDID:       "did:cheqd:testnet:user123",
		Bookings:      []string{"flight-123", "hotel-456"},
		TotalSpent:    0.00019,
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC),
	})
}

var _ BookingStore = (*MemoryStore)(nil)
