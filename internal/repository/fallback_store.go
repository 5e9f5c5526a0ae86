package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/internal/domain"
)

// FallbackStore wraps a durable store with an in-memory overlay. A write that
// fails against the durable backend lands in memory instead, so a valid
// booking is never dropped; reads consult the durable backend first and then
// the overlay. The HTTP layer never sees which path served a request.
type FallbackStore struct {
	durable BookingStore
	overlay *MemoryStore
}

func NewFallbackStore(durable BookingStore, overlay *MemoryStore) *FallbackStore {
	return &FallbackStore{durable: durable, overlay: overlay}
}

func (s *FallbackStore) Name() string { return s.durable.Name() + "+fallback" }

func (s *FallbackStore) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	if err := s.durable.SaveBooking(ctx, booking); err != nil {
		logrus.WithFields(logrus.Fields{
			"store":     s.durable.Name(),
			"bookingId": booking.BookingID,
		}).Warnf("durable write failed, falling back to memory: %v", err)
		return s.overlay.SaveBooking(ctx, booking)
	}
	return nil
}

func (s *FallbackStore) FindBookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error) {
	durable, err := s.durable.FindBookingsByWallet(ctx, walletAddress)
	if err != nil {
		logrus.WithField("store", s.durable.Name()).Warnf("durable read failed, serving memory: %v", err)
		return s.overlay.FindBookingsByWallet(ctx, walletAddress)
	}

	fallback, _ := s.overlay.FindBookingsByWallet(ctx, walletAddress)
	if len(fallback) == 0 {
		return durable, nil
	}

	seen := make(map[string]struct{}, len(durable))
	for _, b := range durable {
		seen[b.BookingID] = struct{}{}
	}
	merged := durable
	for _, b := range fallback {
		if _, ok := seen[b.BookingID]; !ok {
			merged = append(merged, b)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

func (s *FallbackStore) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.durable.FindBookingByID(ctx, bookingID)
	if err == nil {
		return booking, nil
	}
	if fallback, ferr := s.overlay.FindBookingByID(ctx, bookingID); ferr == nil {
		return fallback, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return nil, err
}

func (s *FallbackStore) UpsertUser(ctx context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error) {
	user, err := s.durable.UpsertUser(ctx, walletAddress, userDID, bookingID, price)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"store":  s.durable.Name(),
			"wallet": walletAddress,
		}).Warnf("durable user write failed, falling back to memory: %v", err)
		return s.overlay.UpsertUser(ctx, walletAddress, userDID, bookingID, price)
	}
	return user, nil
}

func (s *FallbackStore) FindUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	user, err := s.durable.FindUserByWallet(ctx, walletAddress)
	if err == nil {
		return user, nil
	}
	if fallback, ferr := s.overlay.FindUserByWallet(ctx, walletAddress); ferr == nil {
		return fallback, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	return nil, err
}

func (s *FallbackStore) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.durable.Stats(ctx)
	if err != nil {
		logrus.WithField("store", s.durable.Name()).Warnf("durable stats failed, serving memory: %v", err)
		return s.overlay.Stats(ctx)
	}

	overlay, oerr := s.overlay.Stats(ctx)
	if oerr != nil || overlay.TotalBookings == 0 {
		return stats, nil
	}
	return mergeStats(stats, overlay), nil
}

// mergeStats folds overlay-resident records into the durable snapshot.
// A booking lands in the overlay only when its durable write failed, so the
// booking sums never double count.
func mergeStats(durable, overlay *domain.Stats) *domain.Stats {
	merged := &domain.Stats{
		TotalBookings: durable.TotalBookings + overlay.TotalBookings,
		TotalUsers:    durable.TotalUsers + overlay.TotalUsers,
		TotalSpent:    durable.TotalSpent + overlay.TotalSpent,
		BookingsByType: domain.BookingsByType{
			Flight: durable.BookingsByType.Flight + overlay.BookingsByType.Flight,
			Hotel:  durable.BookingsByType.Hotel + overlay.BookingsByType.Hotel,
			Car:    durable.BookingsByType.Car + overlay.BookingsByType.Car,
		},
	}

	destinations := make(map[string]int)
	for _, d := range durable.PopularDestinations {
		destinations[d.Destination] += d.Count
	}
	for _, d := range overlay.PopularDestinations {
		destinations[d.Destination] += d.Count
	}
	for destination, count := range destinations {
		merged.PopularDestinations = append(merged.PopularDestinations, domain.DestinationCount{Destination: destination, Count: count})
	}
	sort.Slice(merged.PopularDestinations, func(i, j int) bool {
		if merged.PopularDestinations[i].Count != merged.PopularDestinations[j].Count {
			return merged.PopularDestinations[i].Count > merged.PopularDestinations[j].Count
		}
		return merged.PopularDestinations[i].Destination < merged.PopularDestinations[j].Destination
	})
	if len(merged.PopularDestinations) > topListSize {
		merged.PopularDestinations = merged.PopularDestinations[:topListSize]
	}

	providers := make(map[string]int)
	for _, p := range durable.PopularProviders {
		providers[p.Provider] += p.Count
	}
	for _, p := range overlay.PopularProviders {
		providers[p.Provider] += p.Count
	}
	for provider, count := range providers {
		merged.PopularProviders = append(merged.PopularProviders, domain.ProviderCount{Provider: provider, Count: count})
	}
	sort.Slice(merged.PopularProviders, func(i, j int) bool {
		if merged.PopularProviders[i].Count != merged.PopularProviders[j].Count {
			return merged.PopularProviders[i].Count > merged.PopularProviders[j].Count
		}
		return merged.PopularProviders[i].Provider < merged.PopularProviders[j].Provider
	})
	if len(merged.PopularProviders) > topListSize {
		merged.PopularProviders = merged.PopularProviders[:topListSize]
	}

	return merged
}

var _ BookingStore = (*FallbackStore)(nil)
