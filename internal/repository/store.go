package repository

import (
	"context"
	"sort"

	"github.com/trusttrip/backend/internal/domain"
)

// BookingStore persists bookings and user aggregates. Three implementations
// exist (Mongo, Postgres, in-memory) plus a fallback wrapper; callers never
// see which backend served a request.
type BookingStore interface {
	SaveBooking(ctx context.Context, booking *domain.Booking) error
	FindBookingsByWallet(ctx context.Context, walletAddress string) ([]domain.Booking, error)
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	UpsertUser(ctx context.Context, walletAddress, userDID, bookingID string, price float64) (*domain.User, error)
	FindUserByWallet(ctx context.Context, walletAddress string) (*domain.User, error)
	Stats(ctx context.Context) (*domain.Stats, error)
	Name() string
}

const topListSize = 5

// buildStats aggregates a full booking scan. Acceptable at demo scale; a real
// system would maintain running aggregates.
func buildStats(bookings []domain.Booking, totalUsers int) *domain.Stats {
	stats := &domain.Stats{
		TotalBookings: len(bookings),
		TotalUsers:    totalUsers,
	}

	destinations := make(map[string]int)
	providers := make(map[string]int)
	for _, b := range bookings {
		stats.TotalSpent += b.Price
		switch b.BookingType {
		case domain.BookingTypeFlight:
			stats.BookingsByType.Flight++
		case domain.BookingTypeHotel:
			stats.BookingsByType.Hotel++
		case domain.BookingTypeCar:
			stats.BookingsByType.Car++
		}
		if b.Destination != "" {
			destinations[b.Destination]++
		}
		if b.Provider != "" {
			providers[b.Provider]++
		}
	}

	for destination, count := range destinations {
		stats.PopularDestinations = append(stats.PopularDestinations, domain.DestinationCount{Destination: destination, Count: count})
	}
	sort.Slice(stats.PopularDestinations, func(i, j int) bool {
		if stats.PopularDestinations[i].Count != stats.PopularDestinations[j].Count {
			return stats.PopularDestinations[i].Count > stats.PopularDestinations[j].Count
		}
		return stats.PopularDestinations[i].Destination < stats.PopularDestinations[j].Destination
	})
	if len(stats.PopularDestinations) > topListSize {
		stats.PopularDestinations = stats.PopularDestinations[:topListSize]
	}

	for provider, count := range providers {
		stats.PopularProviders = append(stats.PopularProviders, domain.ProviderCount{Provider: provider, Count: count})
	}
	sort.Slice(stats.PopularProviders, func(i, j int) bool {
		if stats.PopularProviders[i].Count != stats.PopularProviders[j].Count {
			return stats.PopularProviders[i].Count > stats.PopularProviders[j].Count
		}
		return stats.PopularProviders[i].Provider < stats.PopularProviders[j].Provider
	})
	if len(stats.PopularProviders) > topListSize {
		stats.PopularProviders = stats.PopularProviders[:topListSize]
	}

	return stats
}
