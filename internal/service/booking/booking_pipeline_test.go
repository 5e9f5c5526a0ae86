package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/catalog"
	"github.com/trusttrip/backend/internal/credential"
	"github.com/trusttrip/backend/internal/domain"
	"github.com/trusttrip/backend/internal/repository"
	"github.com/trusttrip/backend/internal/service/selection"
	"github.com/trusttrip/backend/internal/trust"
)

// Wires the real catalog, selector, memory store and mock identity pieces
// through the full pipeline, no mocks in the data path.
func newPipelineService(store repository.BookingStore) *Service {
	registry := &trust.Registry{
		IssuerDID: trust.AgentDID,
		SchemaDID: "did:cheqd:testnet:booking-credential-schema",
		Providers: []trust.Provider{
			{Type: domain.BookingTypeFlight, Name: "Air France", DID: "did:cheqd:testnet:provider-airfrance"},
			{Type: domain.BookingTypeFlight, Name: "British Airways", DID: "did:cheqd:testnet:provider-britishairways"},
			{Type: domain.BookingTypeHotel, Name: "Marriott Hotels", DID: "did:cheqd:testnet:provider-marriott"},
			{Type: domain.BookingTypeHotel, Name: "Hilton Hotels", DID: "did:cheqd:testnet:provider-hilton"},
		},
	}
	return NewService(
		store,
		selection.NewService(catalog.Default(), nil),
		registry,
		trust.MockChecker{},
		credential.NewMockIssuer(),
	)
}

func TestBookingPipeline_FlightWithinBudget(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newPipelineService(store)
	ctx := context.Background()

	confirmation, err := service.CreateBooking(ctx, validInput())

	assert.NoError(t, err)
	assert.Equal(t, "Air France", confirmation.Booking.Provider)
	assert.Equal(t, "Paris", confirmation.Booking.Destination)
	assert.Equal(t, 0.00005, confirmation.Booking.Price)
	assert.Equal(t, "did:cheqd:testnet:provider-airfrance", confirmation.Booking.ProviderDID)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmation.Booking.Status)
	assert.Contains(t, confirmation.Credential.ID, "cred:cheqd:testnet:")

	// The booking and the user aggregate are both persisted.
	persisted, err := store.FindBookingByID(ctx, confirmation.Booking.BookingID)
	assert.NoError(t, err)
	assert.Equal(t, confirmation.Booking.BookingID, persisted.BookingID)

	user, err := store.FindUserByWallet(ctx, testWallet)
	assert.NoError(t, err)
	assert.Equal(t, []string{confirmation.Booking.BookingID}, user.Bookings)
	assert.Equal(t, 0.00005, user.TotalSpent)
}

func TestBookingPipeline_HotelPicksBestScore(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newPipelineService(store)

	input := validInput()
	input.BookingType = "hotel"
	input.Destination = "rome"

	confirmation, err := service.CreateBooking(context.Background(), input)

	assert.NoError(t, err)
	// Rome's only hotel is also the catalog's cheapest offer.
	assert.Equal(t, "Marriott Hotels", confirmation.Booking.Provider)
	assert.Equal(t, 0.00002, confirmation.Booking.Price)
	assert.Equal(t, "did:cheqd:testnet:provider-marriott", confirmation.Booking.ProviderDID)
}

func TestBookingPipeline_BelowBudgetPersistsNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newPipelineService(store)
	ctx := context.Background()

	input := validInput()
	input.Budget = 0.00001

	confirmation, err := service.CreateBooking(ctx, input)

	assert.Nil(t, confirmation)
	assert.ErrorIs(t, err, domain.ErrNoMatchingOffer)

	bookings, err := store.FindBookingsByWallet(ctx, testWallet)
	assert.NoError(t, err)
	assert.Empty(t, bookings)
	_, err = store.FindUserByWallet(ctx, testWallet)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingPipeline_UnknownDestinationPersistsNothing(t *testing.T) {
	store := repository.NewMemoryStore()
	service := newPipelineService(store)
	ctx := context.Background()

	input := validInput()
	input.Destination = "tokyo"

	confirmation, err := service.CreateBooking(ctx, input)

	assert.Nil(t, confirmation)
	assert.ErrorIs(t, err, domain.ErrNoMatchingOffer)

	bookings, err := store.FindBookingsByWallet(ctx, testWallet)
	assert.NoError(t, err)
	assert.Empty(t, bookings)
}
