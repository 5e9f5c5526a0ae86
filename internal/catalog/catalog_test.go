package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/domain"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "paris", expected: "Paris"},
		{name: "uppercase", input: "LONDON", expected: "London"},
		{name: "two words", input: "new york", expected: "New York"},
		{name: "mixed case", input: "nEw YoRk", expected: "New York"},
		{name: "extra spaces", input: "  new   york  ", expected: "New York"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestCatalog_Match(t *testing.T) {
	c := Default()

	t.Run("filters by type and destination", func(t *testing.T) {
		offers := c.Match(domain.BookingTypeFlight, "paris", 0.001)
		assert.Len(t, offers, 1)
		assert.Equal(t, "Air France", offers[0].Provider)
		assert.Equal(t, "Paris", offers[0].Destination)
	})

	t.Run("filters by budget", func(t *testing.T) {
		offers := c.Match(domain.BookingTypeFlight, "new york", 0.00005)
		assert.Empty(t, offers)
	})

	t.Run("zero budget means no cap", func(t *testing.T) {
		offers := c.Match(domain.BookingTypeFlight, "new york", 0)
		assert.Len(t, offers, 1)
	})

	t.Run("unknown destination", func(t *testing.T) {
		offers := c.Match(domain.BookingTypeHotel, "tokyo", 0.001)
		assert.Empty(t, offers)
	})

	t.Run("no car offers in default catalog", func(t *testing.T) {
		offers := c.Match(domain.BookingTypeCar, "paris", 0.001)
		assert.Empty(t, offers)
	})

	t.Run("preserves catalog order", func(t *testing.T) {
		c := New([]domain.Offer{
			{Type: domain.BookingTypeFlight, Provider: "First", Destination: "Oslo", Price: 0.00002, Currency: "CHEQ"},
			{Type: domain.BookingTypeFlight, Provider: "Second", Destination: "Oslo", Price: 0.00002, Currency: "CHEQ"},
		})
		offers := c.Match(domain.BookingTypeFlight, "oslo", 0.001)
		assert.Len(t, offers, 2)
		assert.Equal(t, "First", offers[0].Provider)
		assert.Equal(t, "Second", offers[1].Provider)
	})
}

func TestCatalog_Offers_ReturnsCopy(t *testing.T) {
	c := Default()
	offers := c.Offers()
	offers[0].Provider = "mutated"

	fresh := c.Offers()
	assert.NotEqual(t, "mutated", fresh[0].Provider)
}
