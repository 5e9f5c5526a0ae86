package catalog

import (
	"strings"
	"unicode"

	"github.com/trusttrip/backend/internal/domain"
)

// Catalog holds the static offer table. Offers are immutable at runtime and
// keep their insertion order, which is the tie-break order for selection.
type Catalog struct {
	offers []domain.Offer
}

func New(offers []domain.Offer) *Catalog {
	return &Catalog{offers: offers}
}

// Default returns the demo offer table.
func Default() *Catalog {
	return New([]domain.Offer{
		{Type: domain.BookingTypeFlight, Provider: "Air France", Destination: "Paris", Price: 0.00005, Currency: "CHEQ"},
		{Type: domain.BookingTypeFlight, Provider: "Air France", Destination: "Rome", Price: 0.00006, Currency: "CHEQ"},
		{Type: domain.BookingTypeFlight, Provider: "British Airways", Destination: "London", Price: 0.00004, Currency: "CHEQ"},
		{Type: domain.BookingTypeFlight, Provider: "British Airways", Destination: "New York", Price: 0.00007, Currency: "CHEQ"},
		{Type: domain.BookingTypeHotel, Provider: "Marriott Hotels", Destination: "Paris", Price: 0.00003, Currency: "CHEQ"},
		{Type: domain.BookingTypeHotel, Provider: "Marriott Hotels", Destination: "Rome", Price: 0.00002, Currency: "CHEQ"},
		{Type: domain.BookingTypeHotel, Provider: "Hilton Hotels", Destination: "London", Price: 0.00003, Currency: "CHEQ"},
		{Type: domain.BookingTypeHotel, Provider: "Hilton Hotels", Destination: "New York", Price: 0.00004, Currency: "CHEQ"},
	})
}

// Normalize title-cases a free-text destination: tokens are lower-cased, the
// first rune of each is upper-cased and tokens are rejoined with single
// spaces. No locale handling, no punctuation stripping.
func Normalize(destination string) string {
	words := strings.Fields(destination)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Match returns the offers of the given type for the normalized destination
// with price within budget, preserving catalog order. A budget of zero or
// less means no price cap (used by the estimate path).
func (c *Catalog) Match(t domain.BookingType, destination string, budget float64) []domain.Offer {
	normalized := Normalize(destination)
	var matched []domain.Offer
	for _, offer := range c.offers {
		if offer.Type != t || offer.Destination != normalized {
			continue
		}
		if budget > 0 && offer.Price > budget {
			continue
		}
		matched = append(matched, offer)
	}
	return matched
}

// Offers returns a copy of the full table.
func (c *Catalog) Offers() []domain.Offer {
	out := make([]domain.Offer, len(c.offers))
	copy(out, c.offers)
	return out
}
