package domain

type BookingsByType struct {
	Flight int `json:"flight"`
	Hotel  int `json:"hotel"`
	Car    int `json:"car"`
}

type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

type ProviderCount struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// Stats is the platform-wide aggregate computed by scanning all bookings.
type Stats struct {
	TotalBookings       int                `json:"totalBookings"`
	TotalUsers          int                `json:"totalUsers"`
	TotalSpent          float64            `json:"totalSpent"`
	BookingsByType      BookingsByType     `json:"bookingsByType"`
	PopularDestinations []DestinationCount `json:"popularDestinations"`
	PopularProviders    []ProviderCount    `json:"popularProviders"`
}
