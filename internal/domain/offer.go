package domain

// Offer is a static catalog entry a booking request can be matched against.
type Offer struct {
	Type        BookingType `json:"type"`
	Provider    string      `json:"provider"`
	Destination string      `json:"destination"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
}

// Estimate is the read-only price quote returned by the estimate endpoint.
type Estimate struct {
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	Provider        string  `json:"provider"`
	Destination     string  `json:"destination"`
	ProviderDID     string  `json:"providerDID"`
	ProviderAddress string  `json:"providerAddress"`
}
