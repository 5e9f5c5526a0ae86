package domain

import "time"

type BookingType string

const (
	BookingTypeFlight BookingType = "flight"
	BookingTypeHotel  BookingType = "hotel"
	BookingTypeCar    BookingType = "car"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeFlight, BookingTypeHotel, BookingTypeCar:
		return true
	}
	return false
}

// BookingTypes lists the supported types in a stable order, for error messages.
func BookingTypes() []BookingType {
	return []BookingType{BookingTypeFlight, BookingTypeHotel, BookingTypeCar}
}

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type Booking struct {
	BookingID        string        `json:"bookingId"`
	BookingType      BookingType   `json:"bookingType"`
	Provider         string        `json:"provider"`
	ProviderDID      string        `json:"providerDID"`
	Destination      string        `json:"destination"`
	DepartureDate    string        `json:"departureDate"`
	ReturnDate       string        `json:"returnDate"`
	Price            float64       `json:"price"`
	Currency         string        `json:"currency"`
	Travelers        int           `json:"travelers"`
	WalletAddress    string        `json:"walletAddress"`
	TransactionHash  string        `json:"transactionHash,omitempty"`
	SimulatedPayment bool          `json:"simulatedPayment"`
	UserDID          string        `json:"userDID"`
	Status           BookingStatus `json:"bookingStatus"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
