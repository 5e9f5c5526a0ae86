package domain

import "time"

// User aggregates the bookings made from one wallet address. TotalSpent is
// maintained incrementally on write but recomputed from the booking list on
// every read path, so the stored value never leaks into a response.
type User struct {
	WalletAddress string    `json:"walletAddress"`
	UserDID       string    `json:"userDID"`
	Bookings      []string  `json:"bookings"`
	TotalSpent    float64   `json:"totalSpent"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
