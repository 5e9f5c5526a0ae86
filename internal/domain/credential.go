package domain

import "time"

// Credential is a mock verifiable credential describing a booking. It is a
// plain data record in this demo; a production identity layer would sign it.
type Credential struct {
	ID           string         `json:"id"`
	Issuer       string         `json:"issuer,omitempty"`
	Subject      string         `json:"subject,omitempty"`
	Data         map[string]any `json:"data"`
	IssuanceDate time.Time      `json:"issuanceDate,omitempty"`
}
