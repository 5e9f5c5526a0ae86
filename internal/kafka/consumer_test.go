package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	payload, err := json.Marshal(BookingEvent{
		Type:          "booking_confirmed",
		BookingID:     "booking-1",
		BookingType:   "flight",
		Provider:      "Air France",
		Destination:   "Paris",
		Price:         0.00005,
		Currency:      "CHEQ",
		WalletAddress: "cheqd1d0v2gzwgvzvmw4mgeypt03l2xln56yzfhhdu5p",
		CreatedAt:     time.Now().UTC(),
	})
	assert.NoError(t, err)

	event, err := decodeEvent(payload)
	assert.NoError(t, err)
	assert.Equal(t, "booking-1", event.BookingID)
	assert.Equal(t, "Air France", event.Provider)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
	}{
		{name: "not json", payload: []byte("not json at all")},
		{name: "missing booking id", payload: []byte(`{"type":"booking_confirmed"}`)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeEvent(tc.payload)
			assert.Error(t, err)
		})
	}
}
