package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/domain"
)

func testCandidates() []domain.Offer {
	return []domain.Offer{
		{Type: domain.BookingTypeFlight, Provider: "Air France", Destination: "Paris", Price: 0.00005, Currency: "CHEQ"},
		{Type: domain.BookingTypeFlight, Provider: "Budget Air", Destination: "Paris", Price: 0.00003, Currency: "CHEQ"},
	}
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	assert.NoError(t, json.NewEncoder(w).Encode(reply))
}

func testRanker(url string) *OpenAIRanker {
	return &OpenAIRanker{
		apiKey:     "test-key",
		baseURL:    url,
		model:      "gpt-3.5-turbo",
		httpClient: &http.Client{Timeout: time.Second},
	}
}

func TestOpenAIRanker_Rank(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		chatReply(t, w, `{"provider": "Budget Air", "price": 0.00003, "destination": "Paris"}`)
	}))
	defer server.Close()

	offer, err := testRanker(server.URL).Rank(context.Background(),
		domain.BookingTypeFlight, "Paris", 0.001, testCandidates())

	assert.NoError(t, err)
	assert.Equal(t, "Budget Air", offer.Provider)
	// The price comes from the catalog candidate, not the model reply.
	assert.Equal(t, 0.00003, offer.Price)
}

func TestOpenAIRanker_Rank_NoAPIKey(t *testing.T) {
	ranker := &OpenAIRanker{httpClient: http.DefaultClient}

	offer, err := ranker.Rank(context.Background(),
		domain.BookingTypeFlight, "Paris", 0.001, testCandidates())

	assert.Nil(t, offer)
	assert.ErrorContains(t, err, "api key not configured")
}

func TestOpenAIRanker_Rank_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	offer, err := testRanker(server.URL).Rank(context.Background(),
		domain.BookingTypeFlight, "Paris", 0.001, testCandidates())

	assert.Nil(t, offer)
	assert.ErrorContains(t, err, "status 429")
}

func TestOpenAIRanker_Rank_UnparsableReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, "I think Air France would be lovely this time of year.")
	}))
	defer server.Close()

	offer, err := testRanker(server.URL).Rank(context.Background(),
		domain.BookingTypeFlight, "Paris", 0.001, testCandidates())

	assert.Nil(t, offer)
	assert.ErrorContains(t, err, "unparsable model reply")
}

func TestOpenAIRanker_Rank_InventedProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, `{"provider": "Invented Air", "price": 0.00001, "destination": "Paris"}`)
	}))
	defer server.Close()

	offer, err := testRanker(server.URL).Rank(context.Background(),
		domain.BookingTypeFlight, "Paris", 0.001, testCandidates())

	assert.Nil(t, offer)
	assert.ErrorContains(t, err, "not among the candidates")
}
