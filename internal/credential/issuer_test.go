package credential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/domain"
)

func TestMockIssuer_Issue(t *testing.T) {
	issuer := NewMockIssuer()

	cred, err := issuer.Issue(context.Background(),
		"did:cheqd:testnet:ai-agent", "did:cheqd:testnet:user-abc",
		map[string]any{"destination": "Paris"})

	assert.NoError(t, err)
	assert.Contains(t, cred.ID, "cred:cheqd:testnet:")
	assert.Equal(t, "did:cheqd:testnet:ai-agent", cred.Issuer)
	assert.Equal(t, "did:cheqd:testnet:user-abc", cred.Subject)
	assert.Equal(t, "Paris", cred.Data["destination"])
	assert.False(t, cred.IssuanceDate.IsZero())
}

func TestMockIssuer_Issue_NilData(t *testing.T) {
	cred, err := NewMockIssuer().Issue(context.Background(), "issuer", "subject", nil)

	assert.NoError(t, err)
	assert.NotNil(t, cred.Data)
}

func TestMinimal(t *testing.T) {
	cred := Minimal(domain.BookingTypeFlight, "Air France", "Paris")

	assert.Contains(t, cred.ID, "cred:cheqd:testnet:")
	assert.Equal(t, domain.BookingTypeFlight, cred.Data["bookingType"])
	assert.Equal(t, "Air France", cred.Data["provider"])
	assert.Equal(t, "Paris", cred.Data["destination"])
}
