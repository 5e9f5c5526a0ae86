package credential

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trusttrip/backend/internal/domain"
)

// Issuer builds a credential for a booking. Implementations must tolerate
// missing optional fields; the booking pipeline substitutes a minimal
// credential when an issuer fails, so issuance is never fatal.
type Issuer interface {
	Issue(ctx context.Context, issuerDID, subjectDID string, data map[string]any) (*domain.Credential, error)
}

// MockIssuer produces an unsigned credential record locally.
type MockIssuer struct{}

func NewMockIssuer() *MockIssuer {
	return &MockIssuer{}
}

func (MockIssuer) Issue(_ context.Context, issuerDID, subjectDID string, data map[string]any) (*domain.Credential, error) {
	if data == nil {
		data = map[string]any{}
	}
	return &domain.Credential{
		ID:           "cred:cheqd:testnet:" + uuid.NewString(),
		Issuer:       issuerDID,
		Subject:      subjectDID,
		Data:         data,
		IssuanceDate: time.Now().UTC(),
	}, nil
}

var _ Issuer = (*MockIssuer)(nil)

// Minimal returns the bare credential used when issuance fails: just an id
// and the identifying booking fields.
func Minimal(bookingType domain.BookingType, provider, destination string) *domain.Credential {
	return &domain.Credential{
		ID: "cred:cheqd:testnet:" + uuid.NewString(),
		Data: map[string]any{
			"bookingType": bookingType,
			"provider":    provider,
			"destination": destination,
		},
	}
}
