package trust

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trusttrip/backend/internal/catalog"
	"github.com/trusttrip/backend/internal/domain"
)

func writeRegistryFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trustregistry.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistryFile(t, `
issuer_did: "did:cheqd:testnet:ai-agent"
schema_did: "did:cheqd:testnet:schema"
providers:
  - type: flight
    name: "Air France"
    did: "did:cheqd:testnet:provider-airfrance"
`)

	reg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "did:cheqd:testnet:ai-agent", reg.IssuerDID)
	assert.Len(t, reg.Providers, 1)
	// Optional identifiers get placeholder defaults.
	assert.Equal(t, "did:cheqd:testnet:placeholder-verifier", reg.VerifierDID)
	assert.Equal(t, "did:cheqd:testnet:placeholder-root", reg.RootDID)
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	path := writeRegistryFile(t, `
verifier_did: "did:cheqd:testnet:verifier"
`)

	reg, err := Load(path)
	assert.Nil(t, reg)
	assert.ErrorContains(t, err, "missing required fields")
}

func TestLoad_FileMissing(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Nil(t, reg)
	assert.Error(t, err)
}

func TestRegistry_ResolveDID(t *testing.T) {
	reg := &Registry{
		Providers: []Provider{
			{Type: domain.BookingTypeFlight, Name: "Air France", DID: "did:cheqd:testnet:registered-airfrance"},
		},
	}

	t.Run("registered provider", func(t *testing.T) {
		did := reg.ResolveDID(domain.BookingTypeFlight, "Air France")
		assert.Equal(t, "did:cheqd:testnet:registered-airfrance", did)
	})

	t.Run("unknown provider gets placeholder", func(t *testing.T) {
		did := reg.ResolveDID(domain.BookingTypeHotel, "Hilton Hotels")
		assert.Equal(t, "did:cheqd:testnet:provider-hiltonhotels", did)
	})

	t.Run("type must match", func(t *testing.T) {
		did := reg.ResolveDID(domain.BookingTypeHotel, "Air France")
		assert.Equal(t, "did:cheqd:testnet:provider-airfrance", did)
	})
}

func TestLoad_ShippedRegistryCoversCatalog(t *testing.T) {
	reg, err := Load(filepath.Join("..", "..", "trustregistry.yaml"))
	assert.NoError(t, err)

	// Every provider in the default catalog must resolve to its registered
	// DID, not a derived placeholder.
	registered := make(map[string]string, len(reg.Providers))
	for _, p := range reg.Providers {
		registered[string(p.Type)+"/"+p.Name] = p.DID
	}
	for _, offer := range catalog.Default().Offers() {
		key := string(offer.Type) + "/" + offer.Provider
		did, ok := registered[key]
		assert.True(t, ok, "provider %s is not in the registry file", key)
		assert.Equal(t, did, reg.ResolveDID(offer.Type, offer.Provider))
	}

	assert.Equal(t, "did:cheqd:testnet:provider-marriott", reg.ResolveDID(domain.BookingTypeHotel, "Marriott Hotels"))
	assert.Equal(t, "did:cheqd:testnet:provider-hilton", reg.ResolveDID(domain.BookingTypeHotel, "Hilton Hotels"))
}

func TestUserDID(t *testing.T) {
	assert.Equal(t, "did:cheqd:testnet:user-cheqd1d0", UserDID("cheqd1d0v2gzwgvzvmw4mgeypt03l2xln56yzfhhdu5p"))
	assert.Equal(t, "did:cheqd:testnet:user-short", UserDID("short"))
}

func TestMockChecker(t *testing.T) {
	trusted, err := MockChecker{}.IsTrusted(context.Background(), "did:cheqd:testnet:anything")
	assert.NoError(t, err)
	assert.True(t, trusted)
}
