package trust

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/trusttrip/backend/internal/domain"
)

// AgentDID identifies the booking agent that issues credentials.
const AgentDID = "did:cheqd:testnet:ai-agent"

type Provider struct {
	Type domain.BookingType `yaml:"type" json:"type"`
	Name string             `yaml:"name" json:"name"`
	DID  string             `yaml:"did" json:"did"`
}

// Registry maps providers to DIDs. It is loaded once at startup and read-only
// afterwards.
type Registry struct {
	IssuerDID   string     `yaml:"issuer_did"`
	VerifierDID string     `yaml:"verifier_did"`
	SchemaDID   string     `yaml:"schema_did"`
	RootDID     string     `yaml:"root_did"`
	Providers   []Provider `yaml:"providers"`
}

// Load reads the registry file and fails fast when the required identifiers
// are missing, so a misconfigured process never starts serving.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trust registry: %w", err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse trust registry: %w", err)
	}
	if reg.IssuerDID == "" || reg.SchemaDID == "" {
		return nil, fmt.Errorf("trust registry is missing required fields: issuer_did or schema_did")
	}
	if reg.VerifierDID == "" {
		reg.VerifierDID = "did:cheqd:testnet:placeholder-verifier"
	}
	if reg.RootDID == "" {
		reg.RootDID = "did:cheqd:testnet:placeholder-root"
	}
	return &reg, nil
}

// ResolveDID returns the registered DID for a provider, or a deterministically
// derived placeholder when the provider is unknown. It never fails.
func (r *Registry) ResolveDID(t domain.BookingType, provider string) string {
	for _, p := range r.Providers {
		if p.Type == t && p.Name == provider {
			return p.DID
		}
	}
	return PlaceholderProviderDID(provider)
}

func PlaceholderProviderDID(provider string) string {
	slug := strings.ReplaceAll(strings.ToLower(provider), " ", "")
	return "did:cheqd:testnet:provider-" + slug
}

// UserDID derives a stable placeholder DID from a wallet address.
func UserDID(walletAddress string) string {
	prefix := walletAddress
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "did:cheqd:testnet:user-" + prefix
}

// Checker answers whether a provider DID is trusted. The booking pipeline
// treats an untrusted or failed answer as a warning, not a hard failure.
type Checker interface {
	IsTrusted(ctx context.Context, did string) (bool, error)
}

// MockChecker approves every DID. It stands in for a real registry lookup.
type MockChecker struct{}

func (MockChecker) IsTrusted(_ context.Context, did string) (bool, error) {
	logrus.WithField("did", did).Debug("mocked trust registry check")
	return true, nil
}

var _ Checker = (*MockChecker)(nil)
