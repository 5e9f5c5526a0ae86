package selection

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/trusttrip/backend/internal/catalog"
	"github.com/trusttrip/backend/internal/domain"
)

// Ranker is the advisory AI path. It may fail or return garbage; the
// selector never propagates its errors.
type Ranker interface {
	Rank(ctx context.Context, t domain.BookingType, destination string, budget float64, candidates []domain.Offer) (*domain.Offer, error)
}

type SelectorUseCase interface {
	Select(ctx context.Context, t domain.BookingType, destination string, budget float64) (*domain.Offer, error)
}

type Service struct {
	catalog *catalog.Catalog
	ranker  Ranker
}

// NewService builds a selector. The ranker may be nil, in which case only
// the deterministic fallback scoring runs.
func NewService(c *catalog.Catalog, ranker Ranker) *Service {
	return &Service{catalog: c, ranker: ranker}
}

// Select filters the catalog to affordable offers for the destination and
// picks one: the AI choice when available and valid, the deterministic
// fallback otherwise. Returns domain.ErrNoMatchingOffer when nothing matches.
func (s *Service) Select(ctx context.Context, t domain.BookingType, destination string, budget float64) (*domain.Offer, error) {
	if !t.Valid() {
		return nil, domain.ErrNoMatchingOffer
	}

	candidates := s.catalog.Match(t, destination, budget)
	if len(candidates) == 0 {
		logrus.WithFields(logrus.Fields{
			"type":        t,
			"destination": catalog.Normalize(destination),
			"budget":      budget,
		}).Info("no matching offers within budget")
		return nil, domain.ErrNoMatchingOffer
	}

	if s.ranker != nil {
		choice, err := s.ranker.Rank(ctx, t, catalog.Normalize(destination), budget, candidates)
		if err == nil && choice != nil && validChoice(choice, candidates, budget) {
			return choice, nil
		}
		if err != nil {
			logrus.Warnf("ai selection failed, using fallback scoring: %v", err)
		}
	}

	best := pickBestScore(candidates, budget)
	return &best, nil
}

// validChoice guards against a misbehaving ranker: the choice must be one of
// the candidates and within budget.
func validChoice(choice *domain.Offer, candidates []domain.Offer, budget float64) bool {
	if budget > 0 && choice.Price > budget {
		return false
	}
	for _, c := range candidates {
		if c.Provider == choice.Provider && c.Destination == choice.Destination && c.Type == choice.Type {
			return true
		}
	}
	return false
}

// pickBestScore is the deterministic fallback: score = 1 - price/budget,
// highest score wins, ties keep catalog order. Without a budget cap the
// cheapest offer wins, which is what the estimate path wants.
func pickBestScore(candidates []domain.Offer, budget float64) domain.Offer {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if budget > 0 {
			if 1-c.Price/budget > 1-best.Price/budget {
				best = c
			}
		} else if c.Price < best.Price {
			best = c
		}
	}
	return best
}

var _ SelectorUseCase = (*Service)(nil)
