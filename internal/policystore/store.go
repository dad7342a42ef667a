// Package policystore resolves an owner's StylePolicy. The pipeline calls
// GetPolicy exactly once per run; a missing document is the one fatal
// precondition of every pipeline.
package policystore

import (
	"context"

	"postforge/internal/domain"
)

// Store is the policy-store collaborator contract. Implementations return
// domain.ErrNotFound when the owner has not completed onboarding.
type Store interface {
	GetPolicy(ctx context.Context, ownerID string) (*domain.StylePolicy, error)
}

// Static serves a fixed in-memory policy set. Used in tests and as the
// zero-configuration default.
type Static struct {
	policies map[string]domain.StylePolicy
}

func NewStatic(policies ...domain.StylePolicy) *Static {
	m := make(map[string]domain.StylePolicy, len(policies))
	for _, p := range policies {
		m[p.OwnerID] = p
	}
	return &Static{policies: m}
}

func (s *Static) GetPolicy(_ context.Context, ownerID string) (*domain.StylePolicy, error) {
	p, ok := s.policies[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

var _ Store = (*Static)(nil)
