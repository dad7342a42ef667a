package policystore

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"postforge/internal/domain"
)

type policyFile struct {
	Policies []domain.StylePolicy `yaml:"policies"`
}

// File serves policies loaded once from a YAML document. Intended for
// single-instance and development deployments that run without Postgres.
type File struct {
	policies map[string]domain.StylePolicy
}

// LoadFile reads and indexes a policy YAML file of the shape
// {policies: [{owner_id, tone, style_guide, guardrails, topics}, ...]}.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policystore: read %s: %w", path, err)
	}
	var doc policyFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("policystore: parse %s: %w", path, err)
	}
	m := make(map[string]domain.StylePolicy, len(doc.Policies))
	for _, p := range doc.Policies {
		if p.OwnerID == "" {
			return nil, fmt.Errorf("policystore: policy without owner_id in %s", path)
		}
		m[p.OwnerID] = p
	}
	return &File{policies: m}, nil
}

func (f *File) GetPolicy(_ context.Context, ownerID string) (*domain.StylePolicy, error) {
	p, ok := f.policies[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

var _ Store = (*File)(nil)
