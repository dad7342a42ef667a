package policystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"postforge/internal/domain"
)

const qSelectPolicy = `
SELECT tone, style_guide, guardrails, topics
FROM style_policies
WHERE owner_id = $1`

// Postgres reads policies from the style_policies table. style_guide and
// guardrails are jsonb columns, topics is text[].
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) GetPolicy(ctx context.Context, ownerID string) (*domain.StylePolicy, error) {
	var (
		tone       string
		styleGuide []byte
		guardrails []byte
		topics     []string
	)
	row := p.pool.QueryRow(ctx, qSelectPolicy, ownerID)
	if err := row.Scan(&tone, &styleGuide, &guardrails, &topics); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("policystore: load policy: %w", err)
	}

	policy := domain.StylePolicy{OwnerID: ownerID, Tone: tone, Topics: topics}
	if len(styleGuide) > 0 {
		if err := json.Unmarshal(styleGuide, &policy.StyleGuide); err != nil {
			return nil, fmt.Errorf("policystore: decode style_guide: %w", err)
		}
	}
	if len(guardrails) > 0 {
		if err := json.Unmarshal(guardrails, &policy.Guardrails); err != nil {
			return nil, fmt.Errorf("policystore: decode guardrails: %w", err)
		}
	}
	return &policy, nil
}

var _ Store = (*Postgres)(nil)
