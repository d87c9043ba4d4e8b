package requestquote

import (
	"context"

	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/service"
)

// Seeder adapts the client+mapper pair to the draft seeding contract.
// Upstream failures degrade to an unseeded draft rather than blocking
// draft creation.
type Seeder struct {
	client *Client
	mapper *Mapper
}

// NewSeeder creates a draft seeder backed by the request-quote API.
func NewSeeder(client *Client, mapper *Mapper) *Seeder {
	return &Seeder{client: client, mapper: mapper}
}

// Seed fetches the request record and maps it into wizard seed data.
// A missing record returns (nil, nil).
func (s *Seeder) Seed(ctx context.Context, requestQuoteID string) (*repository.EnrichedWizardData, error) {
	if requestQuoteID == "" {
		return nil, nil
	}

	rec, err := s.client.GetByID(ctx, requestQuoteID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	return s.mapper.Map(rec), nil
}

var _ service.DraftSeeder = (*Seeder)(nil)
