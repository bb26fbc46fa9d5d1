package usecase

import (
	"context"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

type EnrichmentProvider interface {
	Enrich(ctx context.Context, email string) entity.EnrichmentOutcome
}

type LeadEventPublisher interface {
	PublishLeadCreated(ctx context.Context, event queue.LeadCreatedEvent) error
}
