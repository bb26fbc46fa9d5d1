package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

type MockEnricher struct {
	mock.Mock
}

func (m *MockEnricher) Enrich(ctx context.Context, email string) entity.EnrichmentOutcome {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.EnrichmentOutcome)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishLeadCreated(ctx context.Context, event queue.LeadCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type panickingEnricher struct{}

func (panickingEnricher) Enrich(context.Context, string) entity.EnrichmentOutcome {
	panic("provider exploded")
}
