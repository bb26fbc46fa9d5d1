package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
)

const (
	reasonEnrichmentCrashed = "enrichment failed unexpectedly"

	publishTimeout = 5 * time.Second
)

type CreateLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	Enricher  EnrichmentProvider
	Publisher LeadEventPublisher
	Logger    *zap.Logger
}

// NewCreateLeadUseCase wires the intake pipeline. publisher may be nil when
// no broker is configured.
func NewCreateLeadUseCase(
	repo entity.LeadRepositoryInterface,
	enricher EnrichmentProvider,
	publisher LeadEventPublisher,
	logger *zap.Logger,
) *CreateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateLeadUseCase{
		Repo:      repo,
		Enricher:  enricher,
		Publisher: publisher,
		Logger:    logger,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*CreateLeadOutput, error) {
	input = input.normalized()

	if errs := ValidateCreateLeadInput(input); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	existing, err := uc.Repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, storageError("failed to check for an existing lead", err)
	}
	if existing != nil {
		return nil, newDuplicateError()
	}

	outcome := uc.enrich(ctx, input.Email)
	if !outcome.Succeeded() {
		uc.Logger.Info("enrichment unavailable, continuing without data",
			zap.String("email", input.Email),
			zap.String("source", string(outcome.Source)),
			zap.String("reason", outcome.Reason),
		)
	}

	score := entity.Score(input.Website != "", outcome.Data)
	lead := entity.NewLead(input.Name, input.Email, input.Website, outcome.Data, score)

	if err := uc.Repo.Create(ctx, lead); err != nil {
		// lost a race with a concurrent submission for the same email
		if eris.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, newDuplicateError()
		}
		return nil, storageError("failed to persist lead", err)
	}

	uc.Logger.Info("lead created",
		zap.String("lead_id", lead.ID),
		zap.Int("score", lead.Score),
		zap.Bool("qualified", lead.Qualified),
	)

	uc.publish(ctx, lead)

	return &CreateLeadOutput{
		Lead: lead,
		Enrichment: EnrichmentStatus{
			Attempted: true,
			Success:   outcome.Succeeded(),
			Source:    outcome.Source,
			Reason:    outcome.Reason,
		},
	}, nil
}

// enrich never lets a provider fault abort the intake.
func (uc *CreateLeadUseCase) enrich(ctx context.Context, email string) (outcome entity.EnrichmentOutcome) {
	if uc.Enricher == nil {
		return entity.EnrichmentFailure(reasonEnrichmentCrashed, "")
	}

	defer func() {
		if r := recover(); r != nil {
			uc.Logger.Error("enrichment panicked",
				zap.String("email", email),
				zap.String("panic", fmt.Sprint(r)),
			)
			outcome = entity.EnrichmentFailure(reasonEnrichmentCrashed, "")
		}
	}()

	return uc.Enricher.Enrich(ctx, email)
}

func (uc *CreateLeadUseCase) publish(ctx context.Context, lead *entity.Lead) {
	if uc.Publisher == nil {
		return
	}

	event := queue.LeadCreatedEvent{
		LeadID:    lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Score:     lead.Score,
		Qualified: lead.Qualified,
		CreatedAt: lead.CreatedAt,
	}
	if lead.Website != nil {
		event.Website = *lead.Website
	}
	if data := lead.Enrichment(); data != nil {
		event.CompanyName = data.CompanyName
		event.CompanySize = data.CompanySize
		event.Industry = data.Industry
		event.Country = data.Country
	}

	// the lead is already stored, so a client hanging up must not drop the event
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := uc.Publisher.PublishLeadCreated(pubCtx, event); err != nil {
		uc.Logger.Warn("failed to publish lead.created",
			zap.String("lead_id", lead.ID),
			zap.Error(err),
		)
	}
}
