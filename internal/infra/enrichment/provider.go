package enrichment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/integration/anymailfinder"
)

const (
	ReasonInsufficientCredits = "insufficient credits"
	ReasonForbidden           = "api access forbidden"
	ReasonRateLimited         = "rate limit exceeded"
	ReasonNoData              = "no enrichment data available"

	DefaultLookupTimeout = 5 * time.Second
)

type PersonSearcher interface {
	SearchPerson(ctx context.Context, email string) (*anymailfinder.PersonResponse, error)
}

type Enricher interface {
	Enrich(ctx context.Context, email string) entity.EnrichmentOutcome
}

// Provider enriches through AnyMail Finder and masks transient problems with
// the fallback. Billing, access and quota answers are reported as failures
// so the caller sees them.
type Provider struct {
	searcher PersonSearcher
	fallback Enricher
	timeout  time.Duration
	logger   *zap.Logger
}

// NewProvider returns a provider that only simulates when searcher is nil.
func NewProvider(searcher PersonSearcher, fallback Enricher, timeout time.Duration, logger *zap.Logger) *Provider {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		searcher: searcher,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

func (p *Provider) Mode() entity.EnrichmentSource {
	if p.searcher == nil {
		return entity.SourceSimulator
	}
	return entity.SourceAPI
}

func (p *Provider) Enrich(ctx context.Context, email string) entity.EnrichmentOutcome {
	if p.searcher == nil {
		p.logger.Warn("anymailfinder api key not provided, using simulation")
		return p.fallback.Enrich(ctx, email)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	person, err := p.searcher.SearchPerson(lookupCtx, email)
	if err != nil {
		return p.handleError(ctx, email, err)
	}

	data := entity.EnrichmentData{
		CompanyName: person.NameOfCompany(),
		CompanySize: person.SizeOfCompany(),
		Industry:    person.IndustryOfCompany(),
		Country:     person.CountryOfPerson(),
	}
	if data.Empty() {
		p.logger.Warn("anymailfinder returned no enrichment data")
		return entity.EnrichmentFailure(ReasonNoData, entity.SourceAPI)
	}

	return entity.EnrichmentSuccess(data, entity.SourceAPI)
}

func (p *Provider) handleError(ctx context.Context, email string, err error) entity.EnrichmentOutcome {
	var apiErr *anymailfinder.APIError
	if !errors.As(err, &apiErr) {
		p.logger.Error("anymailfinder lookup failed, falling back to simulation", zap.Error(err))
		return p.fallback.Enrich(ctx, email)
	}

	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		p.logger.Error("anymailfinder rejected the api key, falling back to simulation")
		return p.fallback.Enrich(ctx, email)

	case http.StatusPaymentRequired:
		p.logger.Error("anymailfinder: insufficient credits or payment required")
		return entity.EnrichmentFailure(ReasonInsufficientCredits, entity.SourceAPI)

	case http.StatusForbidden:
		p.logger.Error("anymailfinder: access forbidden", zap.String("message", apiErr.Message))
		reason := apiErr.Message
		if reason == "" {
			reason = ReasonForbidden
		}
		return entity.EnrichmentFailure(reason, entity.SourceAPI)

	case http.StatusTooManyRequests:
		p.logger.Error("anymailfinder: rate limit exceeded")
		return entity.EnrichmentFailure(ReasonRateLimited, entity.SourceAPI)

	default:
		p.logger.Error("anymailfinder unexpected status, falling back to simulation",
			zap.Int("status", apiErr.StatusCode),
		)
		return p.fallback.Enrich(ctx, email)
	}
}
