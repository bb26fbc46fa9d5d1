package usecase

import (
	"strings"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type CreateLeadInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Website string `json:"website" validate:"omitempty,http_url"`
}

func (in CreateLeadInput) normalized() CreateLeadInput {
	return CreateLeadInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Website: strings.TrimSpace(in.Website),
	}
}

// EnrichmentStatus tells the caller how the enrichment attempt went.
// Attempted is always true since every intake enriches.
type EnrichmentStatus struct {
	Attempted bool                    `json:"attempted"`
	Success   bool                    `json:"success"`
	Source    entity.EnrichmentSource `json:"source,omitempty"`
	Reason    string                  `json:"reason,omitempty"`
}

type CreateLeadOutput struct {
	Lead       *entity.Lead     `json:"lead"`
	Enrichment EnrichmentStatus `json:"enrichment"`
}

type ListLeadsInput struct {
	QualifiedOnly bool
	SortBy        string
}

type ListLeadsOutput struct {
	Leads []entity.Lead `json:"leads"`
}
