package entity

import (
	"context"
	"time"
)

type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Website     *string   `json:"website"`
	CompanyName *string   `json:"companyName"`
	CompanySize *string   `json:"companySize"`
	Industry    *string   `json:"industry"`
	Country     *string   `json:"country"`
	Score       int       `json:"score"`
	Qualified   bool      `json:"qualified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewLead builds an unsaved lead from the submission, whatever enrichment
// was obtained and the computed score. ID and timestamps are left to storage.
func NewLead(name, email, website string, data *EnrichmentData, score int) *Lead {
	lead := &Lead{
		Name:      name,
		Email:     email,
		Website:   nullString(website),
		Score:     score,
		Qualified: IsQualified(score),
	}

	if data != nil {
		lead.CompanyName = nullString(data.CompanyName)
		lead.CompanySize = nullString(data.CompanySize)
		lead.Industry = nullString(data.Industry)
		lead.Country = nullString(data.Country)
	}

	return lead
}

// Enrichment returns the enrichment fields stored on the lead, or nil when
// none were obtained.
func (l *Lead) Enrichment() *EnrichmentData {
	data := EnrichmentData{
		CompanyName: deref(l.CompanyName),
		CompanySize: deref(l.CompanySize),
		Industry:    deref(l.Industry),
		Country:     deref(l.Country),
	}
	if data.Empty() {
		return nil
	}
	return &data
}

type LeadSort string

const (
	SortByCreatedAt LeadSort = "createdAt"
	SortByScore     LeadSort = "score"
)

type LeadFilter struct {
	QualifiedOnly bool
	Sort          LeadSort
}

type LeadRepositoryInterface interface {
	// FindByEmail returns nil, nil when no lead has the email.
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	Create(ctx context.Context, lead *Lead) error
	List(ctx context.Context, filter LeadFilter) ([]Lead, error)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
