package usecase

import (
	"context"

	"github.com/xavierca1/lead-intake/internal/entity"
)

type ListLeadsUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

// Execute never returns a nil slice so the JSON body is always an array.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	filter := entity.LeadFilter{
		QualifiedOnly: input.QualifiedOnly,
		Sort:          entity.SortByCreatedAt,
	}
	if input.SortBy == string(entity.SortByScore) {
		filter.Sort = entity.SortByScore
	}

	leads, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, storageError("failed to fetch leads", err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}

	return &ListLeadsOutput{Leads: leads}, nil
}
