package database

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/xavierca1/lead-intake/internal/entity"
)

var leadColumns = []string{
	"id", "name", "email", "website",
	"company_name", "company_size", "industry", "country",
	"score", "qualified", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type LeadRepository struct {
	Pool Pool
	now  func() time.Time
}

func NewLeadRepository(pool Pool) *LeadRepository {
	return &LeadRepository{Pool: pool, now: time.Now}
}

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query, args, err := psql.Select(leadColumns...).
		From("leads").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, classify(err, "postgres: build find by email")
	}

	var lead entity.Lead
	err = scanLead(r.Pool.QueryRow(ctx, query, args...), &lead)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "postgres: find lead by email")
	}
	return &lead, nil
}

// Create assigns the ID and timestamps, then inserts the lead.
func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	id := uuid.New().String()
	now := r.now().UTC()

	query, args, err := psql.Insert("leads").
		Columns(leadColumns...).
		Values(
			id, lead.Name, lead.Email, lead.Website,
			lead.CompanyName, lead.CompanySize, lead.Industry, lead.Country,
			lead.Score, lead.Qualified, now, now,
		).
		ToSql()
	if err != nil {
		return classify(err, "postgres: build insert lead")
	}

	if _, err := r.Pool.Exec(ctx, query, args...); err != nil {
		return classify(err, "postgres: insert lead")
	}

	lead.ID = id
	lead.CreatedAt = now
	lead.UpdatedAt = now
	return nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	builder := psql.Select(leadColumns...).From("leads")
	if filter.QualifiedOnly {
		builder = builder.Where(sq.Eq{"qualified": true})
	}
	if filter.Sort == entity.SortByScore {
		builder = builder.OrderBy("score DESC", "created_at DESC")
	} else {
		builder = builder.OrderBy("created_at DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, classify(err, "postgres: build list leads")
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "postgres: list leads")
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var lead entity.Lead
		if err := scanLead(rows, &lead); err != nil {
			return nil, classify(err, "postgres: scan lead")
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "postgres: iterate leads")
	}

	return leads, nil
}

// Ping reports whether the database answers.
func (r *LeadRepository) Ping(ctx context.Context) error {
	return classify(r.Pool.Ping(ctx), "postgres: ping")
}

func scanLead(row pgx.Row, lead *entity.Lead) error {
	return row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Website,
		&lead.CompanyName,
		&lead.CompanySize,
		&lead.Industry,
		&lead.Country,
		&lead.Score,
		&lead.Qualified,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}
