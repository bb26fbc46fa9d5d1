package database

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/entity"
)

func newMockRepository(t *testing.T) (*LeadRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(
		pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewLeadRepository(mock), mock
}

func ptr(s string) *string { return &s }

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func leadRows() *pgxmock.Rows {
	return pgxmock.NewRows(leadColumns)
}

func TestFindByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT id, name, email, .* FROM leads WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	lead, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, lead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM leads WHERE email = \$1`).
		WithArgs("jane@techcorp.com").
		WillReturnRows(leadRows().AddRow(
			"lead-1", "Jane", "jane@techcorp.com", (*string)(nil),
			ptr("TechCorp"), ptr("11-50"), ptr("Technology"), ptr("US"),
			30, true, fixedTime, fixedTime,
		))

	lead, err := repo.FindByEmail(context.Background(), "jane@techcorp.com")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Nil(t, lead.Website)
	assert.Equal(t, "TechCorp", *lead.CompanyName)
	assert.True(t, lead.Qualified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailMissingTable(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`FROM leads`).
		WithArgs("jane@techcorp.com").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "leads" does not exist`})

	_, err := repo.FindByEmail(context.Background(), "jane@techcorp.com")
	require.Error(t, err)
	assert.True(t, eris.Is(err, entity.ErrSchemaNotProvisioned))
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo, mock := newMockRepository(t)
	repo.now = func() time.Time { return fixedTime }

	lead := entity.NewLead("Jane", "jane@techcorp.com", "https://techcorp.com", nil, 0)

	mock.ExpectExec(`INSERT INTO leads \(id,name,email,website,.*\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8,\$9,\$10,\$11,\$12\)`).
		WithArgs(
			pgxmock.AnyArg(), "Jane", "jane@techcorp.com", lead.Website,
			lead.CompanyName, lead.CompanySize, lead.Industry, lead.Country,
			0, false, fixedTime, fixedTime,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, fixedTime, lead.CreatedAt)
	assert.Equal(t, fixedTime, lead.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "leads_email_key"})

	lead := entity.NewLead("Jane", "jane@techcorp.com", "", nil, 0)
	err := repo.Create(context.Background(), lead)

	require.Error(t, err)
	assert.True(t, eris.Is(err, entity.ErrEmailAlreadyExists))
	assert.Empty(t, lead.ID)
}

func TestListQueries(t *testing.T) {
	tests := []struct {
		name   string
		filter entity.LeadFilter
		query  string
		args   []any
	}{
		{
			name:   "all leads newest first",
			filter: entity.LeadFilter{Sort: entity.SortByCreatedAt},
			query:  `FROM leads ORDER BY created_at DESC$`,
		},
		{
			name:   "qualified by score",
			filter: entity.LeadFilter{QualifiedOnly: true, Sort: entity.SortByScore},
			query:  `FROM leads WHERE qualified = \$1 ORDER BY score DESC, created_at DESC$`,
			args:   []any{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			rows := leadRows().
				AddRow("a", "Ann", "ann@x.com", (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), 40, true, fixedTime, fixedTime).
				AddRow("b", "Bob", "bob@x.com", ptr("https://x.com"), (*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), 25, true, fixedTime, fixedTime)

			expect := mock.ExpectQuery(tt.query)
			if tt.args != nil {
				expect = expect.WithArgs(tt.args...)
			}
			expect.WillReturnRows(rows)

			leads, err := repo.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, leads, 2)
			assert.Equal(t, "a", leads[0].ID)
			assert.Equal(t, "https://x.com", *leads[1].Website)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListEmpty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM leads`).WillReturnRows(leadRows())

	leads, err := repo.List(context.Background(), entity.LeadFilter{})
	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
}

func TestPing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})
	err := repo.Ping(context.Background())
	assert.True(t, eris.Is(err, entity.ErrStorageUnavailable))
}

func TestMigrate(t *testing.T) {
	_, mock := newMockRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWhenReadyRetriesUntilReachable(t *testing.T) {
	_, mock := newMockRepository(t)

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).WillReturnError(refused)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).WillReturnError(refused)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	err := MigrateWhenReady(context.Background(), mock, time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWhenReadyStopsOnOtherErrors(t *testing.T) {
	_, mock := newMockRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for schema public"})

	err := MigrateWhenReady(context.Background(), mock, time.Millisecond, zap.NewNop())
	require.Error(t, err)
	assert.False(t, eris.Is(err, entity.ErrStorageUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateWhenReadyHonoursCancel(t *testing.T) {
	_, mock := newMockRepository(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS leads`).
		WillReturnError(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := MigrateWhenReady(ctx, mock, time.Hour, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, entity.ErrEmailAlreadyExists},
		{"undefined column", &pgconn.PgError{Code: "42703"}, entity.ErrSchemaNotProvisioned},
		{"invalid schema", &pgconn.PgError{Code: "3F000"}, entity.ErrSchemaNotProvisioned},
		{"connection exception", &pgconn.PgError{Code: "08006"}, entity.ErrStorageUnavailable},
		{"bad password", &pgconn.PgError{Code: "28P01"}, entity.ErrStorageUnavailable},
		{"too many connections", &pgconn.PgError{Code: "53300"}, entity.ErrStorageUnavailable},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, entity.ErrStorageUnavailable},
		{"deadline", context.DeadlineExceeded, entity.ErrStorageUnavailable},
		{"closed pool", errors.New("closed pool"), entity.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err, "op")
			assert.True(t, eris.Is(err, tt.sentinel), "got %v", err)
		})
	}

	t.Run("other errors stay unclassified", func(t *testing.T) {
		err := classify(&pgconn.PgError{Code: "22001"}, "op")
		assert.False(t, eris.Is(err, entity.ErrEmailAlreadyExists))
		assert.False(t, eris.Is(err, entity.ErrSchemaNotProvisioned))
		assert.False(t, eris.Is(err, entity.ErrStorageUnavailable))
	})

	assert.NoError(t, classify(nil, "op"))
}
