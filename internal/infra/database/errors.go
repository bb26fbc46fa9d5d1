package database

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const (
	uniqueViolation = "23505"
	undefinedTable  = "42P01"
	undefinedColumn = "42703"
	invalidSchema   = "3F000"
)

// SQLSTATE prefixes for a server that cannot take requests right now.
var unavailableClasses = []string{"08", "28", "53", "57P"}

// classify maps driver errors onto the storage sentinels in entity. Errors
// that fit none of them are wrapped unchanged.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return eris.Wrapf(entity.ErrEmailAlreadyExists, "%s: %s", op, pgErr.ConstraintName)
		case undefinedTable, undefinedColumn, invalidSchema:
			return eris.Wrapf(entity.ErrSchemaNotProvisioned, "%s: %s", op, pgErr.Message)
		}
		for _, class := range unavailableClasses {
			if strings.HasPrefix(pgErr.Code, class) {
				return eris.Wrapf(entity.ErrStorageUnavailable, "%s: %s", op, pgErr.Message)
			}
		}
		return eris.Wrap(err, op)
	}

	if isConnectivity(err) {
		return eris.Wrapf(entity.ErrStorageUnavailable, "%s: %v", op, err)
	}

	return eris.Wrap(err, op)
}

func isConnectivity(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "closed pool")
}
