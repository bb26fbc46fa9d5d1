package usecase

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/xavierca1/lead-intake/internal/entity"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeDatabaseConnection = "DATABASE_CONNECTION_ERROR"
	CodeDatabaseSchema     = "DATABASE_SCHEMA_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
)

// DomainError is a problem with the caller's input. Resubmitting corrected
// input fixes it.
type DomainError struct {
	Code    string
	Message string
	Details []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure the caller cannot fix.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func newDuplicateError() *DomainError {
	return &DomainError{
		Code:    CodeDuplicateEmail,
		Message: "a lead with this email already exists",
	}
}

// storageError separates connectivity from schema problems since the
// operator fixes them differently.
func storageError(message string, err error) *TechnicalError {
	switch {
	case eris.Is(err, entity.ErrStorageUnavailable):
		return &TechnicalError{
			Code:    CodeDatabaseConnection,
			Message: "unable to connect to the database, check DATABASE_URL",
			Err:     err,
		}
	case eris.Is(err, entity.ErrSchemaNotProvisioned):
		return &TechnicalError{
			Code:    CodeDatabaseSchema,
			Message: "database tables do not exist, run the migrations",
			Err:     err,
		}
	default:
		return &TechnicalError{
			Code:    CodeDatabase,
			Message: message,
			Err:     err,
		}
	}
}
