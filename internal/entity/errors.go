package entity

import "github.com/rotisserie/eris"

var (
	ErrEmailAlreadyExists   = eris.New("lead with this email already exists")
	ErrStorageUnavailable   = eris.New("storage unavailable")
	ErrSchemaNotProvisioned = eris.New("storage schema not provisioned")
)
