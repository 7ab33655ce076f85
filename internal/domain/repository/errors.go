package repository

import "errors"

// Errores sentinela del storage. Los services los traducen a su propia
// taxonomía; nunca llegan crudos al cliente HTTP.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrAlreadyRevoked  = errors.New("session already revoked")
	ErrBasePlanMissing = errors.New("base plan not seeded")
)
