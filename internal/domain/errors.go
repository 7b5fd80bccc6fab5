package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotPersisted       = errors.New("record has not been persisted")
	ErrAlreadyPersisted   = errors.New("record is already persisted")
	ErrReferentialFailure = errors.New("referential integrity violation")
)
