package repository

import "errors"

var (
	// ErrNotFound indicates no record matched the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a write violated a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")
	// ErrDuplicateParticipant indicates the user is already on the participant list.
	ErrDuplicateParticipant = errors.New("participant already registered")
)
