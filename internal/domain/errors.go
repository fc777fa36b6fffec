package domain

import "errors"

var (
	ErrMissingActorID     = errors.New("actor id is required")
	ErrUnencodablePayload = errors.New("payload cannot be stored as JSON")
	ErrEventNotFound      = errors.New("memory event not found")
	ErrEventKeyCollision  = errors.New("memory event key already exists")
	ErrMalformedSnapshot  = errors.New("malformed world state snapshot")
)
