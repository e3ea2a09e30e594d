package pocketbase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrPersistence  = errors.New("persistence request failed")
)

// UnauthorizedError is returned when the token is missing, expired, or
// rejected by the server.
type UnauthorizedError struct {
	Reason string
	Status int // 0 when detected locally
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// PersistenceError is any other failed request to the backend.
type PersistenceError struct {
	Op      string
	Status  int // 0 for transport failures
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
