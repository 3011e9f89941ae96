package service

import (
	"errors"
	"fmt"
	"strings"

	"codboost/internal/repository"
)

var (
	ErrNotFound = errors.New("order not found")

	// ErrPersistence marks a local store failure. It is fatal to the
	// request: no remote call is attempted after it.
	ErrPersistence = errors.New("persistence failure")

	ErrInvalidTransition = repository.ErrInvalidTransition
)

// ValidationError carries the fields a submission violated. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}
