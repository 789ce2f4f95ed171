package service

import (
	"errors"
	"fmt"

	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
)

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Error carries a client-facing message next to its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func notFoundError(entity string, id uint) error {
	return newError(ErrNotFound, "%s %d not found", entity, id)
}

// mapRepoError turns repository sentinels into service kinds. entity names
// the record being written or read.
func mapRepoError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrNotFound, "%s not found", entity)
	case errors.Is(err, repository.ErrDuplicateEntry):
		return newError(ErrConflict, "%s already exists", entity)
	case errors.Is(err, repository.ErrInvalidReference):
		return newError(ErrValidation, "%s references a record that does not exist", entity)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
