// Package apperr holds the error taxonomy shared by the repositories and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotFoundError: the addressed record does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// ReferenceError: a write would break referential integrity, either by
// pointing at a missing row or by deleting a referenced one.
type ReferenceError struct {
	Message string
}

func (e *ReferenceError) Error() string {
	return e.Message
}

// ValidationError: the payload is malformed or out of range.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func Reference(format string, args ...any) error {
	return &ReferenceError{Message: fmt.Sprintf(format, args...)}
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Status maps err to its HTTP status code and client-facing detail. ok is
// false for errors outside the taxonomy.
func Status(err error) (code int, detail string, ok bool) {
	var nf *NotFoundError
	var ref *ReferenceError
	var val *ValidationError
	var fe *fiber.Error

	switch {
	case errors.As(err, &nf):
		return fiber.StatusNotFound, nf.Error(), true
	case errors.As(err, &ref):
		return fiber.StatusBadRequest, ref.Error(), true
	case errors.As(err, &val):
		return fiber.StatusUnprocessableEntity, val.Error(), true
	case errors.As(err, &fe):
		return fe.Code, fe.Message, true
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "record not found", true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fiber.StatusBadRequest, "referential integrity violated", true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusBadRequest, "duplicate key", true
	}
	return fiber.StatusInternalServerError, "internal server error", false
}
