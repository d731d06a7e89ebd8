package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/repository"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// NotFoundError names the missing entity. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports malformed input at the service boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// InsufficientStockWarning is returned next to a successful adjustment that had to clamp at zero.
type InsufficientStockWarning struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
	Unit      string          `json:"unit,omitempty"`
}

func (w InsufficientStockWarning) String() string {
	return fmt.Sprintf("only %s %s of %s available, %s requested", w.Available, w.Unit, w.ItemName, w.Requested)
}

func notFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// lookupErr turns a repository miss into a NotFoundError and wraps anything else.
func lookupErr(err error, entity string, id interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(entity, id)
	}
	return fmt.Errorf("failed to load %s: %w", entity, err)
}
