package service

import (
	"errors"
	"fmt"

	"retail-backoffice/internal/model"
	"retail-backoffice/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrConcurrencyExhausted = errors.New("concurrency exhausted")
	ErrUnimplemented        = errors.New("unimplemented")
	ErrInvalidCredentials   = errors.New("invalid employee id or pin")
	ErrForbidden            = errors.New("forbidden")
)

// NotFoundError names the entity kind and the id that did not resolve
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s was not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(kind string, id uuid.UUID) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidArgumentError carries field level failures when they come from struct validation
type InvalidArgumentError struct {
	Reason  string
	Details []*validator.ErrorResponse
}

func (e *InvalidArgumentError) Error() string { return e.Reason }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(format string, args ...interface{}) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// validate runs struct validation and folds failures into an InvalidArgumentError
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	first := errs[0]
	return &InvalidArgumentError{
		Reason:  fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag),
		Details: errs,
	}
}

// ConcurrencyExhaustedError is returned after the last reconciliation attempt lost its race.
// SaleID points at the already persisted sale, which has been demoted to pending.
type ConcurrencyExhaustedError struct {
	ProductID uuid.UUID
	Location  model.Location
	SaleID    uuid.UUID
}

func (e *ConcurrencyExhaustedError) Error() string {
	return fmt.Sprintf("inventory for product %s at %s kept changing; sale %s recorded as pending",
		e.ProductID, e.Location, e.SaleID)
}

func (e *ConcurrencyExhaustedError) Is(target error) bool { return target == ErrConcurrencyExhausted }

type UnimplementedError struct {
	Feature string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.Feature)
}

func (e *UnimplementedError) Is(target error) bool { return target == ErrUnimplemented }
