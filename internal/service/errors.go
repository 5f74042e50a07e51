package service

import (
	"errors"
	"fmt"
	"strings"

	"warehouse-service/internal/store"
	"warehouse-service/internal/util"
)

// Kind classifies a failed operation for the transport layer
type Kind int

const (
	KindValidation Kind = iota + 1
	KindReference
	KindUniqueness
	KindDependency
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindReference:
		return "reference"
	case KindUniqueness:
		return "uniqueness"
	case KindDependency:
		return "dependency"
	case KindNotFound:
		return "not_found"
	default:
		return "storage"
	}
}

// Error is the domain error every service returns
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a service error; anything else is a storage failure.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStorage
}

func missingFields(fields ...string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "missing required fields: " + strings.Join(fields, ", "),
	}
}

func invalid(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// failure holds the messages an operation reports for each storage outcome.
type failure struct {
	notFound  string
	reference string // write names a row that does not exist
	dependent string // delete target is still referenced elsewhere
	duplicate string
}

func (f failure) wrap(err error) error {
	if err == nil {
		return nil
	}

	var ce *store.ConstraintError
	if errors.As(err, &ce) {
		util.ConstraintViolationsTotal.WithLabelValues(ce.Kind.String()).Inc()
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return &Error{Kind: KindNotFound, Message: orDefault(f.notFound, "record not found")}
	case store.IsConstraint(err, store.ConstraintReference):
		if f.dependent != "" {
			return &Error{Kind: KindDependency, Message: f.dependent, Err: err}
		}
		return &Error{Kind: KindReference, Message: orDefault(f.reference, "referenced record not found"), Err: err}
	case store.IsConstraint(err, store.ConstraintUnique):
		return &Error{Kind: KindUniqueness, Message: orDefault(f.duplicate, "record already exists"), Err: err}
	case store.IsConstraint(err, store.ConstraintNotNull),
		store.IsConstraint(err, store.ConstraintCheck),
		store.IsConstraint(err, store.ConstraintInvalidText):
		return &Error{Kind: KindValidation, Message: "invalid field value", Err: err}
	default:
		return &Error{Kind: KindStorage, Message: "storage failure", Err: err}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
