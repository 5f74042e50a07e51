package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
var ErrNotFound = errors.New("record not found")

// ConstraintKind tells which integrity rule the database rejected a write with.
type ConstraintKind int

const (
	ConstraintReference ConstraintKind = iota + 1
	ConstraintUnique
	ConstraintNotNull
	ConstraintCheck
	ConstraintInvalidText
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintReference:
		return "reference"
	case ConstraintUnique:
		return "unique"
	case ConstraintNotNull:
		return "not_null"
	case ConstraintCheck:
		return "check"
	case ConstraintInvalidText:
		return "invalid_text"
	default:
		return "unknown"
	}
}

// PostgreSQL SQLSTATE codes
const (
	codeForeignKeyViolation       pq.ErrorCode = "23503"
	codeUniqueViolation           pq.ErrorCode = "23505"
	codeNotNullViolation          pq.ErrorCode = "23502"
	codeCheckViolation            pq.ErrorCode = "23514"
	codeInvalidTextRepresentation pq.ErrorCode = "22P02"
)

// ConstraintError is a write rejected by the storage engine's integrity checks.
type ConstraintError struct {
	Kind       ConstraintKind
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %q violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a ConstraintError of the given kind.
func IsConstraint(err error, kind ConstraintKind) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Kind == kind
}

// classify converts driver errors into ErrNotFound or *ConstraintError.
// Anything else is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	var kind ConstraintKind
	switch pqErr.Code {
	case codeForeignKeyViolation:
		kind = ConstraintReference
	case codeUniqueViolation:
		kind = ConstraintUnique
	case codeNotNullViolation:
		kind = ConstraintNotNull
	case codeCheckViolation:
		kind = ConstraintCheck
	case codeInvalidTextRepresentation:
		kind = ConstraintInvalidText
	default:
		return err
	}

	return &ConstraintError{
		Kind:       kind,
		Table:      pqErr.Table,
		Constraint: pqErr.Constraint,
		Err:        err,
	}
}
