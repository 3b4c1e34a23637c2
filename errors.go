package fluentquery

import (
	"errors"

	"github.com/biyonik/go-fluent-query/dialect"
	"github.com/biyonik/go-fluent-query/internal/validation"
)

// Sentinel errors for go-fluent-query.
// These errors can be checked using errors.Is().
var (
	// ErrInvalidOperator is returned when a predicate operator is not on the whitelist.
	ErrInvalidOperator = validation.ErrInvalidOperator

	// ErrInvalidJoinType is returned when a join type is not INNER, LEFT, RIGHT or FULL.
	ErrInvalidJoinType = validation.ErrInvalidJoinType

	// ErrInvalidOrderDirection is returned when an ORDER BY direction is not ASC or DESC.
	ErrInvalidOrderDirection = validation.ErrInvalidOrderDirection

	// ErrInvalidRangeArity is returned when a BETWEEN helper doesn't receive exactly 2 values.
	ErrInvalidRangeArity = errors.New("fluentquery: BETWEEN requires exactly 2 values")

	// ErrEmptyWhereIn is returned when WhereIn is called with an empty slice.
	ErrEmptyWhereIn = errors.New("fluentquery: empty value list passed to IN")

	// ErrInvalidArgument is returned when a fluent call receives arguments of the wrong shape.
	ErrInvalidArgument = errors.New("fluentquery: invalid argument")

	// ErrNoTable is returned when a query is compiled without a table.
	ErrNoTable = errors.New("fluentquery: no table specified")

	// ErrEmptyInsertPayload is returned when an insert has no row data.
	ErrEmptyInsertPayload = errors.New("fluentquery: insert requires at least one row")

	// ErrEmptyUpdatePayload is returned when an update has no columns to set.
	ErrEmptyUpdatePayload = errors.New("fluentquery: update requires at least one column")

	// ErrEmptyUpsertPayload is returned when an upsert has no row data.
	ErrEmptyUpsertPayload = dialect.ErrEmptyUpsertPayload

	// ErrUnconditionalDeleteForbidden is returned when a delete has no WHERE condition.
	ErrUnconditionalDeleteForbidden = errors.New("fluentquery: delete without WHERE is forbidden")

	// ErrUnsupportedDriver is returned when an upsert targets a driver without an adapter.
	ErrUnsupportedDriver = dialect.ErrUnsupportedDriver

	// ErrUndefinedMethod is returned by Call when no extension provides the method.
	ErrUndefinedMethod = errors.New("fluentquery: undefined method")
)

// QueryError wraps an error with the operation and table it happened on.
type QueryError struct {
	Err     error
	Op      string
	Table   string
	Message string
}

func (e *QueryError) Error() string {
	msg := "fluentquery: " + e.Op
	if e.Table != "" {
		msg += " on '" + e.Table + "'"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(op, table string, err error, message string) *QueryError {
	return &QueryError{
		Err:     err,
		Op:      op,
		Table:   table,
		Message: message,
	}
}
