// Package validation holds the whitelists the builder checks fluent input
// against before anything is appended to the clause model: predicate
// operators, join types and order directions.
//
// Every check is case-insensitive and trims surrounding whitespace. A failed
// check returns an *OperatorError that matches one of the package sentinels
// through errors.Is.
package validation

import (
	"errors"
	"strings"
)

// Sentinels re-exported by the root package.
var (
	ErrInvalidOperator       = errors.New("fluentquery: invalid SQL operator")
	ErrInvalidJoinType       = errors.New("fluentquery: invalid join type")
	ErrInvalidOrderDirection = errors.New("fluentquery: invalid order direction")
)

// allowedOperators lists the predicate operators accepted by where/having.
var allowedOperators = map[string]bool{
	// comparison
	"=":  true,
	"<>": true,
	"!=": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,

	// pattern
	"LIKE": true,

	// set and range
	"IN":      true,
	"NOT IN":  true,
	"BETWEEN": true,

	// null checks, these take no value
	"IS NULL":     true,
	"IS NOT NULL": true,
}

var allowedJoinTypes = map[string]bool{
	"INNER": true,
	"LEFT":  true,
	"RIGHT": true,
	"FULL":  true,
}

var allowedDirections = map[string]bool{
	"ASC":  true,
	"DESC": true,
}

// Kind tells which whitelist rejected a token.
type Kind int

const (
	KindOperator Kind = iota
	KindJoinType
	KindDirection
)

func (k Kind) String() string {
	switch k {
	case KindJoinType:
		return "join type"
	case KindDirection:
		return "order direction"
	default:
		return "operator"
	}
}

// OperatorError reports a token that is not on its whitelist.
type OperatorError struct {
	Token  string
	Kind   Kind
	Reason string
}

// Error implements the error interface.
func (e *OperatorError) Error() string {
	return "fluentquery: invalid " + e.Kind.String() + " '" + e.Token + "': " + e.Reason
}

// Is maps the error onto the sentinel of its whitelist.
func (e *OperatorError) Is(target error) bool {
	switch e.Kind {
	case KindJoinType:
		return target == ErrInvalidJoinType
	case KindDirection:
		return target == ErrInvalidOrderDirection
	default:
		return target == ErrInvalidOperator
	}
}

func normalize(token string) string {
	return strings.ToUpper(strings.Join(strings.Fields(token), " "))
}

// NormalizeOperator returns the canonical upper-case form of op, or an error
// when op is not an allowed predicate operator.
func NormalizeOperator(op string) (string, error) {
	normalized := normalize(op)
	if !allowedOperators[normalized] {
		return "", &OperatorError{Token: op, Kind: KindOperator, Reason: "operator not in allowed list"}
	}
	return normalized, nil
}

// ValidateOperator checks op against the operator whitelist.
func ValidateOperator(op string) error {
	_, err := NormalizeOperator(op)
	return err
}

// IsOperator reports whether v is a string naming an allowed operator. The
// two-argument where shorthand relies on it to tell an operator from a value.
func IsOperator(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return allowedOperators[normalize(s)]
}

// IsNullOperator reports whether op is IS NULL or IS NOT NULL.
func IsNullOperator(op string) bool {
	normalized := normalize(op)
	return normalized == "IS NULL" || normalized == "IS NOT NULL"
}

// IsSetOperator reports whether op is IN or NOT IN.
func IsSetOperator(op string) bool {
	normalized := normalize(op)
	return normalized == "IN" || normalized == "NOT IN"
}

// NormalizeJoinType validates and upper-cases a join type token.
func NormalizeJoinType(typ string) (string, error) {
	normalized := normalize(typ)
	if !allowedJoinTypes[normalized] {
		return "", &OperatorError{Token: typ, Kind: KindJoinType, Reason: "join type not in allowed list"}
	}
	return normalized, nil
}

// NormalizeDirection validates and upper-cases an ORDER BY direction. An
// empty direction means ASC.
func NormalizeDirection(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "ASC", nil
	}
	normalized := normalize(dir)
	if !allowedDirections[normalized] {
		return "", &OperatorError{Token: dir, Kind: KindDirection, Reason: "direction must be ASC or DESC"}
	}
	return normalized, nil
}

// AllowedOperators returns the operator whitelist, mostly for error messages
// and documentation.
func AllowedOperators() []string {
	ops := make([]string, 0, len(allowedOperators))
	for op := range allowedOperators {
		ops = append(ops, op)
	}
	return ops
}
