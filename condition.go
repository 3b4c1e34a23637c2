package fluentquery

import (
	"strings"

	"github.com/samber/lo"
)

// Logical connects a condition to the one before it.
type Logical string

const (
	And Logical = "AND"
	Or  Logical = "OR"
)

// ConditionKind tags a Condition entry.
type ConditionKind int

const (
	// Predicate is a "field operator value" comparison or a raw fragment.
	Predicate ConditionKind = iota
	// GroupOpen opens a parenthesised group, optionally behind a prefix
	// such as EXISTS.
	GroupOpen
	// GroupClose closes the innermost open group.
	GroupClose
)

func (k ConditionKind) String() string {
	switch k {
	case GroupOpen:
		return "group_open"
	case GroupClose:
		return "group_close"
	default:
		return "predicate"
	}
}

// Condition is one entry of a WHERE or HAVING list.
//
// Value holds either a placeholder token or a raw fragment; the renderer
// never inspects it.
type Condition struct {
	Kind     ConditionKind
	Logical  Logical
	Field    string
	Operator string
	Value    string
	Prefix   string
}

// render returns the SQL of the entry. first suppresses the connector.
func (c Condition) render(first bool) string {
	var connector string
	if !first && c.Logical != "" {
		connector = string(c.Logical) + " "
	}

	switch c.Kind {
	case GroupOpen:
		if c.Prefix != "" {
			return connector + c.Prefix + " ("
		}
		return connector + "("
	case GroupClose:
		return ")"
	default:
		parts := lo.Filter([]string{c.Field, c.Operator, c.Value}, func(s string, _ int) bool {
			return s != ""
		})
		return connector + strings.Join(parts, " ")
	}
}

// renderConditions joins a condition list into a predicate chain.
func renderConditions(conds []Condition) string {
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = c.render(i == 0)
	}
	return strings.Join(out, " ")
}
