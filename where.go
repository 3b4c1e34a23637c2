package fluentquery

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"

	"github.com/biyonik/go-fluent-query/internal/validation"
)

// clause names the condition list a predicate is appended to.
type clause int

const (
	whereClause clause = iota
	havingClause
)

func (c clause) String() string {
	if c == havingClause {
		return "having"
	}
	return "where"
}

func (b *Builder) list(c clause) *[]Condition {
	if c == havingClause {
		return &b.havings
	}
	return &b.wheres
}

func (b *Builder) push(c clause, conds ...Condition) {
	l := b.list(c)
	*l = append(*l, conds...)
}

// fullTextModes maps WhereFullText modes to their AGAINST modifier.
var fullTextModes = map[string]string{
	"BOOLEAN": "IN BOOLEAN MODE",
	"NATURAL": "IN NATURAL LANGUAGE MODE",
	"QUERY":   "WITH QUERY EXPANSION",
}

// ----------------------------------------------------------------------------
// where / having
// ----------------------------------------------------------------------------

// Where adds a predicate joined with AND.
//
//	Where("status", "active")          // status = ?
//	Where("age", ">", 18)              // age > ?
//	Where("deleted_at", "IS NULL")     // deleted_at IS NULL
//	Where("id", "IN", []int{1, 2})     // id IN ( ?, ? )
//	Where("posts.user_id", "=", "users.id") // compared as columns
//	Where(func(q *Builder) { ... })    // ( ... )
//
// A string value containing a backtick or a dot is taken as a column
// reference and written verbatim. Use WhereRaw or a bound helper such as
// WhereLike when such a string is a literal.
func (b *Builder) Where(column any, args ...any) *Builder {
	return b.predicate(whereClause, And, column, args)
}

// OrWhere is Where joined with OR.
func (b *Builder) OrWhere(column any, args ...any) *Builder {
	return b.predicate(whereClause, Or, column, args)
}

// Having is Where for the HAVING list.
func (b *Builder) Having(column any, args ...any) *Builder {
	return b.predicate(havingClause, And, column, args)
}

// OrHaving is Having joined with OR.
func (b *Builder) OrHaving(column any, args ...any) *Builder {
	return b.predicate(havingClause, Or, column, args)
}

func (b *Builder) predicate(c clause, logical Logical, column any, args []any) *Builder {
	if fn, ok := column.(func(*Builder)); ok {
		if len(args) != 0 {
			return b.fail(c.String(), ErrInvalidArgument)
		}
		return b.group(c, logical, "", fn)
	}

	col, ok := column.(string)
	if !ok || col == "" {
		return b.fail(c.String(), ErrInvalidArgument)
	}

	switch len(args) {
	case 1:
		if op, isOp := args[0].(string); isOp && validation.IsNullOperator(op) {
			return b.condition(c, logical, col, op, nil, false)
		}
		if validation.IsOperator(args[0]) {
			return b.fail(c.String(), ErrInvalidArgument)
		}
		return b.condition(c, logical, col, "=", args[0], false)
	case 2:
		op, isOp := args[0].(string)
		if !isOp {
			return b.fail(c.String(), ErrInvalidOperator)
		}
		return b.condition(c, logical, col, op, args[1], false)
	default:
		return b.fail(c.String(), ErrInvalidArgument)
	}
}

// condition validates operator and appends the predicate it describes.
func (b *Builder) condition(c clause, logical Logical, column, operator string, value any, raw bool) *Builder {
	op, err := validation.NormalizeOperator(operator)
	if err != nil {
		return b.fail(c.String(), err)
	}

	switch {
	case validation.IsNullOperator(op):
		b.push(c, Condition{Kind: Predicate, Logical: logical, Field: column, Operator: op})
		return b
	case validation.IsSetOperator(op):
		return b.in(c, logical, column, op, value)
	case op == "BETWEEN":
		values, ok := toSlice(value)
		if !ok {
			values = []any{value}
		}
		return b.between(c, logical, column, op, values)
	}

	frag, err := b.operand(value, raw)
	if err != nil {
		return b.fail(c.String(), err)
	}
	b.push(c, Condition{Kind: Predicate, Logical: logical, Field: column, Operator: op, Value: frag})
	return b
}

// operand turns a predicate value into SQL text: a raw fragment, a
// sub-query, a verbatim column reference or a placeholder.
func (b *Builder) operand(value any, raw bool) (string, error) {
	if raw {
		return fmt.Sprint(value), nil
	}
	if r, ok := value.(Raw); ok {
		return r.expand(b.bindings)
	}
	if sub, ok := value.(*Builder); ok {
		sql, err := b.subquery(sub)
		if err != nil {
			return "", err
		}
		return "( " + sql + " )", nil
	}
	if s, ok := value.(string); ok && isColumnReference(s) {
		return s, nil
	}
	return b.bindings.Bind(value), nil
}

func isColumnReference(s string) bool {
	return strings.ContainsAny(s, "`.")
}

// ----------------------------------------------------------------------------
// Column comparisons and raw fragments
// ----------------------------------------------------------------------------

// WhereColumn compares two columns. Nothing is bound.
func (b *Builder) WhereColumn(first, operator, second string) *Builder {
	return b.condition(whereClause, And, first, operator, second, true)
}

// OrWhereColumn is WhereColumn joined with OR.
func (b *Builder) OrWhereColumn(first, operator, second string) *Builder {
	return b.condition(whereClause, Or, first, operator, second, true)
}

// WhereRaw appends expr verbatim. Each "?" in expr is replaced by a
// placeholder for the matching binding.
//
//	WhereRaw("YEAR(created_at) = ?", 2024)
func (b *Builder) WhereRaw(expr string, bindings ...any) *Builder {
	return b.raw(whereClause, And, expr, bindings)
}

// OrWhereRaw is WhereRaw joined with OR.
func (b *Builder) OrWhereRaw(expr string, bindings ...any) *Builder {
	return b.raw(whereClause, Or, expr, bindings)
}

// HavingRaw is WhereRaw for the HAVING list.
func (b *Builder) HavingRaw(expr string, bindings ...any) *Builder {
	return b.raw(havingClause, And, expr, bindings)
}

// OrHavingRaw is HavingRaw joined with OR.
func (b *Builder) OrHavingRaw(expr string, bindings ...any) *Builder {
	return b.raw(havingClause, Or, expr, bindings)
}

func (b *Builder) raw(c clause, logical Logical, expr string, bindings []any) *Builder {
	if strings.TrimSpace(expr) == "" {
		return b.fail(c.String(), ErrInvalidArgument)
	}
	sql, err := NewRaw(expr, bindings...).expand(b.bindings)
	if err != nil {
		return b.fail(c.String(), err)
	}
	b.push(c, Condition{Kind: Predicate, Logical: logical, Field: sql})
	return b
}

// ----------------------------------------------------------------------------
// NULL, LIKE, IN
// ----------------------------------------------------------------------------

// WhereNull adds "column IS NULL".
func (b *Builder) WhereNull(column string) *Builder {
	return b.condition(whereClause, And, column, "IS NULL", nil, false)
}

// WhereNotNull adds "column IS NOT NULL".
func (b *Builder) WhereNotNull(column string) *Builder {
	return b.condition(whereClause, And, column, "IS NOT NULL", nil, false)
}

// OrWhereNull adds "OR column IS NULL".
func (b *Builder) OrWhereNull(column string) *Builder {
	return b.condition(whereClause, Or, column, "IS NULL", nil, false)
}

// OrWhereNotNull adds "OR column IS NOT NULL".
func (b *Builder) OrWhereNotNull(column string) *Builder {
	return b.condition(whereClause, Or, column, "IS NOT NULL", nil, false)
}

// WhereLike adds "column LIKE ?". The pattern is always bound.
func (b *Builder) WhereLike(column, pattern string) *Builder {
	return b.like(And, column, pattern)
}

// OrWhereLike is WhereLike joined with OR.
func (b *Builder) OrWhereLike(column, pattern string) *Builder {
	return b.like(Or, column, pattern)
}

func (b *Builder) like(logical Logical, column, pattern string) *Builder {
	b.push(whereClause, Condition{
		Kind:     Predicate,
		Logical:  logical,
		Field:    column,
		Operator: "LIKE",
		Value:    b.bindings.Bind(pattern),
	})
	return b
}

// WhereIn adds "column IN ( ?, ... )". values is a slice or a sub-query
// builder.
func (b *Builder) WhereIn(column string, values any) *Builder {
	return b.in(whereClause, And, column, "IN", values)
}

// WhereNotIn adds "column NOT IN ( ?, ... )".
func (b *Builder) WhereNotIn(column string, values any) *Builder {
	return b.in(whereClause, And, column, "NOT IN", values)
}

// OrWhereIn is WhereIn joined with OR.
func (b *Builder) OrWhereIn(column string, values any) *Builder {
	return b.in(whereClause, Or, column, "IN", values)
}

// OrWhereNotIn is WhereNotIn joined with OR.
func (b *Builder) OrWhereNotIn(column string, values any) *Builder {
	return b.in(whereClause, Or, column, "NOT IN", values)
}

// in opens "column OP (", fills it and closes it with a GroupClose entry.
func (b *Builder) in(c clause, logical Logical, column, op string, values any) *Builder {
	var inner string
	if sub, ok := values.(*Builder); ok {
		sql, err := b.subquery(sub)
		if err != nil {
			return b.fail(c.String(), err)
		}
		inner = sql
	} else {
		list, ok := toSlice(values)
		if !ok {
			list = []any{values}
		}
		if len(list) == 0 {
			return b.fail(c.String(), ErrEmptyWhereIn)
		}
		inner = strings.Join(lo.Map(list, func(v any, _ int) string {
			return b.bindings.Bind(v)
		}), ", ")
	}

	b.push(c,
		Condition{Kind: Predicate, Logical: logical, Field: column, Operator: op + " (", Value: inner},
		Condition{Kind: GroupClose},
	)
	return b
}

// ----------------------------------------------------------------------------
// BETWEEN
// ----------------------------------------------------------------------------

// WhereBetween adds "column BETWEEN ? AND ?". Exactly two values are
// required; a single two-element slice is accepted as well.
func (b *Builder) WhereBetween(column string, values ...any) *Builder {
	return b.between(whereClause, And, column, "BETWEEN", values)
}

// OrWhereBetween is WhereBetween joined with OR.
func (b *Builder) OrWhereBetween(column string, values ...any) *Builder {
	return b.between(whereClause, Or, column, "BETWEEN", values)
}

// WhereNotBetween adds "( column < ? OR column > ? )".
func (b *Builder) WhereNotBetween(column string, values ...any) *Builder {
	r, ok := rangeOf(values)
	if !ok {
		return b.fail("where", ErrInvalidRangeArity)
	}
	b.push(whereClause,
		Condition{Kind: GroupOpen, Logical: And},
		Condition{Kind: Predicate, Field: column, Operator: "<", Value: b.bindings.Bind(r[0])},
		Condition{Kind: Predicate, Logical: Or, Field: column, Operator: ">", Value: b.bindings.Bind(r[1])},
		Condition{Kind: GroupClose},
	)
	return b
}

// OrWhereNotBetween adds "OR column NOT BETWEEN ? AND ?".
func (b *Builder) OrWhereNotBetween(column string, values ...any) *Builder {
	return b.between(whereClause, Or, column, "NOT BETWEEN", values)
}

func (b *Builder) between(c clause, logical Logical, column, op string, values []any) *Builder {
	r, ok := rangeOf(values)
	if !ok {
		return b.fail(c.String(), ErrInvalidRangeArity)
	}
	b.push(c, Condition{
		Kind:     Predicate,
		Logical:  logical,
		Field:    column,
		Operator: op,
		Value:    b.bindings.Bind(r[0]) + " AND " + b.bindings.Bind(r[1]),
	})
	return b
}

func rangeOf(values []any) ([]any, bool) {
	if len(values) == 1 {
		if s, ok := toSlice(values[0]); ok {
			values = s
		}
	}
	return values, len(values) == 2
}

// ----------------------------------------------------------------------------
// Full text
// ----------------------------------------------------------------------------

// WhereFullText adds "MATCH (columns) AGAINST (? MODE)". mode is BOOLEAN,
// NATURAL or QUERY; anything else means BOOLEAN.
func (b *Builder) WhereFullText(columns []string, value string, mode ...string) *Builder {
	return b.fullText(And, columns, value, mode)
}

// OrWhereFullText is WhereFullText joined with OR.
func (b *Builder) OrWhereFullText(columns []string, value string, mode ...string) *Builder {
	return b.fullText(Or, columns, value, mode)
}

func (b *Builder) fullText(logical Logical, columns []string, value string, mode []string) *Builder {
	if len(columns) == 0 {
		return b.fail("where", ErrInvalidArgument)
	}
	modifier, ok := fullTextModes[strings.ToUpper(strings.TrimSpace(firstOr(mode, "BOOLEAN")))]
	if !ok {
		modifier = fullTextModes["BOOLEAN"]
	}
	b.push(whereClause, Condition{
		Kind:     Predicate,
		Logical:  logical,
		Field:    "MATCH (" + strings.Join(columns, ", ") + ")",
		Operator: "AGAINST",
		Value:    "(" + b.bindings.Bind(value) + " " + modifier + ")",
	})
	return b
}

// ----------------------------------------------------------------------------
// Groups and sub-queries
// ----------------------------------------------------------------------------

// WhereGroup runs fn on a fresh builder and appends what it built as one
// parenthesised group, joined with logical and preceded by prefix.
//
// When fn sets a table the group holds that builder's whole statement,
// which is what EXISTS needs. Otherwise the group holds its WHERE
// conditions. An empty group is dropped.
func (b *Builder) WhereGroup(fn func(*Builder), logical Logical, prefix string) *Builder {
	return b.group(whereClause, logical, prefix, fn)
}

// WhereExists adds "EXISTS ( ... )".
//
//	qb.Table("users").WhereExists(func(q *fluentquery.Builder) {
//	    q.Table("orders").Select("1").WhereColumn("orders.user_id", "=", "users.id")
//	})
func (b *Builder) WhereExists(fn func(*Builder)) *Builder {
	return b.group(whereClause, And, "EXISTS", fn)
}

// OrWhereExists adds "OR EXISTS ( ... )".
func (b *Builder) OrWhereExists(fn func(*Builder)) *Builder {
	return b.group(whereClause, Or, "EXISTS", fn)
}

// WhereNotExists adds "NOT EXISTS ( ... )".
func (b *Builder) WhereNotExists(fn func(*Builder)) *Builder {
	return b.group(whereClause, And, "NOT EXISTS", fn)
}

// OrWhereNotExists adds "OR NOT EXISTS ( ... )".
func (b *Builder) OrWhereNotExists(fn func(*Builder)) *Builder {
	return b.group(whereClause, Or, "NOT EXISTS", fn)
}

func (b *Builder) group(c clause, logical Logical, prefix string, fn func(*Builder)) *Builder {
	if fn == nil {
		return b.fail(c.String(), ErrInvalidArgument)
	}
	sub := b.fork()
	fn(sub)

	var inner []Condition
	if sub.table != "" {
		sql, err := b.subquery(sub)
		if err != nil {
			return b.fail(c.String(), err)
		}
		inner = []Condition{{Kind: Predicate, Field: sql}}
	} else {
		if sub.err != nil {
			return b.fail(c.String(), sub.err)
		}
		if sub.discards(c) {
			return b.fail(c.String(), ErrInvalidArgument)
		}
		inner = cloneSlice(*sub.list(c))
		if len(inner) == 0 {
			return b
		}
		inner[0].Logical = ""
		b.bindings.Merge(sub.bindings)
	}

	b.push(c, Condition{Kind: GroupOpen, Logical: logical, Prefix: prefix})
	b.push(c, inner...)
	b.push(c, Condition{Kind: GroupClose})
	return b
}

// discards reports whether a group built without a table holds anything
// besides conditions for c. Only those conditions are spliced into the parent.
func (b *Builder) discards(c clause) bool {
	other := havingClause
	if c == havingClause {
		other = whereClause
	}
	return len(*b.list(other)) > 0 ||
		b.tableAlias != "" ||
		len(b.fields) > 0 ||
		b.distinct ||
		len(b.joins) > 0 ||
		len(b.groups) > 0 ||
		len(b.orders) > 0 ||
		b.limit != "" ||
		len(b.rows) > 0 ||
		b.buildType != BuildSelect
}

// subquery assembles sub and merges its bindings into b. The returned SQL
// still carries placeholder tokens; the outer compile rewrites them.
func (b *Builder) subquery(sub *Builder) (string, error) {
	if sub == nil {
		return "", ErrInvalidArgument
	}
	if sub.err != nil {
		return "", sub.err
	}
	work := sub.bindings.Clone()
	sql, err := sub.assemble(work)
	if err != nil {
		return "", NewQueryError(sub.buildType.String(), sub.table, err, "sub-query")
	}
	b.bindings.Merge(work)
	return sql, nil
}

// toSlice converts any slice or array except []byte to []any.
func toSlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
