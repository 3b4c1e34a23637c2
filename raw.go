package fluentquery

import (
	"strings"

	"github.com/biyonik/go-fluent-query/internal/binding"
)

// Raw is an SQL fragment written into the statement verbatim. Each "?" in
// SQL is bound to the matching entry of Bindings.
//
// Raw is accepted as a predicate value and as an insert or update value:
//
//	qb.Table("posts").Where("id", 7).Update(fluentquery.Row{
//	    "views": fluentquery.NewRaw("views + ?", 1),
//	})
//
// Only use it with trusted input.
type Raw struct {
	SQL      string
	Bindings []any
}

// NewRaw returns a Raw fragment.
func NewRaw(sql string, bindings ...any) Raw {
	return Raw{SQL: sql, Bindings: bindings}
}

func (r Raw) String() string {
	return r.SQL
}

// expand replaces the "?" marks of r with placeholders bound in set.
func (r Raw) expand(set *binding.Set) (string, error) {
	if strings.Count(r.SQL, "?") != len(r.Bindings) {
		return "", ErrInvalidArgument
	}
	sql := r.SQL
	for _, v := range r.Bindings {
		sql = strings.Replace(sql, "?", set.Bind(v), 1)
	}
	return sql, nil
}

// bindValue binds v in set, or expands it when it is a Raw fragment.
func bindValue(set *binding.Set, v any) (string, error) {
	if r, ok := v.(Raw); ok {
		return r.expand(set)
	}
	return set.Bind(v), nil
}

// Table returns a new builder for the table name.
//
//	sql, args, err := fluentquery.Table("users").Where("status", "active").Build()
func Table(name string, alias ...string) *Builder {
	return New().Table(name, alias...)
}
