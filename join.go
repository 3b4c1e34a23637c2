package fluentquery

import (
	"strings"

	"github.com/biyonik/go-fluent-query/internal/validation"
)

// Join adds "INNER JOIN table ON first operator second".
//
//	qb.Table("users").Join("posts", "users.id", "=", "posts.user_id")
func (b *Builder) Join(table, first, operator, second string) *Builder {
	return b.JoinType("INNER", table, first, operator, second)
}

// LeftJoin adds a LEFT JOIN.
func (b *Builder) LeftJoin(table, first, operator, second string) *Builder {
	return b.JoinType("LEFT", table, first, operator, second)
}

// RightJoin adds a RIGHT JOIN.
func (b *Builder) RightJoin(table, first, operator, second string) *Builder {
	return b.JoinType("RIGHT", table, first, operator, second)
}

// FullJoin adds a FULL JOIN.
func (b *Builder) FullJoin(table, first, operator, second string) *Builder {
	return b.JoinType("FULL", table, first, operator, second)
}

// JoinType adds a join of the given type: INNER, LEFT, RIGHT or FULL. An
// empty first column omits the ON clause.
func (b *Builder) JoinType(typ, table, first, operator, second string) *Builder {
	on, err := joinOn(first, operator, second)
	if err != nil {
		return b.fail("join", err)
	}
	t, err := validation.NormalizeJoinType(typ)
	if err != nil {
		return b.fail("join", err)
	}
	b.joins = append(b.joins, t+" JOIN "+b.prefix+table+on)
	return b
}

// JoinSub joins the statement of sub under alias:
// "INNER JOIN (<sub>) AS alias ON first operator second". The bindings of
// sub are merged into b.
//
// The WHERE conditions of sub stay inside the joined statement. They are
// intentionally not copied into the WHERE list of b.
func (b *Builder) JoinSub(sub *Builder, alias, first, operator, second string) *Builder {
	return b.joinSub("INNER", sub, alias, first, operator, second)
}

// LeftJoinSub is JoinSub with a LEFT JOIN.
func (b *Builder) LeftJoinSub(sub *Builder, alias, first, operator, second string) *Builder {
	return b.joinSub("LEFT", sub, alias, first, operator, second)
}

// RightJoinSub is JoinSub with a RIGHT JOIN.
func (b *Builder) RightJoinSub(sub *Builder, alias, first, operator, second string) *Builder {
	return b.joinSub("RIGHT", sub, alias, first, operator, second)
}

func (b *Builder) joinSub(typ string, sub *Builder, alias, first, operator, second string) *Builder {
	if strings.TrimSpace(alias) == "" {
		return b.fail("join", ErrInvalidArgument)
	}
	on, err := joinOn(first, operator, second)
	if err != nil {
		return b.fail("join", err)
	}
	sql, err := b.subquery(sub)
	if err != nil {
		return b.fail("join", err)
	}
	b.joins = append(b.joins, typ+" JOIN ("+sql+") AS "+alias+on)
	return b
}

func joinOn(first, operator, second string) (string, error) {
	if first == "" {
		return "", nil
	}
	op, err := validation.NormalizeOperator(operator)
	if err != nil {
		return "", err
	}
	return " ON " + first + " " + op + " " + second, nil
}
