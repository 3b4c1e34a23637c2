package fluentquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhere(t *testing.T) {
	tests := []struct {
		name  string
		build func(qb *Builder)
		want  string
		args  []any
	}{
		{
			name:  "shorthand equals",
			build: func(qb *Builder) { qb.Where("status", "active") },
			want:  "status = ?",
			args:  []any{"active"},
		},
		{
			name:  "operator is case insensitive",
			build: func(qb *Builder) { qb.Where("name", "like", "a%").OrWhere("age", ">=", 18) },
			want:  "name LIKE ? OR age >= ?",
			args:  []any{"a%", 18},
		},
		{
			name:  "null operator shorthand",
			build: func(qb *Builder) { qb.Where("deleted_at", "is null").OrWhere("banned_at", "IS NOT NULL") },
			want:  "deleted_at IS NULL OR banned_at IS NOT NULL",
		},
		{
			name:  "null helpers",
			build: func(qb *Builder) { qb.WhereNull("a").WhereNotNull("b").OrWhereNull("c").OrWhereNotNull("d") },
			want:  "a IS NULL AND b IS NOT NULL OR c IS NULL OR d IS NOT NULL",
		},
		{
			name:  "dotted value is a column",
			build: func(qb *Builder) { qb.Where("posts.user_id", "users.id") },
			want:  "posts.user_id = users.id",
		},
		{
			name:  "backtick value is a column",
			build: func(qb *Builder) { qb.Where("a", "<>", "`b`") },
			want:  "a <> `b`",
		},
		{
			name:  "where column",
			build: func(qb *Builder) { qb.WhereColumn("updated_at", ">", "created_at").OrWhereColumn("a", "=", "b") },
			want:  "updated_at > created_at OR a = b",
		},
		{
			name:  "like always binds",
			build: func(qb *Builder) { qb.WhereLike("email", "%@example.com").OrWhereLike("name", "jo%") },
			want:  "email LIKE ? OR name LIKE ?",
			args:  []any{"%@example.com", "jo%"},
		},
		{
			name:  "in",
			build: func(qb *Builder) { qb.WhereIn("id", []int{1, 2, 3}) },
			want:  "id IN ( ?, ?, ? )",
			args:  []any{1, 2, 3},
		},
		{
			name:  "in helpers",
			build: func(qb *Builder) { qb.WhereNotIn("a", []string{"x"}).OrWhereIn("b", []any{1}).OrWhereNotIn("c", []int{2}) },
			want:  "a NOT IN ( ? ) OR b IN ( ? ) OR c NOT IN ( ? )",
			args:  []any{"x", 1, 2},
		},
		{
			name:  "in through where",
			build: func(qb *Builder) { qb.Where("role", "in", []string{"admin", "owner"}).Where("id", ">", 0) },
			want:  "role IN ( ?, ? ) AND id > ?",
			args:  []any{"admin", "owner", 0},
		},
		{
			name:  "between",
			build: func(qb *Builder) { qb.WhereBetween("age", 18, 30) },
			want:  "age BETWEEN ? AND ?",
			args:  []any{18, 30},
		},
		{
			name:  "between slice",
			build: func(qb *Builder) { qb.WhereBetween("age", []int{18, 30}).OrWhereBetween("name", "a", "m") },
			want:  "age BETWEEN ? AND ? OR name BETWEEN ? AND ?",
			args:  []any{18, 30, "a", "m"},
		},
		{
			name:  "between through where",
			build: func(qb *Builder) { qb.Where("age", "between", []int{1, 2}) },
			want:  "age BETWEEN ? AND ?",
			args:  []any{1, 2},
		},
		{
			name:  "not between",
			build: func(qb *Builder) { qb.Where("active", true).WhereNotBetween("age", 18, 30) },
			want:  "active = ? AND ( age < ? OR age > ? )",
			args:  []any{true, 18, 30},
		},
		{
			name:  "or not between",
			build: func(qb *Builder) { qb.Where("active", true).OrWhereNotBetween("age", 18, 30) },
			want:  "active = ? OR age NOT BETWEEN ? AND ?",
			args:  []any{true, 18, 30},
		},
		{
			name:  "raw",
			build: func(qb *Builder) { qb.WhereRaw("YEAR(created_at) = ?", 2024).OrWhereRaw("score > ? AND score < ?", 1, 9) },
			want:  "YEAR(created_at) = ? OR score > ? AND score < ?",
			args:  []any{2024, 1, 9},
		},
		{
			name:  "full text",
			build: func(qb *Builder) { qb.WhereFullText([]string{"title", "body"}, "go") },
			want:  "MATCH (title, body) AGAINST (? IN BOOLEAN MODE)",
			args:  []any{"go"},
		},
		{
			name:  "full text natural",
			build: func(qb *Builder) { qb.WhereFullText([]string{"title"}, "go", "natural") },
			want:  "MATCH (title) AGAINST (? IN NATURAL LANGUAGE MODE)",
			args:  []any{"go"},
		},
		{
			name:  "full text query expansion",
			build: func(qb *Builder) { qb.Where("id", 1).OrWhereFullText([]string{"title"}, "go", "QUERY") },
			want:  "id = ? OR MATCH (title) AGAINST (? WITH QUERY EXPANSION)",
			args:  []any{1, "go"},
		},
		{
			name:  "full text unknown mode",
			build: func(qb *Builder) { qb.WhereFullText([]string{"title"}, "go", "fuzzy") },
			want:  "MATCH (title) AGAINST (? IN BOOLEAN MODE)",
			args:  []any{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := New().Table("t")
			tt.build(qb)

			query, args := build(t, qb)
			assert.Equal(t, "SELECT * FROM t WHERE "+tt.want, query)
			if tt.args == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestWhereGroup(t *testing.T) {
	qb := New().Table("t").
		Where("a", 1).
		Where(func(q *Builder) {
			q.Where("b", 2).OrWhere("c", 3)
		}).
		Where("d", 4)

	query, args := build(t, qb)
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND ( b = ? OR c = ? ) AND d = ?", query)
	assert.Equal(t, []any{1, 2, 3, 4}, args)
}

func TestWhereGroupPositions(t *testing.T) {
	tests := []struct {
		name  string
		build func(qb *Builder)
		want  string
	}{
		{
			name: "first entry",
			build: func(qb *Builder) {
				qb.Where(func(q *Builder) { q.Where("b", 2).OrWhere("c", 3) })
			},
			want: "( b = ? OR c = ? )",
		},
		{
			name: "or group",
			build: func(qb *Builder) {
				qb.Where("a", 1).OrWhere(func(q *Builder) { q.Where("b", 2) })
			},
			want: "a = ? OR ( b = ? )",
		},
		{
			name: "nested",
			build: func(qb *Builder) {
				qb.Where("a", 1).Where(func(q *Builder) {
					q.Where("b", 2).OrWhere(func(q *Builder) {
						q.Where("c", 3).Where("d", 4)
					})
				})
			},
			want: "a = ? AND ( b = ? OR ( c = ? AND d = ? ) )",
		},
		{
			name: "explicit group",
			build: func(qb *Builder) {
				qb.Where("a", 1).WhereGroup(func(q *Builder) { q.OrWhere("b", 2) }, Or, "")
			},
			want: "a = ? OR ( b = ? )",
		},
		{
			name: "empty group dropped",
			build: func(qb *Builder) {
				qb.Where("a", 1).Where(func(*Builder) {})
			},
			want: "a = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := New().Table("t")
			tt.build(qb)
			query, _ := build(t, qb)
			assert.Equal(t, "SELECT * FROM t WHERE "+tt.want, query)
		})
	}
}

func TestHavingGroup(t *testing.T) {
	qb := New().Table("orders").
		Select("user_id", "COUNT(*) AS n").
		GroupBy("user_id").
		Having(func(q *Builder) {
			q.Having("n", ">", 1).OrHaving("n", "<", 10)
		}).
		HavingRaw("SUM(total) > ?", 100).
		OrHavingRaw("MAX(total) = ?", 0)

	query, args := build(t, qb)
	assert.Equal(t, "SELECT user_id, COUNT(*) AS n FROM orders GROUP BY user_id"+
		" HAVING ( n > ? OR n < ? ) AND SUM(total) > ? OR MAX(total) = ?", query)
	assert.Equal(t, []any{1, 10, 100, 0}, args)
}

func TestGroupRejectsClausesItCannotKeep(t *testing.T) {
	tests := []struct {
		name string
		qb   *Builder
	}{
		{"where inside having", New().Table("t").Having(func(q *Builder) { q.Where("x", 1) })},
		{"having inside where", New().Table("t").Where(func(q *Builder) { q.Having("x", 1) })},
		{"join", New().Table("t").Where(func(q *Builder) { q.Where("x", 1).Join("u", "t.id", "=", "u.t_id") })},
		{"order", New().Table("t").Where(func(q *Builder) { q.Where("x", 1).OrderBy("x", "DESC") })},
		{"limit", New().Table("t").OrWhere(func(q *Builder) { q.Where("x", 1).Limit(5) })},
		{"select", New().Table("t").Where(func(q *Builder) { q.Select("x").Where("x", 1) })},
		{"statement", New().Table("t").Where(func(q *Builder) { q.Where("x", 1).Delete() })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.qb.Err(), ErrInvalidArgument)

			_, err := tt.qb.CompileQuery()
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	query, args := build(t, New().Table("t").Where(func(q *Builder) {}).Where("x", 1))
	assert.Equal(t, "SELECT * FROM t WHERE x = ?", query)
	assert.Equal(t, []any{1}, args)
}

func TestWhereExists(t *testing.T) {
	qb := New().Table("users").
		Where("active", true).
		WhereExists(func(q *Builder) {
			q.Table("orders").
				Select("1").
				WhereColumn("orders.user_id", "=", "users.id").
				Where("total", ">", 100)
		}).
		Where("role", "admin")

	query, args := build(t, qb)
	assert.Equal(t, "SELECT * FROM users WHERE active = ?"+
		" AND EXISTS ( SELECT 1 FROM orders WHERE orders.user_id = users.id AND total > ? )"+
		" AND role = ?", query)
	assert.Equal(t, []any{true, 100, "admin"}, args)
}

func TestWhereExistsVariants(t *testing.T) {
	sub := func(q *Builder) { q.Table("bans").WhereColumn("bans.user_id", "=", "users.id") }

	tests := []struct {
		name  string
		build func(qb *Builder)
		want  string
	}{
		{"not exists", func(qb *Builder) { qb.WhereNotExists(sub) }, "NOT EXISTS ( SELECT * FROM bans WHERE bans.user_id = users.id )"},
		{"or exists", func(qb *Builder) { qb.Where("a", 1).OrWhereExists(sub) }, "a = ? OR EXISTS ( SELECT * FROM bans WHERE bans.user_id = users.id )"},
		{"or not exists", func(qb *Builder) { qb.Where("a", 1).OrWhereNotExists(sub) }, "a = ? OR NOT EXISTS ( SELECT * FROM bans WHERE bans.user_id = users.id )"},
		{"conditions only", func(qb *Builder) { qb.WhereExists(func(q *Builder) { q.WhereRaw("SELECT 1 FROM bans") }) }, "EXISTS ( SELECT 1 FROM bans )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := New().Table("users")
			tt.build(qb)
			query, _ := build(t, qb)
			assert.Equal(t, "SELECT * FROM users WHERE "+tt.want, query)
		})
	}
}

func TestWhereSubQueryValues(t *testing.T) {
	big := New().Table("orders").Select("user_id").Where("total", ">", 100)
	latest := New().Table("logins").Max("at").Where("ok", true)

	qb := New().Table("users").
		Where("role", "admin").
		WhereIn("id", big).
		Where("last_seen", "=", latest)

	query, args := build(t, qb)
	assert.Equal(t, "SELECT * FROM users WHERE role = ?"+
		" AND id IN ( SELECT user_id FROM orders WHERE total > ? )"+
		" AND last_seen = ( SELECT MAX(at) FROM logins WHERE ok = ? )", query)
	assert.Equal(t, []any{"admin", 100, true}, args)

	// the sub-builders are not consumed
	subQuery, subArgs := build(t, big)
	assert.Equal(t, "SELECT user_id FROM orders WHERE total > ?", subQuery)
	assert.Equal(t, []any{100}, subArgs)
}

func TestSubQueryErrorPropagates(t *testing.T) {
	bad := New().Where("id", 1) // no table
	qb := New().Table("users").WhereIn("id", bad)
	assert.ErrorIs(t, qb.Err(), ErrNoTable)

	broken := New().Table("orders").Where("id", "~", 1)
	qb = New().Table("users").WhereIn("id", broken)
	assert.ErrorIs(t, qb.Err(), ErrInvalidOperator)
}

func TestConditionRender(t *testing.T) {
	conds := []Condition{
		{Kind: GroupOpen, Logical: And, Prefix: "NOT EXISTS"},
		{Kind: Predicate, Logical: Or, Field: "a", Operator: "=", Value: "1"},
		{Kind: GroupClose},
		{Kind: GroupOpen, Logical: Or},
		{Kind: Predicate, Field: "b", Operator: "IS NULL"},
		{Kind: GroupClose},
	}
	assert.Equal(t, "NOT EXISTS ( OR a = 1 ) OR ( b IS NULL )", renderConditions(conds))
	assert.Equal(t, "group_open", GroupOpen.String())
	assert.Equal(t, "predicate", Predicate.String())
}

func TestWhereRawReplacesEveryMark(t *testing.T) {
	qb := New().Table("t").WhereRaw("a IN (?, ?)", "x", "y")
	wheres := qb.GetWheres()
	require.Len(t, wheres, 1)
	assert.NotContains(t, wheres[0].Field, "?")

	query, args := build(t, qb)
	assert.Equal(t, "SELECT * FROM t WHERE a IN (?, ?)", query)
	assert.Equal(t, []any{"x", "y"}, args)
}
