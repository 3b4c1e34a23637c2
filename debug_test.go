package fluentquery

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSQL(t *testing.T) {
	qb := New().Table("users").
		Where("name", "O'Reilly").
		Where("active", true).
		Where("deleted_at", "IS NULL").
		WhereIn("id", []int{1, 2}).
		Where("created_at", ">", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	out, err := qb.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM users WHERE name = 'O\'Reilly' AND active = TRUE AND deleted_at IS NULL`+
		` AND id IN ( 1, 2 ) AND created_at > '2024-01-02 03:04:05'`, out)

	// ToSQL does not disturb the compiled statement
	query, err := qb.CompileQuery()
	require.NoError(t, err)
	assert.Contains(t, query, "name = ?")
}

func TestToSQLKeepsQuestionMarksInFragments(t *testing.T) {
	qb := New().Table("t").
		Select("'?' AS q").
		WhereBetween("name", "a?", "z").
		WhereColumn("note", "<>", "'?'").
		Where("id", 5)

	out, err := qb.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT '?' AS q FROM t WHERE name BETWEEN 'a?' AND 'z' AND note <> '?' AND id = 5", out)

	out, err = qb.Clone().ToSQL()
	require.NoError(t, err)
	assert.Contains(t, out, "id = 5")
}

func TestToSQLWithoutPlaceholderRewrite(t *testing.T) {
	qb := New(WithoutPlaceholderRewrite()).Table("users").
		Where("name", "ann").
		Where(func(q *Builder) { q.Where("age", ">", 18).OrWhere("vip", false) })

	out, err := qb.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE name = 'ann' AND ( age > 18 OR vip = FALSE )", out)
}

func TestToSQLWrites(t *testing.T) {
	out, err := New().Table("users").Insert([]Row{
		{"id": 1, "name": "ann"},
		{"id": 2},
	}).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id, name) VALUES (1, 'ann'), (2, NULL)", out)
}

type flag bool

func TestLiteral(t *testing.T) {
	n := 5
	var missing *int

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "NULL"},
		{"string", "ann", "'ann'"},
		{"quote", "it's", `'it\'s'`},
		{"backslash", `a\b`, `'a\\b'`},
		{"nul", "a\x00b", `'a\0b'`},
		{"newline", "a\nb", `'a\nb'`},
		{"bytes", []byte("raw"), "'raw'"},
		{"true", true, "TRUE"},
		{"false", false, "FALSE"},
		{"named bool", flag(true), "TRUE"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"float", 1.5, "1.5"},
		{"time", time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), "'2024-12-31 23:59:00'"},
		{"valuer", sql.NullString{String: "x", Valid: true}, "'x'"},
		{"null valuer", sql.NullInt64{}, "NULL"},
		{"pointer", &n, "5"},
		{"nil pointer", missing, "NULL"},
		{"slice", []any{"a", 1, nil, []int{2, 3}}, "'a', 1, NULL, 2, 3"},
		{"array", [2]string{"x", "y"}, "'x', 'y'"},
		{"struct", struct{ A int }{1}, "'{1}'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, literal(tt.value))
		})
	}
}
