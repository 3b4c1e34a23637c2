package dialect

import (
	"strings"

	"github.com/samber/lo"
)

// PgSQLAdapter emits INSERT ... ON CONFLICT (...) DO UPDATE SET.
type PgSQLAdapter struct {
	baseAdapter
}

// CompileUpsert implements Adapter. Without unique columns there is no
// conflict target and the statement degrades to ON CONFLICT DO NOTHING; an
// empty update list gives DO NOTHING on the target.
func (a *PgSQLAdapter) CompileUpsert(u Upsert, b Binder) (string, error) {
	if err := a.validate(u); err != nil {
		return "", err
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO ")
	sql.WriteString(u.Table)
	sql.WriteString(" ")
	sql.WriteString(tuple(u.Columns))
	sql.WriteString(" VALUES ")

	values := lo.Map(u.Rows, func(row map[string]any, _ int) string {
		return tuple(bindRow(u.Columns, row, b))
	})
	sql.WriteString(strings.Join(values, ", "))

	if len(u.UniqueColumns) == 0 {
		sql.WriteString(" ON CONFLICT DO NOTHING")
		return sql.String(), nil
	}

	sql.WriteString(" ON CONFLICT ")
	sql.WriteString(tuple(u.UniqueColumns))

	update := updateColumns(u)
	if len(update) == 0 {
		sql.WriteString(" DO NOTHING")
		return sql.String(), nil
	}

	sql.WriteString(" DO UPDATE SET ")
	sets := lo.Map(update, func(col string, _ int) string {
		return col + " = EXCLUDED." + col
	})
	sql.WriteString(strings.Join(sets, ", "))

	return sql.String(), nil
}
