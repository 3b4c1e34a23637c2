package dialect

import (
	"strings"

	"github.com/samber/lo"
)

// MySQLAdapter emits INSERT ... ON DUPLICATE KEY UPDATE. MySQL picks the
// conflicting key itself, so UniqueColumns only narrow the default update
// list.
type MySQLAdapter struct {
	baseAdapter
}

// CompileUpsert implements Adapter.
func (a *MySQLAdapter) CompileUpsert(u Upsert, b Binder) (string, error) {
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

	// ON DUPLICATE KEY UPDATE needs at least one assignment.
	update := updateColumns(u)
	if len(update) == 0 {
		update = u.Columns
	}
	sql.WriteString(" ON DUPLICATE KEY UPDATE ")
	sets := lo.Map(update, func(col string, _ int) string {
		return col + " = VALUES(" + col + ")"
	})
	sql.WriteString(strings.Join(sets, ", "))

	return sql.String(), nil
}
