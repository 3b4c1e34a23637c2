package dialect

import (
	"strings"

	"github.com/samber/lo"
)

// SQLiteAdapter emits INSERT OR REPLACE. REPLACE deletes the conflicting row
// and inserts the new one, so columns missing from the payload lose their
// stored values and UpdateColumns has no effect. Prefer a dialect with a real
// update clause where that matters.
type SQLiteAdapter struct {
	baseAdapter
}

// CompileUpsert implements Adapter.
func (a *SQLiteAdapter) CompileUpsert(u Upsert, b Binder) (string, error) {
	if err := a.validate(u); err != nil {
		return "", err
	}

	var sql strings.Builder
	sql.WriteString("INSERT OR REPLACE INTO ")
	sql.WriteString(u.Table)
	sql.WriteString(" ")
	sql.WriteString(tuple(u.Columns))
	sql.WriteString(" VALUES ")

	values := lo.Map(u.Rows, func(row map[string]any, _ int) string {
		return tuple(bindRow(u.Columns, row, b))
	})
	sql.WriteString(strings.Join(values, ", "))

	return sql.String(), nil
}
