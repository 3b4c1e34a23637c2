package dialect

import (
	"strings"

	"github.com/samber/lo"
)

// SQLServerAdapter emits a MERGE over a VALUES table constructor.
type SQLServerAdapter struct {
	baseAdapter
}

// CompileUpsert implements Adapter.
func (a *SQLServerAdapter) CompileUpsert(u Upsert, b Binder) (string, error) {
	if err := a.validate(u); err != nil {
		return "", err
	}
	if len(u.UniqueColumns) == 0 {
		return "", &DialectError{Driver: string(a.driver), Err: ErrNoUniqueColumns}
	}

	var sql strings.Builder
	sql.WriteString("MERGE INTO ")
	sql.WriteString(u.Table)
	sql.WriteString(" AS target USING (VALUES ")

	values := lo.Map(u.Rows, func(row map[string]any, _ int) string {
		return tuple(bindRow(u.Columns, row, b))
	})
	sql.WriteString(strings.Join(values, ", "))

	sql.WriteString(") AS source ")
	sql.WriteString(tuple(u.Columns))
	sql.WriteString(" ON ")
	on := lo.Map(u.UniqueColumns, func(col string, _ int) string {
		return "target." + col + " = source." + col
	})
	sql.WriteString(strings.Join(on, " AND "))

	if update := updateColumns(u); len(update) > 0 {
		sql.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		sets := lo.Map(update, func(col string, _ int) string {
			return "target." + col + " = source." + col
		})
		sql.WriteString(strings.Join(sets, ", "))
	}

	sql.WriteString(" WHEN NOT MATCHED THEN INSERT ")
	sql.WriteString(tuple(u.Columns))
	sql.WriteString(" VALUES ")
	sql.WriteString(tuple(lo.Map(u.Columns, func(col string, _ int) string {
		return "source." + col
	})))
	sql.WriteString(";")

	return sql.String(), nil
}
