package dialect

import (
	"strings"

	"github.com/samber/lo"
)

// OracleAdapter emits one MERGE ... USING dual statement per row, joined
// with "; ".
//
// The WHEN MATCHED branch assigns each update column the named placeholder
// ":<column>" and does not bind it; the caller supplies those values.
type OracleAdapter struct {
	baseAdapter
}

// CompileUpsert implements Adapter.
func (a *OracleAdapter) CompileUpsert(u Upsert, b Binder) (string, error) {
	if err := a.validate(u); err != nil {
		return "", err
	}
	if len(u.UniqueColumns) == 0 {
		return "", &DialectError{Driver: string(a.driver), Err: ErrNoUniqueColumns}
	}

	update := updateColumns(u)
	statements := lo.Map(u.Rows, func(row map[string]any, _ int) string {
		return a.merge(u, update, row, b)
	})

	return strings.Join(statements, "; "), nil
}

func (a *OracleAdapter) merge(u Upsert, update []string, row map[string]any, b Binder) string {
	var sql strings.Builder
	sql.WriteString("MERGE INTO ")
	sql.WriteString(u.Table)
	sql.WriteString(" USING dual ON (")
	on := lo.Map(u.UniqueColumns, func(col string, _ int) string {
		return col + " = " + b.Bind(row[col])
	})
	sql.WriteString(strings.Join(on, " AND "))
	sql.WriteString(")")

	if len(update) > 0 {
		sql.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		sets := lo.Map(update, func(col string, _ int) string {
			return col + " = :" + col
		})
		sql.WriteString(strings.Join(sets, ", "))
	}

	sql.WriteString(" WHEN NOT MATCHED THEN INSERT ")
	sql.WriteString(tuple(u.Columns))
	sql.WriteString(" VALUES ")
	sql.WriteString(tuple(bindRow(u.Columns, row, b)))

	return sql.String()
}
