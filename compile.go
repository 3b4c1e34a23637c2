package fluentquery

import (
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/biyonik/go-fluent-query/dialect"
	"github.com/biyonik/go-fluent-query/internal/binding"
)

// CompileQuery assembles the staged statement and returns it with "?"
// placeholders. The result is cached until Reset.
func (b *Builder) CompileQuery() (string, error) {
	if b.state.stage == compiled {
		return b.state.sql, nil
	}
	if b.err != nil {
		return "", b.err
	}

	start := time.Now()
	work := b.bindings.Clone()

	query, err := b.assemble(work)
	if err != nil {
		err = b.wrap(err)
		b.log("", nil, time.Since(start), err)
		return "", err
	}

	tokenized := query
	var args []any
	if b.rewrite {
		query, args = binding.Rewrite(query, work)
	} else {
		args = lo.FilterMap(binding.Tokens(query), func(token string, _ int) (any, bool) {
			return work.Lookup(token)
		})
	}

	b.state = compilation{stage: compiled, sql: query, args: args, named: work, tokenized: tokenized}
	b.log(query, args, time.Since(start), nil)
	return query, nil
}

// Bindings returns the positional bindings of the compiled statement,
// compiling it first when needed. It returns nil when compilation fails.
func (b *Builder) Bindings() []any {
	if _, err := b.CompileQuery(); err != nil {
		return nil
	}
	return cloneSlice(b.state.args)
}

// NamedBindings returns the placeholder token → value map of the compiled
// statement. It is mostly useful with WithoutPlaceholderRewrite.
func (b *Builder) NamedBindings() (map[string]any, error) {
	if _, err := b.CompileQuery(); err != nil {
		return nil, err
	}
	return b.state.named.Map(), nil
}

// Build compiles the statement and returns it with its bindings.
func (b *Builder) Build() (string, []any, error) {
	query, err := b.CompileQuery()
	if err != nil {
		return "", nil, err
	}
	return query, cloneSlice(b.state.args), nil
}

func (b *Builder) wrap(err error) error {
	if qe, ok := err.(*QueryError); ok {
		return qe
	}
	return NewQueryError(b.buildType.String(), b.table, err, "")
}

func (b *Builder) log(query string, args []any, d time.Duration, err error) {
	if b.debug {
		b.logger.Log(query, args, d, err)
	}
}

// ----------------------------------------------------------------------------
// Assembler
// ----------------------------------------------------------------------------

// assemble renders the statement for the current build type. Values bound
// during assembly go into set; the SQL keeps placeholder tokens.
func (b *Builder) assemble(set *binding.Set) (string, error) {
	if b.table == "" {
		return "", ErrNoTable
	}

	switch b.buildType {
	case BuildInsert:
		return b.assembleInsert(set)
	case BuildUpdate:
		return b.assembleUpdate(set)
	case BuildUpsert:
		return b.assembleUpsert(set)
	case BuildDelete:
		return b.assembleDelete()
	case BuildExists:
		return "SELECT EXISTS ( " + b.assembleSelect([]string{"1"}) + " ) AS record_exists", nil
	case BuildNotExists:
		return "SELECT NOT EXISTS ( " + b.assembleSelect([]string{"1"}) + " ) AS record_exists", nil
	case BuildTruncate:
		return "TRUNCATE TABLE " + b.table, nil
	case BuildMinAutoIncrement:
		return "ALTER TABLE " + b.table + " AUTO_INCREMENT = 1", nil
	default:
		return b.assembleSelect(b.fields), nil
	}
}

func (b *Builder) assembleSelect(fields []string) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if b.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(fields) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(fields, ", "))
	}

	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	if b.tableAlias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(b.tableAlias)
	}

	if len(b.joins) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(b.joins, " "))
	}

	b.writeWhere(&sb)

	if len(b.groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groups, ", "))
	}

	if len(b.havings) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(renderConditions(b.havings))
	}

	if len(b.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orders, ", "))
	}

	b.writeLimit(&sb)
	return sb.String()
}

func (b *Builder) assembleInsert(set *binding.Set) (string, error) {
	columns := rowColumns(b.rows)
	if len(columns) == 0 {
		return "", ErrEmptyInsertPayload
	}

	tuples := make([]string, len(b.rows))
	for i, row := range b.rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			v, err := bindValue(set, row[col])
			if err != nil {
				return "", err
			}
			values[j] = v
		}
		tuples[i] = "(" + strings.Join(values, ", ") + ")"
	}

	return "INSERT INTO " + b.table +
		" (" + strings.Join(columns, ", ") + ") VALUES " +
		strings.Join(tuples, ", "), nil
}

func (b *Builder) assembleUpdate(set *binding.Set) (string, error) {
	columns := rowColumns(b.rows)
	if len(columns) == 0 {
		return "", ErrEmptyUpdatePayload
	}

	row := b.rows[0]
	assignments := make([]string, len(columns))
	for i, col := range columns {
		v, err := bindValue(set, row[col])
		if err != nil {
			return "", err
		}
		assignments[i] = col + " = " + v
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	b.writeWhere(&sb)
	b.writeLimit(&sb)
	return sb.String(), nil
}

func (b *Builder) assembleUpsert(set *binding.Set) (string, error) {
	adapter, err := dialect.For(b.driver)
	if err != nil {
		return "", err
	}
	return adapter.CompileUpsert(dialect.Upsert{
		Table:         b.table,
		Rows:          b.rows,
		Columns:       rowColumns(b.rows),
		UniqueColumns: b.upsert.Unique,
		UpdateColumns: b.upsert.Update,
	}, set)
}

func (b *Builder) assembleDelete() (string, error) {
	if len(b.wheres) == 0 {
		return "", ErrUnconditionalDeleteForbidden
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.table)
	b.writeWhere(&sb)
	b.writeLimit(&sb)
	return sb.String(), nil
}

func (b *Builder) writeWhere(sb *strings.Builder) {
	if len(b.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(renderConditions(b.wheres))
	}
}

func (b *Builder) writeLimit(sb *strings.Builder) {
	if b.limit != "" {
		sb.WriteString(" ")
		sb.WriteString(b.limit)
	}
}

// rowColumns returns the sorted keys of the first row. Later rows are
// matched against these columns.
func rowColumns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	columns := lo.Keys(rows[0])
	sort.Strings(columns)
	return columns
}
