package fluentquery

import (
	"errors"
	"strconv"
	"strings"

	"github.com/biyonik/go-fluent-query/dialect"
	"github.com/biyonik/go-fluent-query/internal/binding"
	"github.com/biyonik/go-fluent-query/internal/validation"
)

// Row is one record of an insert, update or upsert payload.
type Row = map[string]any

// BuildType selects the statement the assembler produces.
type BuildType int

const (
	BuildSelect BuildType = iota
	BuildInsert
	BuildUpdate
	BuildUpsert
	BuildDelete
	BuildTruncate
	BuildMinAutoIncrement
	BuildExists
	BuildNotExists
)

func (t BuildType) String() string {
	switch t {
	case BuildInsert:
		return "insert"
	case BuildUpdate:
		return "update"
	case BuildUpsert:
		return "upsert"
	case BuildDelete:
		return "delete"
	case BuildTruncate:
		return "truncate"
	case BuildMinAutoIncrement:
		return "min_auto_increment"
	case BuildExists:
		return "exists"
	case BuildNotExists:
		return "not_exists"
	default:
		return "select"
	}
}

// UpsertColumns describes how conflicting rows are detected and updated.
type UpsertColumns struct {
	Unique []string
	Update []string
}

type stage int

const (
	uncompiled stage = iota
	compiled
)

// compilation is the memoized result of CompileQuery.
type compilation struct {
	stage stage
	sql   string
	args  []any
	named *binding.Set

	// statement before the "?" rewrite
	tokenized string
}

// Builder accumulates clause fragments through a fluent interface and
// compiles them into SQL with positional "?" bindings.
//
// Every value passed to a predicate is staged under a unique placeholder
// token while the query is being built. Compilation assembles the statement,
// then rewrites the tokens to "?" in the order they appear in the text, so
// nested groups and sub-queries never misalign parameters.
//
// The compiled statement is cached: calling CompileQuery again returns the
// same SQL and bindings until Reset is called.
//
//	sql, args, err := fluentquery.New().
//	    Table("users").
//	    Select("id", "name").
//	    Where("status", "active").
//	    Where(func(q *fluentquery.Builder) {
//	        q.Where("age", ">", 18).OrWhere("verified", true)
//	    }).
//	    OrderBy("created_at", "DESC").
//	    Limit(10).
//	    Build()
//
// A Builder is not safe for concurrent use. Use Clone to fork one.
type Builder struct {
	// options
	driver    dialect.Driver
	logger    Logger
	debug     bool
	prefix    string
	rewrite   bool
	extension Extension

	// clause model
	table      string
	tableAlias string
	fields     []string
	distinct   bool
	joins      []string
	wheres     []Condition
	havings    []Condition
	groups     []string
	orders     []string
	limit      string

	bindings  *binding.Set
	buildType BuildType
	rows      []Row
	upsert    UpsertColumns

	state compilation

	// first error recorded by a fluent call
	err error
}

// New returns an empty select builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		driver:   dialect.MySQL,
		logger:   NopLogger{},
		rewrite:  true,
		bindings: binding.NewSet(),
	}
	applyOptions(b, opts)
	return b
}

// Apply applies opts to an existing builder.
func (b *Builder) Apply(opts ...Option) *Builder {
	applyOptions(b, opts)
	return b
}

// fork returns an empty builder for a nested scope. It shares the driver,
// table prefix and placeholder mode of b.
func (b *Builder) fork() *Builder {
	return New(
		WithDriver(b.driver),
		WithTablePrefix(b.prefix),
		func(sub *Builder) { sub.rewrite = b.rewrite },
	)
}

// fail records err as the builder error unless one is already recorded.
func (b *Builder) fail(op string, err error) *Builder {
	if b.err != nil {
		return b
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		b.err = qe
		return b
	}
	b.err = NewQueryError(op, b.table, err, "")
	return b
}

// Err returns the first error recorded by a fluent call.
func (b *Builder) Err() error {
	return b.err
}

// ----------------------------------------------------------------------------
// Identity and projection
// ----------------------------------------------------------------------------

// Table sets the primary table and an optional alias. The table prefix is
// applied to name.
func (b *Builder) Table(name string, alias ...string) *Builder {
	b.table = b.prefix + name
	if len(alias) > 0 {
		b.tableAlias = alias[0]
	}
	return b
}

// From is an alias of Table.
func (b *Builder) From(name string, alias ...string) *Builder {
	return b.Table(name, alias...)
}

// Select adds fields to the select list. The first call replaces the
// default "*", later calls append.
func (b *Builder) Select(fields ...string) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// Distinct marks the select as DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

// Count replaces the select list with COUNT(column), or COUNT(*) without a
// column.
func (b *Builder) Count(column ...string) *Builder {
	col := "*"
	if len(column) > 0 && column[0] != "" {
		col = column[0]
	}
	return b.aggregate("COUNT", col)
}

// Max replaces the select list with MAX(column).
func (b *Builder) Max(column string) *Builder {
	return b.aggregate("MAX", column)
}

// Min replaces the select list with MIN(column).
func (b *Builder) Min(column string) *Builder {
	return b.aggregate("MIN", column)
}

// Sum replaces the select list with SUM(column).
func (b *Builder) Sum(column string) *Builder {
	return b.aggregate("SUM", column)
}

// Avg replaces the select list with AVG(column).
func (b *Builder) Avg(column string) *Builder {
	return b.aggregate("AVG", column)
}

func (b *Builder) aggregate(fn, column string) *Builder {
	b.fields = []string{fn + "(" + column + ")"}
	b.buildType = BuildSelect
	return b
}

// ----------------------------------------------------------------------------
// Grouping, ordering, limits
// ----------------------------------------------------------------------------

// GroupBy appends GROUP BY fields.
func (b *Builder) GroupBy(fields ...string) *Builder {
	b.groups = append(b.groups, fields...)
	return b
}

// OrderBy appends "column DIRECTION". An empty direction means ASC.
func (b *Builder) OrderBy(column, direction string) *Builder {
	dir, err := validation.NormalizeDirection(direction)
	if err != nil {
		return b.fail("order by", err)
	}
	b.orders = append(b.orders, column+" "+dir)
	return b
}

// OrderByList appends pre-joined "column DIRECTION" items verbatim.
func (b *Builder) OrderByList(items ...string) *Builder {
	b.orders = append(b.orders, items...)
	return b
}

// OrderByAsc appends "column ASC".
func (b *Builder) OrderByAsc(column string) *Builder {
	return b.OrderBy(column, "ASC")
}

// OrderByDesc appends "column DESC".
func (b *Builder) OrderByDesc(column string) *Builder {
	return b.OrderBy(column, "DESC")
}

// Latest orders by column descending, created_at by default.
func (b *Builder) Latest(column ...string) *Builder {
	return b.OrderByDesc(firstOr(column, "created_at"))
}

// Oldest orders by column ascending, created_at by default.
func (b *Builder) Oldest(column ...string) *Builder {
	return b.OrderByAsc(firstOr(column, "created_at"))
}

// Limit renders the LIMIT fragment immediately: "LIMIT offset" with one
// argument, "LIMIT offset, count" with two.
func (b *Builder) Limit(offset int, count ...int) *Builder {
	if offset < 0 || (len(count) > 0 && count[0] < 0) {
		return b.fail("limit", ErrInvalidArgument)
	}
	b.limit = "LIMIT " + strconv.Itoa(offset)
	if len(count) > 0 {
		b.limit += ", " + strconv.Itoa(count[0])
	}
	return b
}

// Page limits the result to one page. Pages start at 1.
func (b *Builder) Page(page, perPage int) *Builder {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		return b.fail("page", ErrInvalidArgument)
	}
	return b.Limit((page-1)*perPage, perPage)
}

// ----------------------------------------------------------------------------
// Statement selection
// ----------------------------------------------------------------------------

// Insert stages an INSERT. data is a single Row or a []Row; the column list
// comes from the first row and later rows are matched against it.
func (b *Builder) Insert(data any) *Builder {
	rows, err := toRows(data)
	if err != nil {
		return b.fail("insert", err)
	}
	b.rows = rows
	b.buildType = BuildInsert
	return b
}

// Update stages an UPDATE setting the columns of row.
func (b *Builder) Update(row Row) *Builder {
	b.rows = []Row{row}
	b.buildType = BuildUpdate
	return b
}

// Upsert stages an insert-or-update of rows. unique names the columns that
// detect a conflict, update the columns overwritten on conflict; without
// update every non-unique column is overwritten.
func (b *Builder) Upsert(data any, unique []string, update ...string) *Builder {
	rows, err := toRows(data)
	if err != nil {
		return b.fail("upsert", err)
	}
	b.rows = rows
	b.upsert = UpsertColumns{Unique: unique, Update: update}
	b.buildType = BuildUpsert
	return b
}

// Delete stages a DELETE. Compiling it without a WHERE condition fails.
func (b *Builder) Delete() *Builder {
	b.buildType = BuildDelete
	return b
}

// Exists stages "SELECT EXISTS ( ... ) AS record_exists".
func (b *Builder) Exists() *Builder {
	b.buildType = BuildExists
	return b
}

// NotExists stages "SELECT NOT EXISTS ( ... ) AS record_exists".
func (b *Builder) NotExists() *Builder {
	b.buildType = BuildNotExists
	return b
}

// Truncate stages "TRUNCATE TABLE t".
func (b *Builder) Truncate() *Builder {
	b.buildType = BuildTruncate
	return b
}

// ResetAutoIncrement stages "ALTER TABLE t AUTO_INCREMENT = 1".
func (b *Builder) ResetAutoIncrement() *Builder {
	b.buildType = BuildMinAutoIncrement
	return b
}

func toRows(data any) ([]Row, error) {
	switch v := data.(type) {
	case Row:
		if len(v) == 0 {
			return nil, nil
		}
		return []Row{v}, nil
	case []Row:
		return v, nil
	case nil:
		return nil, nil
	default:
		return nil, ErrInvalidArgument
	}
}

// ----------------------------------------------------------------------------
// Lifecycle
// ----------------------------------------------------------------------------

// Reset clears the clause model, the bindings, the compiled state and the
// recorded error. Options are kept.
func (b *Builder) Reset() *Builder {
	b.table = ""
	b.tableAlias = ""
	b.fields = nil
	b.distinct = false
	b.joins = nil
	b.wheres = nil
	b.havings = nil
	b.groups = nil
	b.orders = nil
	b.limit = ""
	b.bindings = binding.NewSet()
	b.buildType = BuildSelect
	b.rows = nil
	b.upsert = UpsertColumns{}
	b.state = compilation{}
	b.err = nil
	return b
}

// Clone returns a deep copy of b.
func (b *Builder) Clone() *Builder {
	c := *b
	c.fields = cloneSlice(b.fields)
	c.joins = cloneSlice(b.joins)
	c.wheres = cloneSlice(b.wheres)
	c.havings = cloneSlice(b.havings)
	c.groups = cloneSlice(b.groups)
	c.orders = cloneSlice(b.orders)
	c.bindings = b.bindings.Clone()
	c.upsert = UpsertColumns{
		Unique: cloneSlice(b.upsert.Unique),
		Update: cloneSlice(b.upsert.Update),
	}
	if b.rows != nil {
		c.rows = make([]Row, len(b.rows))
		for i, r := range b.rows {
			row := make(Row, len(r))
			for k, v := range r {
				row[k] = v
			}
			c.rows[i] = row
		}
	}
	c.state = compilation{}
	if b.state.stage == compiled {
		c.state = compilation{
			stage:     compiled,
			sql:       b.state.sql,
			args:      cloneSlice(b.state.args),
			named:     b.state.named.Clone(),
			tokenized: b.state.tokenized,
		}
	}
	return &c
}

// When calls fn with b if condition is true.
//
//	qb.When(onlyActive, func(q *fluentquery.Builder) {
//	    q.Where("status", "active")
//	})
func (b *Builder) When(condition bool, fn func(*Builder)) *Builder {
	if condition {
		fn(b)
	}
	return b
}

// Unless calls fn with b if condition is false.
func (b *Builder) Unless(condition bool, fn func(*Builder)) *Builder {
	return b.When(!condition, fn)
}

// ----------------------------------------------------------------------------
// Getters
// ----------------------------------------------------------------------------

// The getters below expose the clause model. Slices are returned as copies.

// GetTable returns the table name, prefix included.
func (b *Builder) GetTable() string { return b.table }

// GetTableAlias returns the table alias.
func (b *Builder) GetTableAlias() string { return b.tableAlias }

// GetFields returns the select list.
func (b *Builder) GetFields() []string { return cloneSlice(b.fields) }

// IsDistinct reports whether SELECT DISTINCT is set.
func (b *Builder) IsDistinct() bool { return b.distinct }

// GetJoins returns the rendered join clauses.
func (b *Builder) GetJoins() []string { return cloneSlice(b.joins) }

// GetWheres returns the WHERE entries.
func (b *Builder) GetWheres() []Condition { return cloneSlice(b.wheres) }

// GetHavings returns the HAVING entries.
func (b *Builder) GetHavings() []Condition { return cloneSlice(b.havings) }

// GetGroupBy returns the GROUP BY columns.
func (b *Builder) GetGroupBy() []string { return cloneSlice(b.groups) }

// GetOrders returns the ORDER BY terms.
func (b *Builder) GetOrders() []string { return cloneSlice(b.orders) }

// GetLimit returns the rendered LIMIT clause.
func (b *Builder) GetLimit() string { return b.limit }

// GetBuildType returns the staged statement kind.
func (b *Builder) GetBuildType() BuildType { return b.buildType }

// GetDriver returns the driver used for UPSERT.
func (b *Builder) GetDriver() dialect.Driver { return b.driver }

// GetUpsert returns the UPSERT key and update columns.
func (b *Builder) GetUpsert() UpsertColumns { return b.upsert }

// IsCompiled reports whether a compiled statement is cached.
func (b *Builder) IsCompiled() bool { return b.state.stage == compiled }

// PlaceholderRewrite reports whether tokens are rewritten to "?".
func (b *Builder) PlaceholderRewrite() bool { return b.rewrite }

// TablePrefix returns the prefix added to table names.
func (b *Builder) TablePrefix() string { return b.prefix }

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func firstOr(values []string, fallback string) string {
	if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
		return values[0]
	}
	return fallback
}
