// Package dialect holds the per-database UPSERT generators of go-fluent-query.
//
// Every other statement the builder produces is dialect-agnostic; only
// UPSERT differs enough between engines to need its own generator. All
// adapters consume the same Upsert shape and receive a Binder through which
// they turn row values into placeholders, so the builder's binding pipeline
// stays the single owner of parameter order.
package dialect

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

// ----------------------------------------------------------------------------
// Drivers
// ----------------------------------------------------------------------------

// Driver names a database engine.
type Driver string

const (
	MySQL     Driver = "mysql"
	PgSQL     Driver = "pgsql"
	SQLite    Driver = "sqlite"
	SQLServer Driver = "sqlserver"
	Oracle    Driver = "oracle"
)

// driverAliases maps the names database/sql drivers and DSN schemes commonly
// use onto the canonical Driver values.
var driverAliases = map[string]Driver{
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"pgsql":      PgSQL,
	"postgres":   PgSQL,
	"postgresql": PgSQL,
	"pgx":        PgSQL,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
	"oracle":     Oracle,
	"oci8":       Oracle,
	"godror":     Oracle,
}

// String implements fmt.Stringer.
func (d Driver) String() string {
	return string(d)
}

// ParseDriver resolves a driver name or alias, case-insensitively.
func ParseDriver(name string) (Driver, error) {
	if d, ok := driverAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d, nil
	}
	return "", &DialectError{Driver: name, Err: ErrUnsupportedDriver}
}

// Drivers returns every driver that has an adapter.
func Drivers() []Driver {
	return []Driver{MySQL, PgSQL, SQLite, SQLServer, Oracle}
}

// ----------------------------------------------------------------------------
// Adapter contract
// ----------------------------------------------------------------------------

// Binder turns a literal value into a placeholder token and records the
// binding. The builder's binding set satisfies it.
type Binder interface {
	Bind(value any) string
}

// Upsert is the shared input of every adapter.
type Upsert struct {
	Table string
	Rows  []map[string]any
	// Columns is the column list of the statement, derived from the first row.
	Columns []string
	// UniqueColumns identify a conflicting row.
	UniqueColumns []string
	// UpdateColumns are overwritten when a row conflicts.
	UpdateColumns []string
}

// Adapter compiles an Upsert for one engine.
type Adapter interface {
	Driver() Driver
	CompileUpsert(u Upsert, b Binder) (string, error)
}

var adapters = map[Driver]Adapter{
	MySQL:     &MySQLAdapter{baseAdapter{driver: MySQL}},
	PgSQL:     &PgSQLAdapter{baseAdapter{driver: PgSQL}},
	SQLite:    &SQLiteAdapter{baseAdapter{driver: SQLite}},
	SQLServer: &SQLServerAdapter{baseAdapter{driver: SQLServer}},
	Oracle:    &OracleAdapter{baseAdapter{driver: Oracle}},
}

// For returns the adapter of d.
func For(d Driver) (Adapter, error) {
	a, ok := adapters[d]
	if !ok {
		return nil, &DialectError{Driver: string(d), Err: ErrUnsupportedDriver}
	}
	return a, nil
}

// baseAdapter carries what every adapter shares.
type baseAdapter struct {
	driver Driver
}

// Driver returns the engine the adapter generates SQL for.
func (a *baseAdapter) Driver() Driver {
	return a.driver
}

// validate checks the payload shape common to every adapter.
func (a *baseAdapter) validate(u Upsert) error {
	if len(u.Rows) == 0 || len(u.Columns) == 0 {
		return &DialectError{Driver: string(a.driver), Err: ErrEmptyUpsertPayload}
	}
	return nil
}

// bindRow binds the row's values in column order. Columns missing from the
// row are bound as NULL.
func bindRow(columns []string, row map[string]any, b Binder) []string {
	return lo.Map(columns, func(col string, _ int) string {
		return b.Bind(row[col])
	})
}

// tuple renders "(a, b, c)".
func tuple(items []string) string {
	return "(" + strings.Join(items, ", ") + ")"
}

// updateColumns returns the explicit update list, or every non-unique column
// when none was given.
func updateColumns(u Upsert) []string {
	if len(u.UpdateColumns) > 0 {
		return u.UpdateColumns
	}
	return lo.Without(u.Columns, u.UniqueColumns...)
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

// Sentinels re-exported by the root package.
var (
	ErrUnsupportedDriver  = errors.New("fluentquery: unsupported driver")
	ErrEmptyUpsertPayload = errors.New("fluentquery: upsert requires at least one row")
	ErrNoUniqueColumns    = errors.New("fluentquery: upsert requires unique columns for this driver")
)

// DialectError wraps a sentinel with the driver that raised it.
type DialectError struct {
	Driver string
	Err    error
}

// Error implements the error interface.
func (e *DialectError) Error() string {
	return e.Err.Error() + " (driver '" + e.Driver + "')"
}

// Unwrap exposes the sentinel to errors.Is.
func (e *DialectError) Unwrap() error {
	return e.Err
}
