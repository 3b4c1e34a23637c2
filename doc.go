// Package fluentquery provides a fluent SQL query generator for Go.
//
// go-fluent-query builds SQL text and an ordered list of bindings. It never
// connects to a database: hand the result to database/sql, sqlx or any other
// executor.
//
// # Quick Start
//
//	qb := fluentquery.New()
//
//	query, args, err := qb.Table("users").
//	    Select("id", "name", "email").
//	    Where("status", "active").
//	    OrderBy("created_at", "DESC").
//	    Limit(10).
//	    Build()
//	// SELECT id, name, email FROM users WHERE status = ? ORDER BY created_at DESC LIMIT 10
//
//	rows, err := db.QueryContext(ctx, query, args...)
//
// # Where Clauses
//
//	qb.Where("age", ">", 18)
//	qb.OrWhere("role", "admin")
//	qb.WhereIn("status", []string{"active", "pending"})
//	qb.WhereBetween("age", 18, 65)
//	qb.WhereNull("deleted_at")
//	qb.WhereRaw("YEAR(created_at) = ?", 2024)
//
// Groups nest through a callback that receives a fresh builder:
//
//	qb.Table("users").
//	    Where("active", true).
//	    Where(func(q *fluentquery.Builder) {
//	        q.Where("role", "admin").OrWhere("role", "owner")
//	    })
//	// ... WHERE active = ? AND ( role = ? OR role = ? )
//
// # Placeholders
//
// Values are staged under unique ":param_" tokens while a query is built and
// rewritten to "?" at compile time, in the order they appear in the text.
// Sub-queries and groups can therefore be composed in any order without
// misaligning bindings. WithoutPlaceholderRewrite keeps the tokens; read them
// back with NamedBindings.
//
// # Insert, Update, Upsert, Delete
//
//	qb.Table("users").Insert([]fluentquery.Row{
//	    {"name": "John", "email": "john@example.com"},
//	    {"name": "Jane", "email": "jane@example.com"},
//	})
//
//	qb.Table("users").Where("id", 1).Update(fluentquery.Row{"name": "Johnny"})
//
//	qb.Table("posts").Where("id", 7).Update(fluentquery.Row{
//	    "views": fluentquery.NewRaw("views + ?", 1),
//	})
//	// UPDATE posts SET views = views + ? WHERE id = ?
//
//	qb.Table("users").Where("id", 1).Delete()
//
// A delete without a WHERE condition is refused with
// ErrUnconditionalDeleteForbidden.
//
// UPSERT is the only dialect-specific statement. Pick the driver with
// WithDriver:
//
//	fluentquery.New(fluentquery.WithDriver(dialect.PgSQL)).
//	    Table("users").
//	    Upsert(rows, []string{"id"}, "name")
//	// INSERT INTO users (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
//
// # Errors
//
// Fluent methods cannot return errors, so the first failing call is
// recorded on the builder. Err reports it right away and every compile
// entry point returns it:
//
//	qb.Table("users").Where("age", "~", 18)
//	errors.Is(qb.Err(), fluentquery.ErrInvalidOperator) // true
//
// # Debugging
//
// ToSQL inlines every binding into the statement. Its output is for logs
// only and must not be executed.
package fluentquery
