package fluentquery

import "github.com/biyonik/go-fluent-query/dialect"

// -----------------------------------------------------------------------------
//  Builder options.
//
//  A Builder is configured once, at construction, through small functional
//  options. Options survive Reset(): they describe the environment the
//  builder compiles for, not the query being built. Nested builders created
//  for grouped predicates and sub-queries inherit the driver, table prefix
//  and placeholder mode, but never the logger or the extension.
// -----------------------------------------------------------------------------

// Option configures a Builder.
type Option func(*Builder)

// WithDriver selects the dialect adapter used for UPSERT. Every other
// statement is dialect-agnostic. The default is MySQL.
//
// Example:
//
//	qb := fluentquery.New(fluentquery.WithDriver(dialect.PgSQL))
func WithDriver(d dialect.Driver) Option {
	return func(b *Builder) {
		b.driver = d
	}
}

// WithLogger sets the logger compile results are reported to when debug
// mode is on.
func WithLogger(logger Logger) Option {
	return func(b *Builder) {
		if logger == nil {
			logger = NopLogger{}
		}
		b.logger = logger
	}
}

// WithDebug turns compile logging on or off.
func WithDebug(enabled bool) Option {
	return func(b *Builder) {
		b.debug = enabled
	}
}

// WithTablePrefix prepends prefix to every table name given to Table and the
// join helpers.
//
//	qb := fluentquery.New(fluentquery.WithTablePrefix("app_"))
//	qb.Table("users") // app_users
func WithTablePrefix(prefix string) Option {
	return func(b *Builder) {
		b.prefix = prefix
	}
}

// WithExtension registers the collaborator that Call forwards to.
func WithExtension(ext Extension) Option {
	return func(b *Builder) {
		b.extension = ext
	}
}

// WithoutPlaceholderRewrite keeps the generated ":param_..." tokens in the
// compiled SQL instead of rewriting them to "?". Use NamedBindings to get the
// token → value map.
func WithoutPlaceholderRewrite() Option {
	return func(b *Builder) {
		b.rewrite = false
	}
}

// applyOptions applies opts in order, skipping nil entries.
func applyOptions(b *Builder, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
}
