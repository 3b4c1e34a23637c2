package fluentquery

// Scope embeds a Builder in a domain type so that query methods return the
// domain type instead of the builder.
//
//	type UserRepo struct {
//	    *fluentquery.Scope[*UserRepo]
//	}
//
//	func NewUserRepo() *UserRepo {
//	    r := &UserRepo{}
//	    r.Scope = fluentquery.NewScope(r)
//	    return r
//	}
//
//	func (r *UserRepo) Active() *UserRepo {
//	    return r.Where("status", "active")
//	}
//
//	sql, args, err := repo.Table("users").Active().Limit(10).Build()
//
// Table starts a new query: it resets the builder first.
type Scope[O any] struct {
	owner   O
	builder *Builder
}

// NewScope returns a Scope that hands owner back from every fluent method.
func NewScope[O any](owner O, opts ...Option) *Scope[O] {
	return &Scope[O]{owner: owner, builder: New(opts...)}
}

// Query returns the underlying builder.
func (s *Scope[O]) Query() *Builder {
	return s.builder
}

// Table resets the builder and sets the table.
func (s *Scope[O]) Table(name string, alias ...string) O {
	s.builder.Reset().Table(name, alias...)
	return s.owner
}

// Select forwards to Builder.Select.
func (s *Scope[O]) Select(fields ...string) O {
	s.builder.Select(fields...)
	return s.owner
}

// Distinct forwards to Builder.Distinct.
func (s *Scope[O]) Distinct() O {
	s.builder.Distinct()
	return s.owner
}

// Where forwards to Builder.Where.
func (s *Scope[O]) Where(column any, args ...any) O {
	s.builder.Where(column, args...)
	return s.owner
}

// OrWhere forwards to Builder.OrWhere.
func (s *Scope[O]) OrWhere(column any, args ...any) O {
	s.builder.OrWhere(column, args...)
	return s.owner
}

// WhereIn forwards to Builder.WhereIn.
func (s *Scope[O]) WhereIn(column string, values any) O {
	s.builder.WhereIn(column, values)
	return s.owner
}

// WhereNotIn forwards to Builder.WhereNotIn.
func (s *Scope[O]) WhereNotIn(column string, values any) O {
	s.builder.WhereNotIn(column, values)
	return s.owner
}

// WhereNull forwards to Builder.WhereNull.
func (s *Scope[O]) WhereNull(column string) O {
	s.builder.WhereNull(column)
	return s.owner
}

// WhereNotNull forwards to Builder.WhereNotNull.
func (s *Scope[O]) WhereNotNull(column string) O {
	s.builder.WhereNotNull(column)
	return s.owner
}

// WhereLike forwards to Builder.WhereLike.
func (s *Scope[O]) WhereLike(column, pattern string) O {
	s.builder.WhereLike(column, pattern)
	return s.owner
}

// WhereBetween forwards to Builder.WhereBetween.
func (s *Scope[O]) WhereBetween(column string, values ...any) O {
	s.builder.WhereBetween(column, values...)
	return s.owner
}

// WhereRaw forwards to Builder.WhereRaw.
func (s *Scope[O]) WhereRaw(expr string, bindings ...any) O {
	s.builder.WhereRaw(expr, bindings...)
	return s.owner
}

// WhereExists forwards to Builder.WhereExists.
func (s *Scope[O]) WhereExists(fn func(*Builder)) O {
	s.builder.WhereExists(fn)
	return s.owner
}

// Having forwards to Builder.Having.
func (s *Scope[O]) Having(column any, args ...any) O {
	s.builder.Having(column, args...)
	return s.owner
}

// Join forwards to Builder.Join.
func (s *Scope[O]) Join(table, first, operator, second string) O {
	s.builder.Join(table, first, operator, second)
	return s.owner
}

// LeftJoin forwards to Builder.LeftJoin.
func (s *Scope[O]) LeftJoin(table, first, operator, second string) O {
	s.builder.LeftJoin(table, first, operator, second)
	return s.owner
}

// GroupBy forwards to Builder.GroupBy.
func (s *Scope[O]) GroupBy(fields ...string) O {
	s.builder.GroupBy(fields...)
	return s.owner
}

// OrderBy forwards to Builder.OrderBy.
func (s *Scope[O]) OrderBy(column, direction string) O {
	s.builder.OrderBy(column, direction)
	return s.owner
}

// Limit forwards to Builder.Limit.
func (s *Scope[O]) Limit(offset int, count ...int) O {
	s.builder.Limit(offset, count...)
	return s.owner
}

// Page forwards to Builder.Page.
func (s *Scope[O]) Page(page, perPage int) O {
	s.builder.Page(page, perPage)
	return s.owner
}

// Count forwards to Builder.Count.
func (s *Scope[O]) Count(column ...string) O {
	s.builder.Count(column...)
	return s.owner
}

// Insert forwards to Builder.Insert.
func (s *Scope[O]) Insert(data any) O {
	s.builder.Insert(data)
	return s.owner
}

// Update forwards to Builder.Update.
func (s *Scope[O]) Update(row Row) O {
	s.builder.Update(row)
	return s.owner
}

// Upsert forwards to Builder.Upsert.
func (s *Scope[O]) Upsert(data any, unique []string, update ...string) O {
	s.builder.Upsert(data, unique, update...)
	return s.owner
}

// Delete forwards to Builder.Delete.
func (s *Scope[O]) Delete() O {
	s.builder.Delete()
	return s.owner
}

// Exists forwards to Builder.Exists.
func (s *Scope[O]) Exists() O {
	s.builder.Exists()
	return s.owner
}

// When forwards to Builder.When.
func (s *Scope[O]) When(condition bool, fn func(*Builder)) O {
	s.builder.When(condition, fn)
	return s.owner
}

// Reset clears the builder.
func (s *Scope[O]) Reset() O {
	s.builder.Reset()
	return s.owner
}

// Terminal operations return results, not the owner.

// CompileQuery compiles the underlying builder.
func (s *Scope[O]) CompileQuery() (string, error) { return s.builder.CompileQuery() }

// Bindings returns the positional bindings.
func (s *Scope[O]) Bindings() []any { return s.builder.Bindings() }

// Build compiles and returns the statement with its bindings.
func (s *Scope[O]) Build() (string, []any, error) { return s.builder.Build() }

// ToSQL renders the statement with bindings inlined.
func (s *Scope[O]) ToSQL() (string, error) { return s.builder.ToSQL() }

// Err returns the first recorded error.
func (s *Scope[O]) Err() error { return s.builder.Err() }

// Call invokes an extension method.
func (s *Scope[O]) Call(m string, a ...any) (any, error) { return s.builder.Call(m, a...) }
