package fluentquery

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/biyonik/go-fluent-query/internal/binding"
)

// ToSQL compiles the statement if needed and returns it with every binding
// inlined as a literal. The output is meant for logs and inspection; it is
// not safe to execute.
//
// Bindings are substituted by placeholder token, so a "?" that is part of a
// literal or raw fragment is left as it is.
func (b *Builder) ToSQL() (string, error) {
	if _, err := b.CompileQuery(); err != nil {
		return "", err
	}
	return binding.Replace(b.state.tokenized, func(token string) string {
		v, ok := b.state.named.Lookup(token)
		if !ok {
			return token
		}
		return literal(v)
	}), nil
}

// literal renders v as an SQL literal.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(val)
	case []byte:
		return quote(string(val))
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return quote(val.Format(time.DateTime))
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return "NULL"
		}
		return literal(dv)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL"
		}
		return literal(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items, _ := toSlice(v)
		return strings.Join(lo.Map(items, func(item any, _ int) string {
			return literal(item)
		}), ", ")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v)
	case reflect.Bool:
		return literal(rv.Bool())
	}
	return quote(fmt.Sprint(v))
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
)

// quote single-quotes s with backslash escaping.
func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}
