package fluentquery

import (
	"sort"

	"github.com/samber/lo"
)

// Extension supplies operations the Builder does not implement itself.
// It is registered with WithExtension and reached through Call. The same
// Extension may be shared by many builders and must be safe for the way the
// host uses it.
type Extension interface {
	// Methods lists the operation names Call accepts.
	Methods() []string
	// Call runs method with args.
	Call(method string, args ...any) (any, error)
}

// MethodSet is an Extension backed by a map of functions.
//
//	ext := fluentquery.MethodSet{
//	    "paginate": func(args ...any) (any, error) { ... },
//	}
type MethodSet map[string]func(args ...any) (any, error)

// Methods implements Extension.
func (m MethodSet) Methods() []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}

// Call implements Extension.
func (m MethodSet) Call(method string, args ...any) (any, error) {
	fn, ok := m[method]
	if !ok || fn == nil {
		return nil, NewQueryError("call", "", ErrUndefinedMethod, method)
	}
	return fn(args...)
}

// Extension returns the registered extension.
func (b *Builder) Extension() (Extension, bool) {
	return b.extension, b.extension != nil
}

// Call forwards method and args to the registered extension. It fails with
// ErrUndefinedMethod when no extension is registered or the extension does
// not declare method.
func (b *Builder) Call(method string, args ...any) (any, error) {
	if b.extension == nil || !lo.Contains(b.extension.Methods(), method) {
		return nil, NewQueryError("call", b.table, ErrUndefinedMethod, method)
	}
	return b.extension.Call(method, args...)
}
