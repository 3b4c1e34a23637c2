// Package binding implements the placeholder staging area of the builder.
//
// While clauses are being accumulated every literal value is represented in
// the SQL text by a unique token (":param_<hex>") and stored in a Set under
// that token. Nested scopes and sub-queries each fill their own Set, which is
// merged into the parent afterwards, so insertion order and text order can
// disagree. Rewrite resolves that at compile time: it walks the finished SQL
// text left to right and produces the positional argument list.
package binding

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Prefix starts every generated placeholder token.
const Prefix = ":param_"

// tokenPattern matches exactly the tokens produced by Generate.
var tokenPattern = regexp.MustCompile(`:param_[0-9a-f]{32}`)

// Generate returns a fresh placeholder token.
func Generate() string {
	id := uuid.New()
	return Prefix + strings.ReplaceAll(id.String(), "-", "")
}

// IsPlaceholder reports whether s is a token produced by Generate.
func IsPlaceholder(s string) bool {
	return len(s) == len(Prefix)+32 && tokenPattern.MatchString(s)
}

// Set is an insertion-ordered placeholder → value map.
type Set struct {
	keys   []string
	values map[string]any
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{values: make(map[string]any)}
}

// Add stores value under placeholder. Re-adding a placeholder replaces its
// value but keeps its original position.
func (s *Set) Add(placeholder string, value any) {
	if _, ok := s.values[placeholder]; !ok {
		s.keys = append(s.keys, placeholder)
	}
	s.values[placeholder] = value
}

// Bind generates a placeholder for value, stores it and returns the token.
func (s *Set) Bind(value any) string {
	p := Generate()
	s.Add(p, value)
	return p
}

// Lookup returns the value stored under placeholder.
func (s *Set) Lookup(placeholder string) (any, bool) {
	v, ok := s.values[placeholder]
	return v, ok
}

// Merge appends every entry of other after the entries already present.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Add(k, other.values[k])
	}
}

// Len returns the number of staged bindings.
func (s *Set) Len() int {
	return len(s.keys)
}

// Placeholders returns the tokens in insertion order.
func (s *Set) Placeholders() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Values returns the staged values in insertion order.
func (s *Set) Values() []any {
	out := make([]any, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.values[k]
	}
	return out
}

// Map returns a copy of the placeholder → value map.
func (s *Set) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy of the Set.
func (s *Set) Clone() *Set {
	c := NewSet()
	c.Merge(s)
	return c
}

// Rewrite replaces every placeholder token in query with "?" and returns the
// values in the order the tokens occur in the text. A token that occurs twice
// yields its value twice. Tokens unknown to the set are left untouched.
func Rewrite(query string, s *Set) (string, []any) {
	args := make([]any, 0, s.Len())
	rewritten := tokenPattern.ReplaceAllStringFunc(query, func(token string) string {
		v, ok := s.values[token]
		if !ok {
			return token
		}
		args = append(args, v)
		return "?"
	})
	return rewritten, args
}

// Tokens returns the placeholder tokens of query in text order.
func Tokens(query string) []string {
	return tokenPattern.FindAllString(query, -1)
}

// Replace calls fn for every placeholder token of query, in text order, and
// substitutes its result.
func Replace(query string, fn func(token string) string) string {
	return tokenPattern.ReplaceAllStringFunc(query, fn)
}
