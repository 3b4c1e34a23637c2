package binding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		p := Generate()
		require.True(t, strings.HasPrefix(p, Prefix), p)
		require.True(t, IsPlaceholder(p), p)
		require.False(t, seen[p], "duplicate placeholder %s", p)
		seen[p] = true
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.False(t, IsPlaceholder("?"))
	assert.False(t, IsPlaceholder(":param_"))
	assert.False(t, IsPlaceholder(":name"))
	assert.False(t, IsPlaceholder("users.id"))
	assert.True(t, IsPlaceholder(":param_0123456789abcdef0123456789abcdef"))
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	s := NewSet()
	a := s.Bind(1)
	b := s.Bind("two")
	s.Add(a, 10)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{a, b}, s.Placeholders())
	assert.Equal(t, []any{10, "two"}, s.Values())

	v, ok := s.Lookup(b)
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestMergeAppends(t *testing.T) {
	parent := NewSet()
	p1 := parent.Bind("parent")

	child := NewSet()
	c1 := child.Bind("child")

	parent.Merge(child)
	parent.Merge(nil)

	assert.Equal(t, []string{p1, c1}, parent.Placeholders())
	assert.Equal(t, 1, child.Len())
}

func TestRewriteFollowsTextOrder(t *testing.T) {
	s := NewSet()
	late := s.Bind("late")
	early := s.Bind("early")

	query := "SELECT * FROM t WHERE a = " + early + " AND b = " + late
	sql, args := Rewrite(query, s)

	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", sql)
	assert.Equal(t, []any{"early", "late"}, args)
}

func TestRewriteRepeatedAndForeignTokens(t *testing.T) {
	s := NewSet()
	p := s.Bind(7)
	foreign := ":param_ffffffffffffffffffffffffffffffff"

	sql, args := Rewrite("x = "+p+" OR y = "+p+" OR z = "+foreign+" OR w = :name", s)

	assert.Equal(t, "x = ? OR y = ? OR z = "+foreign+" OR w = :name", sql)
	assert.Equal(t, []any{7, 7}, args)
}

func TestTokensAndClone(t *testing.T) {
	s := NewSet()
	a := s.Bind(nil)
	b := s.Bind(true)

	assert.Equal(t, []string{b, a}, Tokens(b+" "+a))

	c := s.Clone()
	c.Bind(3)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, map[string]any{a: nil, b: true}, s.Map())
}

func TestReplace(t *testing.T) {
	s := NewSet()
	a := s.Bind("x")

	out := Replace("a = "+a+" OR b = :name", func(token string) string {
		v, _ := s.Lookup(token)
		return "'" + v.(string) + "'"
	})
	assert.Equal(t, "a = 'x' OR b = :name", out)
}
