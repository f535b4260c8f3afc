package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorContext(t *testing.T) {
	t.Run("Set and Get", func(t *testing.T) {
		ic := NewInterceptorContext()

		ic.Set("key1", "value1")
		ic.Set("key2", 42)

		val, exists := ic.Get("key1")
		assert.True(t, exists)
		assert.Equal(t, "value1", val)

		val, exists = ic.Get("key2")
		assert.True(t, exists)
		assert.Equal(t, 42, val)

		val, exists = ic.Get("nonexistent")
		assert.False(t, exists)
		assert.Nil(t, val)
	})

	t.Run("typed getters", func(t *testing.T) {
		ic := NewInterceptorContext()
		ic.Set("str", "value")
		ic.Set("num", 7)

		s, ok := ic.GetString("str")
		assert.True(t, ok)
		assert.Equal(t, "value", s)

		_, ok = ic.GetString("num")
		assert.False(t, ok)

		n, ok := ic.GetInt("num")
		assert.True(t, ok)
		assert.Equal(t, 7, n)

		_, ok = ic.GetInt("str")
		assert.False(t, ok)

		_, ok = ic.GetInt("missing")
		assert.False(t, ok)
	})

	t.Run("Delete and Clear", func(t *testing.T) {
		ic := NewInterceptorContext()
		ic.Set("a", 1)
		ic.Set("b", 2)

		ic.Delete("a")
		_, exists := ic.Get("a")
		assert.False(t, exists)

		ic.Clear()
		_, exists = ic.Get("b")
		assert.False(t, exists)
	})

	t.Run("Copy is independent", func(t *testing.T) {
		ic := NewInterceptorContext()
		ic.Set("a", 1)

		cp := ic.Copy()
		cp.Set("a", 2)

		val, _ := ic.Get("a")
		assert.Equal(t, 1, val)
		val, _ = cp.Get("a")
		assert.Equal(t, 2, val)
	})
}

func TestInterceptorContextOnContext(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		ic, ok := GetInterceptorContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, ic)
	})

	t.Run("round trip", func(t *testing.T) {
		ic := NewInterceptorContext()
		ctx := WithInterceptorContext(context.Background(), ic)

		got, ok := GetInterceptorContext(ctx)
		require.True(t, ok)
		assert.Same(t, ic, got)
	})
}
