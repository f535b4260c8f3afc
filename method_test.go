package interpose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/interpose/contracts"
)

func TestMethodOf(t *testing.T) {
	svc := &inventory{}
	none := contracts.NewMarkers()

	t.Run("describes the method", func(t *testing.T) {
		method, _, err := MethodOf(svc, "IntMethod", contracts.NewMarkers(tracked), contracts.NewMarkers(count))
		require.NoError(t, err)

		assert.Equal(t, "github.com/glimte/interpose.inventory", method.ID.Type)
		assert.Equal(t, "IntMethod", method.ID.Method)
		assert.Equal(t, "func() int", method.ID.Signature)
		assert.True(t, method.TypeMarkers.Has(tracked))
		assert.True(t, method.MethodMarkers.Has(count))
	})

	t.Run("single value result", func(t *testing.T) {
		_, target, err := MethodOf(svc, "IntMethod", none, none)
		require.NoError(t, err)
		assert.Equal(t, 42, call(t, target))
	})

	t.Run("no result", func(t *testing.T) {
		_, target, err := MethodOf(svc, "VoidMethod", none, none)
		require.NoError(t, err)
		assert.Nil(t, call(t, target))
	})

	t.Run("error result", func(t *testing.T) {
		_, target, err := MethodOf(svc, "Check", none, none)
		require.NoError(t, err)

		assert.Nil(t, call(t, target, true))
		_, err = target(context.Background(), []interface{}{false})
		assert.Same(t, errOutOfStock, err)
	})

	t.Run("context parameter receives the call context", func(t *testing.T) {
		_, target, err := MethodOf(svc, "Reserve", none, none)
		require.NoError(t, err)

		result, err := target(context.Background(), []interface{}{"sku", 2})
		require.NoError(t, err)
		assert.Equal(t, 2, result)

		//nolint:staticcheck // nil context is replaced by context.Background
		result, err = target(nil, []interface{}{"sku", 1})
		require.NoError(t, err)
		assert.Equal(t, 1, result)
	})

	t.Run("variadic parameters", func(t *testing.T) {
		_, target, err := MethodOf(svc, "Sum", none, none)
		require.NoError(t, err)

		assert.Equal(t, 1, call(t, target, 1))
		assert.Equal(t, 6, call(t, target, 1, 2, 3))

		_, err = target(context.Background(), nil)
		assert.ErrorIs(t, err, ErrArgumentMismatch)
	})

	t.Run("nil argument for nillable parameter", func(t *testing.T) {
		_, target, err := MethodOf(svc, "Labels", none, none)
		require.NoError(t, err)
		assert.Equal(t, 0, call(t, target, nil))
	})

	t.Run("argument mismatch", func(t *testing.T) {
		counted := &inventory{}
		_, target, err := MethodOf(counted, "Reserve", none, none)
		require.NoError(t, err)

		tests := map[string][]interface{}{
			"too few":     {"sku"},
			"too many":    {"sku", 1, 2},
			"wrong type":  {"sku", "one"},
			"nil for int": {"sku", nil},
		}
		for name, args := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := target(context.Background(), args)
				assert.ErrorIs(t, err, ErrArgumentMismatch)
			})
		}
		assert.Equal(t, int64(0), counted.calls.Load())
	})

	t.Run("unsupported signature", func(t *testing.T) {
		_, _, err := MethodOf(svc, "Pair", none, none)
		assert.ErrorIs(t, err, ErrUnsupportedSignature)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, _, err := MethodOf(svc, "Missing", none, none)
		var notFound *contracts.MethodNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Missing", notFound.Method)
	})

	t.Run("nil receiver", func(t *testing.T) {
		_, _, err := MethodOf(nil, "IntMethod", none, none)
		assert.Error(t, err)
	})
}
