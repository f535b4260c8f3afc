package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("marked methods only", func(t *testing.T) {
		results, err := run(context.Background(), logger, runOptions{workers: 2, calls: 50, failEvery: 10, timerCapacity: 10})
		require.NoError(t, err)
		require.Len(t, results, 3)

		reserve, restock, audit := results[0], results[1], results[2]
		assert.Equal(t, int64(100), reserve.Calls)
		assert.Equal(t, int64(10), reserve.Failures)
		assert.True(t, reserve.Timed)
		assert.Equal(t, 10, reserve.Samples)

		assert.Equal(t, int64(100), restock.Calls)
		assert.False(t, restock.Timed)

		assert.False(t, audit.Counted)
		assert.False(t, audit.Timed)
	})

	t.Run("every method", func(t *testing.T) {
		results, err := run(context.Background(), logger, runOptions{workers: 1, calls: 5, timerCapacity: 3, everyMethod: true})
		require.NoError(t, err)

		audit := results[2]
		assert.True(t, audit.Counted)
		assert.Equal(t, int64(5), audit.Calls)
		assert.Equal(t, 3, results[0].Samples)
	})

	t.Run("breaker short-circuits failing reservations", func(t *testing.T) {
		results, err := run(context.Background(), logger, runOptions{workers: 1, calls: 10, failEvery: 1, timerCapacity: 10, breakerThreshold: 3})
		require.NoError(t, err)

		reserve := results[0]
		assert.Equal(t, int64(10), reserve.Calls)
		assert.Equal(t, int64(10), reserve.Failures)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := run(context.Background(), logger, runOptions{workers: 0, calls: 1, timerCapacity: 10})
		assert.Error(t, err)

		_, err = run(context.Background(), logger, runOptions{workers: 1, calls: 1, timerCapacity: 0})
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
