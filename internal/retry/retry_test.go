package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fastConfig(attempts uint) Config {
	return Config{Attempts: attempts, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	calls := 0

	err := Do(context.Background(), fastConfig(5), zap.New(core), "database", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	entries := logs.FilterMessage("probe attempt failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "database", entries[0].ContextMap()["probe"])
}

func TestDo_ReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), zap.NewNop(), "ai-service", func(context.Context) error {
		calls++
		return errors.New("still down")
	})

	require.Error(t, err)
	assert.Equal(t, "still down", err.Error())
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, Config{Attempts: 10, Delay: 50 * time.Millisecond, MaxDelay: time.Second}, zap.NewNop(), "database", func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), fastConfig(0), zap.NewNop(), "database", func(context.Context) error {
		calls++
		return errors.New("down")
	})
	assert.Equal(t, 1, calls)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint(5), cfg.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Delay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
}
