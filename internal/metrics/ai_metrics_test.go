package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIMetrics_Creation(t *testing.T) {
	t.Run("successfully create ai metrics", func(t *testing.T) {
		metrics, err := NewAIMetrics()
		require.NoError(t, err)
		assert.NotNil(t, metrics)
		assert.NotNil(t, metrics.requestsCounter)
		assert.NotNil(t, metrics.failuresCounter)
		assert.NotNil(t, metrics.tokensCounter)
		assert.NotNil(t, metrics.costCounter)
		assert.NotNil(t, metrics.latencyHistogram)
	})
}

func TestAIMetrics_RecordUsage(t *testing.T) {
	metrics, err := NewAIMetrics()
	require.NoError(t, err)

	t.Run("record usage with stats", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RecordUsage(context.Background(), "validate", "anthropic", "claude-3-haiku", 120, 0.002, 340*time.Millisecond)
		})
	})

	t.Run("record usage without stats", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RecordUsage(context.Background(), "answer_question", "", "", 0, 0, time.Second)
		})
	})
}

func TestAIMetrics_RecordFailure(t *testing.T) {
	metrics, err := NewAIMetrics()
	require.NoError(t, err)

	kinds := []string{"upstream_status", "transport", "timeout", "circuit_open", "malformed_body"}
	for i, kind := range kinds {
		assert.NotPanics(t, func() {
			metrics.RecordFailure(context.Background(), "validate", kind, time.Duration(i+1)*time.Second)
		})
	}
}

func TestAIMetrics_ConcurrentRecording(t *testing.T) {
	metrics, err := NewAIMetrics()
	require.NoError(t, err)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			if id%2 == 0 {
				metrics.RecordUsage(context.Background(), "validate", "openai", "gpt-4o-mini", int64(id*10), 0.001, time.Duration(id)*time.Millisecond)
			} else {
				metrics.RecordFailure(context.Background(), "validate", "timeout", time.Duration(id)*time.Millisecond)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
