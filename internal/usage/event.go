package usage

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/helmhq/helm/ai-gateway/internal/models"
)

// Operation names the AI call an event belongs to
type Operation string

const (
	OpValidate       Operation = "validate"
	OpAnswerQuestion Operation = "answer_question"
)

// Event is one metered AI call. Stats is nil when the AI service did not
// report usage; FailureKind is set when the call failed.
type Event struct {
	RequestID   string
	UserID      string
	ProjectID   string
	Operation   Operation
	Stats       *models.UsageStats
	FailureKind string
	Latency     time.Duration
	RecordedAt  time.Time
}

// Extract pulls usage_stats out of an AI service response body.
// Missing, null or malformed usage yields nil rather than an error.
func Extract(body []byte) *models.UsageStats {
	var envelope struct {
		UsageStats json.RawMessage `json:"usage_stats"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	raw := bytes.TrimSpace(envelope.UsageStats)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var stats models.UsageStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}
