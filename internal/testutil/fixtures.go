package testutil

import (
	"encoding/json"

	"github.com/helmhq/helm/ai-gateway/internal/models"
)

// SampleValidationResponse is a complete AI service answer to /validate
const SampleValidationResponse = `{"success":true,"issues":[{"field":"name","issue_type":"naming","message":"Component name should be descriptive","severity":"warning","suggestion":"Rename to CustomerRecord"}],"proposals":[{"proposal_type":"rename","component_type":"entity","component_id":"c1","changes":{"name":"CustomerRecord"},"rationale":"Clearer intent","confidence":"high","evidence":["naming guide"],"estimated_impact":"low"}],"usage_stats":{"tokens_used":150,"estimated_cost":0.003,"provider":"openai","model":"gpt-4o-mini"},"processing_time_ms":1200}`

// SampleAnswerResponse is an AI service answer to /answer-question
const SampleAnswerResponse = `{"answer":"Entities describe persistent records.","sources":["docs/entities.md"],"usage_stats":{"tokens_used":80,"estimated_cost":0.001,"provider":"openai","model":"gpt-4o-mini"}}`

// DefaultValidationRequest is a valid body for POST /api/ai/validate
var DefaultValidationRequest = models.ValidationRequest{
	ProjectID:       "proj-1",
	ComponentType:   "entity",
	ComponentData:   map[string]any{"name": "Customer", "fields": []any{"id", "email"}},
	ValidationScope: models.ScopeFull,
}

// ToJSON marshals a fixture, ignoring errors
func ToJSON(fixture any) string {
	data, _ := json.Marshal(fixture)
	return string(data)
}

// FromJSON parses a JSON object into a map, ignoring errors
func FromJSON(jsonStr string) map[string]any {
	var result map[string]any
	_ = json.Unmarshal([]byte(jsonStr), &result)
	return result
}
