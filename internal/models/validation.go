package models

// ValidationScope is the caller-selected breadth of AI validation
type ValidationScope string

const (
	ScopeRulesOnly ValidationScope = "rules_only"
	ScopeSelective ValidationScope = "selective"
	ScopeFull      ValidationScope = "full"
)

// Valid reports whether the scope is one of the three accepted values
func (s ValidationScope) Valid() bool {
	switch s {
	case ScopeRulesOnly, ScopeSelective, ScopeFull:
		return true
	}
	return false
}

// Severity of a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Confidence of an AI proposal
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ValidationRequest is the inbound body of POST /api/ai/validate.
// Identity fields are deliberately absent: user_id comes from the bearer token.
type ValidationRequest struct {
	ProjectID       string                 `json:"project_id" binding:"required"`
	ComponentType   string                 `json:"component_type" binding:"required"`
	ComponentID     string                 `json:"component_id,omitempty"`
	ComponentData   map[string]interface{} `json:"component_data" binding:"required"`
	ValidationScope ValidationScope        `json:"validation_scope" binding:"required,oneof=rules_only selective full"`
	AIProvider      string                 `json:"ai_provider,omitempty"`
	AIModel         string                 `json:"ai_model,omitempty"`
}

// EnrichedValidationRequest is what the AI service receives on POST /validate
type EnrichedValidationRequest struct {
	ValidationRequest
	UserID string `json:"user_id"`
}

// ValidationResponse mirrors the AI service /validate response
type ValidationResponse struct {
	Success          bool        `json:"success"`
	Issues           []Issue     `json:"issues"`
	Proposals        []Proposal  `json:"proposals"`
	UsageStats       *UsageStats `json:"usage_stats,omitempty"`
	ProcessingTimeMS float64     `json:"processing_time_ms"`
}

// Issue is a validation finding against submitted component data
type Issue struct {
	Field      string   `json:"field"`
	IssueType  string   `json:"issue_type"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Proposal is a suggested change to a project component
type Proposal struct {
	ProposalType    string                 `json:"proposal_type"`
	ComponentType   string                 `json:"component_type"`
	ComponentID     string                 `json:"component_id,omitempty"`
	Changes         map[string]interface{} `json:"changes"`
	Rationale       string                 `json:"rationale"`
	Confidence      Confidence             `json:"confidence"`
	Evidence        []string               `json:"evidence"`
	EstimatedImpact string                 `json:"estimated_impact"`
}

// UsageStats is token/cost metadata returned alongside AI responses
type UsageStats struct {
	TokensUsed    int64   `json:"tokens_used"`
	EstimatedCost float64 `json:"estimated_cost"`
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
}
