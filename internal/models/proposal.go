package models

// AcceptProposalRequest is the inbound body of POST /api/ai/proposals/accept
type AcceptProposalRequest struct {
	ProposalID    string                 `json:"proposalId" binding:"required"`
	Modifications map[string]interface{} `json:"modifications,omitempty"`
}

// RejectProposalRequest is the inbound body of POST /api/ai/proposals/reject
type RejectProposalRequest struct {
	ProposalID string `json:"proposalId" binding:"required"`
	Feedback   string `json:"feedback,omitempty"`
}

// AcceptProposalResponse acknowledges an accepted proposal
type AcceptProposalResponse struct {
	Success    bool   `json:"success"`
	ProposalID string `json:"proposalId"`
	AppliedBy  string `json:"appliedBy"`
}

// RejectProposalResponse acknowledges a rejected proposal
type RejectProposalResponse struct {
	Success    bool   `json:"success"`
	ProposalID string `json:"proposalId"`
	RejectedBy string `json:"rejectedBy"`
}
