package models

// AnswerQuestionRequest is the inbound body of POST /api/ai/answer-question
type AnswerQuestionRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Question  string `json:"question" binding:"required"`
}

// EnrichedQuestionRequest is what the AI service receives on POST /answer-question
type EnrichedQuestionRequest struct {
	ProjectID string `json:"project_id"`
	Question  string `json:"question"`
	UserID    string `json:"user_id"`
}
