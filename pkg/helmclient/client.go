// Package helmclient is a Go client for the Helm AI gateway routes.
package helmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/helmhq/helm/ai-gateway/pkg/httpclient"
)

// ErrRequestFailed is returned for every non-2xx gateway response. The
// status is kept on *RequestError for diagnostics only.
var ErrRequestFailed = errors.New("helm: request failed")

// RequestError carries the status of a failed call
type RequestError struct {
	Op         string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("helm: %s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("helm: %s failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() []error {
	return []error{ErrRequestFailed, e.Err}
}

// Request and response shapes exchanged with the gateway
type (
	ValidationRequest      = models.ValidationRequest
	ValidationResponse     = models.ValidationResponse
	Issue                  = models.Issue
	Proposal               = models.Proposal
	UsageStats             = models.UsageStats
	AcceptProposalResponse = models.AcceptProposalResponse
	RejectProposalResponse = models.RejectProposalResponse
)

// Client calls the gateway on behalf of one signed-in user
type Client struct {
	connector *httpclient.Connector
}

// New creates a client for the gateway at baseURL authenticating with token
func New(baseURL, token string, opts ...httpclient.Option) *Client {
	opts = append([]httpclient.Option{
		httpclient.WithRequestTimeout(90 * time.Second),
		httpclient.WithBearerToken(token),
	}, opts...)

	return &Client{connector: httpclient.NewConnector(baseURL, opts...)}
}

// Validate asks the gateway to validate a component
func (c *Client) Validate(ctx context.Context, req models.ValidationRequest) (*models.ValidationResponse, error) {
	var resp models.ValidationResponse
	if err := c.do(ctx, "validate", "/api/ai/validate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnswerQuestion asks a free-form question about a project. The answer
// shape is owned by the AI service, so it is returned undecoded.
func (c *Client) AnswerQuestion(ctx context.Context, projectID, question string) (json.RawMessage, error) {
	var resp json.RawMessage
	req := models.AnswerQuestionRequest{ProjectID: projectID, Question: question}
	if err := c.do(ctx, "answer question", "/api/ai/answer-question", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) AcceptProposal(ctx context.Context, proposalID string, modifications map[string]any) (*models.AcceptProposalResponse, error) {
	var resp models.AcceptProposalResponse
	req := models.AcceptProposalRequest{ProposalID: proposalID, Modifications: modifications}
	if err := c.do(ctx, "accept proposal", "/api/ai/proposals/accept", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RejectProposal(ctx context.Context, proposalID, feedback string) (*models.RejectProposalResponse, error) {
	var resp models.RejectProposalResponse
	req := models.RejectProposalRequest{ProposalID: proposalID, Feedback: feedback}
	if err := c.do(ctx, "reject proposal", "/api/ai/proposals/reject", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, path string, req, resp any) error {
	err := c.connector.DoRequest(ctx, http.MethodPost, path, req, resp)
	if err == nil {
		return nil
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return &RequestError{Op: op, StatusCode: httpErr.StatusCode, Err: err}
	}
	return &RequestError{Op: op, Err: err}
}
