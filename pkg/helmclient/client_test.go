package helmclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/helmhq/helm/ai-gateway/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	path          string
	authorization string
	body          []byte
}

func newGateway(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{path: r.URL.Path, authorization: r.Header.Get("Authorization"), body: b})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClient_Validate(t *testing.T) {
	srv, calls := newGateway(t, http.StatusOK, testutil.SampleValidationResponse)
	c := New(srv.URL, "user-token")

	resp, err := c.Validate(context.Background(), testutil.DefaultValidationRequest)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, models.SeverityWarning, resp.Issues[0].Severity)
	require.Len(t, resp.Proposals, 1)
	assert.Equal(t, models.ConfidenceHigh, resp.Proposals[0].Confidence)
	require.NotNil(t, resp.UsageStats)
	assert.Equal(t, int64(150), resp.UsageStats.TokensUsed)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/api/ai/validate", call.path)
	assert.Equal(t, "Bearer user-token", call.authorization)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(call.body, &sent))
	assert.Equal(t, "full", sent["validation_scope"])
	assert.NotContains(t, sent, "user_id")
}

func TestClient_AnswerQuestion(t *testing.T) {
	srv, calls := newGateway(t, http.StatusOK, testutil.SampleAnswerResponse)

	resp, err := New(srv.URL, "t").AnswerQuestion(context.Background(), "p1", "What is an entity?")
	require.NoError(t, err)
	assert.JSONEq(t, testutil.SampleAnswerResponse, string(resp))
	assert.JSONEq(t, `{"projectId":"p1","question":"What is an entity?"}`, string((*calls)[0].body))

	srv, _ = newGateway(t, http.StatusOK, `["answer one","answer two"]`)
	resp, err = New(srv.URL, "t").AnswerQuestion(context.Background(), "p1", "q")
	require.NoError(t, err)
	assert.JSONEq(t, `["answer one","answer two"]`, string(resp))
}

func TestClient_Proposals(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		srv, calls := newGateway(t, http.StatusOK, `{"success":true,"proposalId":"prop-1","appliedBy":"user-1"}`)

		resp, err := New(srv.URL, "t").AcceptProposal(context.Background(), "prop-1", map[string]any{"name": "X"})
		require.NoError(t, err)
		assert.Equal(t, &models.AcceptProposalResponse{Success: true, ProposalID: "prop-1", AppliedBy: "user-1"}, resp)
		assert.Equal(t, "/api/ai/proposals/accept", (*calls)[0].path)
	})

	t.Run("reject", func(t *testing.T) {
		srv, calls := newGateway(t, http.StatusOK, `{"success":true,"proposalId":"prop-1","rejectedBy":"user-1"}`)

		resp, err := New(srv.URL, "t").RejectProposal(context.Background(), "prop-1", "no")
		require.NoError(t, err)
		assert.Equal(t, "user-1", resp.RejectedBy)
		assert.JSONEq(t, `{"proposalId":"prop-1","feedback":"no"}`, string((*calls)[0].body))
	})
}

func TestClient_NonSuccessCollapsesToErrRequestFailed(t *testing.T) {
	statuses := []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict, http.StatusTooManyRequests, http.StatusInternalServerError}

	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _ := newGateway(t, status, `{"error":"AI validation failed","code":"INTERNAL_ERROR"}`)

			_, err := New(srv.URL, "t").Validate(context.Background(), testutil.DefaultValidationRequest)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRequestFailed)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, status, reqErr.StatusCode)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	_, err := New(testutil.ClosedURL(t), "t").AcceptProposal(context.Background(), "prop-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.StatusCode)
}
