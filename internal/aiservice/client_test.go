package aiservice

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/helmhq/helm/ai-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:            baseURL,
		Timeout:            2 * time.Second,
		BreakerMaxFailures: 3,
		BreakerOpenTimeout: time.Minute,
	}, zap.NewNop())
}

func sampleValidation() models.EnrichedValidationRequest {
	return models.EnrichedValidationRequest{
		ValidationRequest: models.ValidationRequest{
			ProjectID:       "p1",
			ComponentType:   "task",
			ComponentData:   map[string]interface{}{"title": "t"},
			ValidationScope: models.ScopeSelective,
		},
		UserID: "user-1",
	}
}

// closedURL returns a URL nothing is listening on
func closedURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectedKind   FailureKind
		expectedBody   string
	}{
		{
			name: "successful_validation",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/validate", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "user-1", body["user_id"])
				assert.Equal(t, "p1", body["project_id"])
				assert.Equal(t, "selective", body["validation_scope"])

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"success":true,"issues":[],"extra":"kept"}`))
			},
			expectedBody: `{"success":true,"issues":[],"extra":"kept"}`,
		},
		{
			name: "server_error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("model exploded"))
			},
			expectedKind: KindUpstreamStatus,
		},
		{
			name: "bad_request",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
			},
			expectedKind: KindUpstreamStatus,
		},
		{
			name: "invalid_json_response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			expectedKind: KindMalformedBody,
		},
		{
			name: "json_array_response",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[1,2,3]`))
			},
			expectedKind: KindMalformedBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			client := newTestClient(t, server.URL)
			body, err := client.Validate(context.Background(), sampleValidation())

			if tt.expectedKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, Classify(err))
				assert.Nil(t, body)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBody, string(body))
		})
	}
}

func TestClient_UpstreamStatusCarriesCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("gateway"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).AnswerQuestion(context.Background(), models.EnrichedQuestionRequest{
		ProjectID: "p1", Question: "why?", UserID: "u1",
	})

	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, KindUpstreamStatus, aiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, aiErr.StatusCode)
	assert.Equal(t, "gateway", aiErr.Body)
}

func TestClient_AnswerQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/answer-question", r.URL.Path)

		var body models.EnrichedQuestionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.EnrichedQuestionRequest{ProjectID: "p1", Question: "what is left?", UserID: "u1"}, body)

		w.Write([]byte(`{"answer":"nothing","usage_stats":{"tokens_used":5}}`))
	}))
	defer server.Close()

	body, err := newTestClient(t, server.URL).AnswerQuestion(context.Background(), models.EnrichedQuestionRequest{
		ProjectID: "p1", Question: "what is left?", UserID: "u1",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"nothing","usage_stats":{"tokens_used":5}}`, string(body))
}

func TestClient_AnswerQuestionAcceptsAnyJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array", body: `["answer one","answer two"]`},
		{name: "string", body: `"just text"`},
		{name: "object", body: `{"answer":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			body, err := newTestClient(t, server.URL).AnswerQuestion(context.Background(), models.EnrichedQuestionRequest{
				ProjectID: "p1", Question: "q", UserID: "u1",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestClient_AnswerQuestionRejectsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`answer: not json`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).AnswerQuestion(context.Background(), models.EnrichedQuestionRequest{
		ProjectID: "p1", Question: "q", UserID: "u1",
	})
	assert.Equal(t, KindMalformedBody, Classify(err))
}

func TestClient_ValidateRequiresObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["not","an","object"]`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Validate(context.Background(), sampleValidation())
	assert.Equal(t, KindMalformedBody, Classify(err))
}

func TestClient_ResponseHeaderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:               server.URL,
		Timeout:               5 * time.Second,
		ConnectTimeout:        time.Second,
		ResponseHeaderTimeout: 50 * time.Millisecond,
		KeepAlive:             time.Minute,
		IdleConnTimeout:       time.Minute,
		MaxIdleConnsPerHost:   2,
	}, zap.NewNop())

	start := time.Now()
	_, err := client.Validate(context.Background(), sampleValidation())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
	assert.Contains(t, []FailureKind{KindTimeout, KindTransport}, Classify(err))
}

func TestConfig_ConnectorOptions(t *testing.T) {
	base := Config{Timeout: time.Second, Token: "t"}
	assert.Len(t, base.connectorOptions(), 3)

	tuned := base
	tuned.ConnectTimeout = time.Second
	tuned.ResponseHeaderTimeout = time.Second
	tuned.KeepAlive = time.Second
	tuned.IdleConnTimeout = time.Second
	tuned.MaxIdleConnsPerHost = 4
	assert.Len(t, tuned.connectorOptions(), 8)
}

func TestClient_ConnectionRefused(t *testing.T) {
	client := newTestClient(t, closedURL(t))

	_, err := client.Validate(context.Background(), sampleValidation())
	require.Error(t, err)
	assert.Equal(t, KindTransport, Classify(err))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())

	_, err := client.Validate(context.Background(), sampleValidation())
	require.Error(t, err)
	assert.Equal(t, KindTimeout, Classify(err))
}

func TestClient_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, server.URL).Validate(ctx, sampleValidation())
	require.Error(t, err)
	assert.Equal(t, KindTimeout, Classify(err))
}

func TestClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for i := 0; i < 3; i++ {
		_, err := client.Validate(context.Background(), sampleValidation())
		assert.Equal(t, KindUpstreamStatus, Classify(err))
	}

	_, err := client.Validate(context.Background(), sampleValidation())
	assert.Equal(t, KindCircuitOpen, Classify(err))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), calls.Load(), "open breaker must not dial the upstream")

	assert.Equal(t, KindCircuitOpen, Classify(client.Health(context.Background())))
}

func TestClient_ClientErrorsDoNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	for i := 0; i < 10; i++ {
		_, err := client.Validate(context.Background(), sampleValidation())
		assert.Equal(t, KindUpstreamStatus, Classify(err))
	}
}

func TestClient_Health(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		healthy        bool
	}{
		{
			name: "healthy_service",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/health", r.URL.Path)
				w.Write([]byte(`{"status":"healthy"}`))
			},
			healthy: true,
		},
		{
			name: "unhealthy_service",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			healthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			err := newTestClient(t, server.URL).Health(context.Background())
			if tt.healthy {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestClient_BearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer svc-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", Token: "svc-token", Timeout: time.Second}, zap.NewNop())
	assert.Equal(t, server.URL, client.BaseURL())

	_, err := client.Validate(context.Background(), sampleValidation())
	require.NoError(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, FailureKind(""), Classify(nil))
	assert.Equal(t, KindUnknown, Classify(assert.AnError))
	assert.Equal(t, KindTimeout, Classify(&Error{Kind: KindTimeout}))
}
