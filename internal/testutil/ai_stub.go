package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is one call received by the AI service stub
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// StubResponse is what the stub answers on a path
type StubResponse struct {
	Status int
	Body   string
}

// AIServiceStub is an httptest stand-in for the AI service that records
// every request it receives.
type AIServiceStub struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses map[string]StubResponse
}

// NewAIServiceStub starts a stub that answers /health with 200 and every
// other path with 404 until Respond is called.
func NewAIServiceStub(t *testing.T) *AIServiceStub {
	t.Helper()

	stub := &AIServiceStub{
		responses: map[string]StubResponse{
			"/health": {Status: http.StatusOK, Body: `{"status":"healthy"}`},
		},
	}
	stub.Server = httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(stub.Server.Close)
	return stub
}

// Respond sets the canned response for path
func (s *AIServiceStub) Respond(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = StubResponse{Status: status, Body: body}
}

// URL is the stub base URL
func (s *AIServiceStub) URL() string {
	return s.Server.URL
}

// Requests returns a copy of everything received so far
func (s *AIServiceStub) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// RequestsTo returns the recorded requests for one path
func (s *AIServiceStub) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *AIServiceStub) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

// ClosedURL returns a base URL nothing is listening on
func ClosedURL(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
