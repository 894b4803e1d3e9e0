package ark

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockReply is what the mock service answers with
type MockReply struct {
	Content          string
	ReasoningContent string
	Usage            Usage
	// StatusCode other than 200 makes the mock reply with an error body
	StatusCode int
	// NoChoices makes a 200 reply with an empty choices list
	NoChoices bool
}

// MockArkService is a test HTTP server standing in for the chat completions endpoint
type MockArkService struct {
	*httptest.Server

	mu       sync.Mutex
	reply    MockReply
	requests []RecordedRequest
}

// RecordedRequest is a chat completion call captured by the mock
type RecordedRequest struct {
	Authorization string
	RequestID     string
	Body          ChatCompletionRequest
}

// NewMockArkService creates a test server for unit testing.
// The server is closed automatically when the test ends.
func NewMockArkService(t *testing.T, reply MockReply, logger Logger) *MockArkService {
	t.Helper()

	if logger == nil {
		logger = NewLogger(LogLevelError)
	}

	m := &MockArkService{reply: reply}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != ChatCompletionsEndpoint {
			logger.Warn("Mock server: unhandled %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}

		var body ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Mock server: failed to decode request: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(ClientRequestIDHeader),
			Body:          body,
		})
		reply := m.reply
		m.mu.Unlock()

		logger.Debug("Mock server: received chat completion for model %s", body.Model)

		w.Header().Set("Content-Type", "application/json")
		if reply.StatusCode != 0 && reply.StatusCode != http.StatusOK {
			w.WriteHeader(reply.StatusCode)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"code":    "MockError",
					"message": reply.Content,
					"type":    "BadRequest",
				},
			})
			return
		}

		resp := ChatCompletionResponse{
			ID:      "mock-completion",
			Object:  "chat.completion",
			Model:   body.Model,
			Usage:   reply.Usage,
			Choices: []Choice{},
		}
		if !reply.NoChoices {
			resp.Choices = append(resp.Choices, Choice{
				FinishReason: "stop",
				Message: ResponseMessage{
					Role:             "assistant",
					Content:          reply.Content,
					ReasoningContent: reply.ReasoningContent,
				},
			})
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("Mock server: failed to write response: %v", err)
		}
	}))
	t.Cleanup(m.Server.Close)

	return m
}

// Requests returns a copy of the captured calls
func (m *MockArkService) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]RecordedRequest, len(m.requests))
	copy(result, m.requests)
	return result
}
