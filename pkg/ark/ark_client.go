package ark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoChoices is returned when a successful response carries no choices
var ErrNoChoices = errors.New("response contains no choices")

// ChatCompleter sends one chat completion request and returns the decoded response
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// APIError is a non-2xx reply from the service
type APIError struct {
	StatusCode int    `json:"-"`
	RequestID  string `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Param      string `json:"param,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ark api error (status %d, code %s, request %s): %s", e.StatusCode, e.Code, e.RequestID, e.Message)
	}
	return fmt.Sprintf("ark api error (status %d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
}

// ArkClient talks to the Ark chat completions endpoint
type ArkClient struct {
	logger     Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures an ArkClient
type ClientOption func(*ArkClient)

// WithBaseURL overrides the service base URL, an empty value keeps the default
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ArkClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the request timeout on a copy of the current HTTP client,
// so a client passed to WithHTTPClient is left untouched
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ArkClient) {
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

// WithHTTPClient sets a custom HTTP client, nil keeps the current one
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *ArkClient) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewArkClient creates a new Ark client
func NewArkClient(apiKey string, logger Logger, opts ...ClientOption) *ArkClient {
	if logger == nil {
		logger = NewLogger(LogLevelError)
	}

	c := &ArkClient{
		logger:  logger,
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the endpoint root the client sends to
func (c *ArkClient) BaseURL() string {
	return c.baseURL
}

// CreateChatCompletion issues one blocking chat completion call
func (c *ArkClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + ChatCompletionsEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set(ClientRequestIDHeader, requestID)

	c.logger.Debug("Sending chat completion to %s (model %s, request %s, %d bytes)", url, req.Model, requestID, len(jsonData))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Trace("Raw chat completion response (status %d): %s", resp.StatusCode, string(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, requestID, body)
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chat completion response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, ErrNoChoices
	}

	c.logger.Debug("Chat completion %s done: %d total tokens", result.ID, result.Usage.TotalTokens)

	return &result, nil
}

// decodeAPIError reads {"error": {...}} bodies, falling back to the raw text
func decodeAPIError(status int, requestID string, body []byte) error {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = status
		envelope.Error.RequestID = requestID
		return envelope.Error
	}

	return &APIError{
		StatusCode: status,
		RequestID:  requestID,
		Message:    strings.TrimSpace(string(body)),
	}
}
