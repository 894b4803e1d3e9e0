package imgcmp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vifex/ai-img-cmp/pkg/ark"
)

// stubClient answers every call with a fixed response
type stubClient struct {
	resp     *ark.ChatCompletionResponse
	err      error
	requests []*ark.ChatCompletionRequest
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req *ark.ChatCompletionRequest) (*ark.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func replyWith(content, reasoning string) *stubClient {
	return &stubClient{resp: &ark.ChatCompletionResponse{
		Choices: []ark.Choice{{Message: ark.ResponseMessage{Content: content, ReasoningContent: reasoning}}},
		Usage:   ark.Usage{TotalTokens: 120, PromptTokens: 100, CompletionTokens: 20},
	}}
}

func testConfig(t *testing.T, thinking ThinkingMode) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DesignImage = writeImage(t, "design.png", pngHeader)
	cfg.DeviceImage = writeImage(t, "device.jpg", []byte("device bytes"))
	cfg.Thinking = thinking
	return cfg
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed("Yes"))
	for _, reply := range []string{"yes", "Yes.", "Yes ", " Yes", "YES", "No, colors differ", ""} {
		assert.False(t, Passed(reply), "reply %q must not pass", reply)
	}
}

func TestBuildRequestOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "m"
	cfg.Prompt = "compare"
	cfg.Thinking = ThinkingEnabled

	req := BuildRequest(cfg, "data:image/png;base64,AA", "data:image/png;base64,BB")

	assert.Equal(t, "m", req.Model)
	require.NotNil(t, req.Thinking)
	assert.Equal(t, "enabled", req.Thinking.Type)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, ark.RoleUser, req.Messages[0].Role)

	parts := req.Messages[0].Content
	require.Len(t, parts, 3)
	assert.Equal(t, ark.ImagePart("data:image/png;base64,AA"), parts[0])
	assert.Equal(t, ark.ImagePart("data:image/png;base64,BB"), parts[1])
	assert.Equal(t, ark.TextPart("compare"), parts[2])
}

func TestRunPassed(t *testing.T) {
	client := replyWith("Yes", "")
	var out bytes.Buffer
	cfg := testConfig(t, ThinkingDisabled)

	result, err := NewComparator(client, &out, nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, result.Passed)

	report := out.String()
	for _, line := range []string{
		"image design: " + cfg.DesignImage,
		"image device: " + cfg.DeviceImage,
		"model: doubao-seed-1-6-250615",
		"thinking: disabled",
		"  Total tokens: 120",
		"  Prompt tokens: 100",
		"  Completion tokens: 20",
		"Model response:\nYes\n",
	} {
		assert.Contains(t, report, line)
	}
	assert.True(t, strings.HasSuffix(report, PassedLine+"\n"))
	assert.NotContains(t, report, FailedLine)

	require.Len(t, client.requests, 1)
	parts := client.requests[0].Messages[0].Content
	assert.True(t, strings.HasPrefix(parts[0].ImageURL.URL, "data:image/png;base64,"))
	assert.Equal(t, "data:image/jpg;base64,ZGV2aWNlIGJ5dGVz", parts[1].ImageURL.URL)
	assert.Equal(t, DefaultPrompt, parts[2].Text)
}

func TestRunFailedReplies(t *testing.T) {
	for _, reply := range []string{"yes", "Yes.", "No, colors differ"} {
		t.Run(reply, func(t *testing.T) {
			var out bytes.Buffer
			result, err := NewComparator(replyWith(reply, ""), &out, nil).Run(context.Background(), testConfig(t, ThinkingDisabled))
			require.NoError(t, err)
			assert.False(t, result.Passed)
			assert.True(t, strings.HasSuffix(out.String(), FailedLine+"\n"))
		})
	}
}

func TestRunReasoning(t *testing.T) {
	testCases := []struct {
		mode  ThinkingMode
		shown bool
	}{
		{ThinkingDisabled, false},
		{ThinkingEnabled, true},
		{ThinkingAuto, true},
	}

	for _, tc := range testCases {
		t.Run(string(tc.mode), func(t *testing.T) {
			var out bytes.Buffer
			_, err := NewComparator(replyWith("Yes", "the clock hands match"), &out, nil).Run(context.Background(), testConfig(t, tc.mode))
			require.NoError(t, err)

			if tc.shown {
				assert.Contains(t, out.String(), "\nModel thinking: the clock hands match\n")
			} else {
				assert.NotContains(t, out.String(), "Model thinking")
				assert.NotContains(t, out.String(), "the clock hands match")
			}
		})
	}
}

func TestRunMissingDesignStopsBeforeDevice(t *testing.T) {
	client := replyWith("Yes", "")
	var out bytes.Buffer
	cfg := testConfig(t, ThinkingDisabled)
	cfg.DesignImage = cfg.DesignImage + ".missing"
	cfg.DeviceImage = cfg.DeviceImage + ".missing"

	_, err := NewComparator(client, &out, nil).Run(context.Background(), cfg)

	var imgErr *ImageError
	require.True(t, errors.As(err, &imgErr))
	assert.Equal(t, cfg.DesignImage, imgErr.Path)
	assert.Empty(t, client.requests, "no call may be made without both images")
	assert.NotContains(t, out.String(), "Sending images")
}

func TestRunMissingDevice(t *testing.T) {
	client := replyWith("Yes", "")
	cfg := testConfig(t, ThinkingDisabled)
	cfg.DeviceImage = cfg.DeviceImage + ".missing"

	_, err := NewComparator(client, &bytes.Buffer{}, nil).Run(context.Background(), cfg)
	require.ErrorIs(t, err, ErrImageNotFound)
	assert.Contains(t, err.Error(), cfg.DeviceImage)
	assert.Empty(t, client.requests)
}

func TestRunRemoteError(t *testing.T) {
	boom := errors.New("connection reset")
	client := &stubClient{err: boom}

	_, err := NewComparator(client, &bytes.Buffer{}, nil).Run(context.Background(), testConfig(t, ThinkingDisabled))

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.ErrorIs(t, err, boom)
}

func TestRunEmptyChoices(t *testing.T) {
	client := &stubClient{resp: &ark.ChatCompletionResponse{}}

	_, err := NewComparator(client, &bytes.Buffer{}, nil).Run(context.Background(), testConfig(t, ThinkingDisabled))
	assert.ErrorIs(t, err, ark.ErrNoChoices)
}

func TestRunAgainstMockService(t *testing.T) {
	mock := ark.NewMockArkService(t, ark.MockReply{
		Content: "Yes",
		Usage:   ark.Usage{TotalTokens: 120, PromptTokens: 100, CompletionTokens: 20},
	}, nil)
	client := ark.NewArkClient("key", nil, ark.WithBaseURL(mock.URL))

	var out bytes.Buffer
	result, err := NewComparator(client, &out, nil).Run(context.Background(), testConfig(t, ThinkingAuto))
	require.NoError(t, err)
	assert.True(t, result.Passed)

	requests := mock.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "auto", requests[0].Body.Thinking.Type)
	assert.Equal(t, DefaultModel, requests[0].Body.Model)
}
