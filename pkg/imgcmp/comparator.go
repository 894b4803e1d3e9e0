// Package imgcmp asks a multimodal model whether a device capture matches its design image.
package imgcmp

import (
	"context"
	"fmt"
	"io"

	"github.com/vifex/ai-img-cmp/pkg/ark"
)

const (
	// ExpectedReply is the only model reply counted as a pass
	ExpectedReply = "Yes"

	PassedLine = "测试通过 (test passed)"
	FailedLine = "测试未通过 (test failed)"
)

// RemoteError wraps a failure of the chat completion call
type RemoteError struct {
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("chat completion failed: %v", e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Result is what one comparison produced
type Result struct {
	Usage     ark.Usage
	Reasoning string
	Reply     string
	Passed    bool
}

// Comparator runs one design/device comparison and writes the report to Out
type Comparator struct {
	Client ark.ChatCompleter
	Out    io.Writer
	Logger ark.Logger
}

// NewComparator creates a comparator, a nil logger logs errors only
func NewComparator(client ark.ChatCompleter, out io.Writer, logger ark.Logger) *Comparator {
	if logger == nil {
		logger = ark.NewLogger(ark.LogLevelError)
	}
	return &Comparator{
		Client: client,
		Out:    out,
		Logger: logger,
	}
}

// Passed reports whether reply is exactly ExpectedReply
func Passed(reply string) bool {
	return reply == ExpectedReply
}

// BuildRequest makes the single user turn: design image, device image, prompt text
func BuildRequest(cfg Config, designURI, deviceURI string) *ark.ChatCompletionRequest {
	return &ark.ChatCompletionRequest{
		Model: cfg.Model,
		Messages: []ark.ChatMessage{
			{
				Role: ark.RoleUser,
				Content: []ark.ContentPart{
					ark.ImagePart(designURI),
					ark.ImagePart(deviceURI),
					ark.TextPart(cfg.Prompt),
				},
			},
		},
		Thinking: &ark.Thinking{Type: cfg.Thinking.String()},
	}
}

// PrintConfig echoes the resolved configuration
func (c *Comparator) PrintConfig(cfg Config) {
	fmt.Fprintf(c.Out, "image design: %s\n", cfg.DesignImage)
	fmt.Fprintf(c.Out, "image device: %s\n", cfg.DeviceImage)
	fmt.Fprintf(c.Out, "model: %s\n", cfg.Model)
	fmt.Fprintf(c.Out, "thinking: %s\n", cfg.Thinking.String())
	fmt.Fprintf(c.Out, "prompt: %s\n", cfg.Prompt)
}

// Run echoes cfg, encodes both images, sends them and prints the report.
// Image problems come back as *ImageError, call failures as *RemoteError.
func (c *Comparator) Run(ctx context.Context, cfg Config) (*Result, error) {
	c.PrintConfig(cfg)

	designURI, err := EncodeImage(cfg.DesignImage)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Encoded design image %s (%d bytes as data URI)", cfg.DesignImage, len(designURI))

	deviceURI, err := EncodeImage(cfg.DeviceImage)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Encoded device image %s (%d bytes as data URI)", cfg.DeviceImage, len(deviceURI))

	fmt.Fprintln(c.Out, "Sending images and prompt to model...")

	resp, err := c.Client.CreateChatCompletion(ctx, BuildRequest(cfg, designURI, deviceURI))
	if err != nil {
		return nil, &RemoteError{Err: err}
	}
	// ArkClient already rejects this, other ChatCompleter implementations may not
	if len(resp.Choices) == 0 {
		return nil, &RemoteError{Err: ark.ErrNoChoices}
	}

	message := resp.Choices[0].Message
	result := &Result{
		Usage:     resp.Usage,
		Reasoning: message.ReasoningContent,
		Reply:     message.Content,
		Passed:    Passed(message.Content),
	}
	c.PrintResult(cfg.Thinking, result)

	return result, nil
}

// PrintResult writes usage, the reasoning trace unless thinking is disabled, the reply and the verdict
func (c *Comparator) PrintResult(thinking ThinkingMode, result *Result) {
	fmt.Fprintln(c.Out, "\nModel usage:")
	fmt.Fprintf(c.Out, "  Total tokens: %d\n", result.Usage.TotalTokens)
	fmt.Fprintf(c.Out, "  Prompt tokens: %d\n", result.Usage.PromptTokens)
	fmt.Fprintf(c.Out, "  Completion tokens: %d\n", result.Usage.CompletionTokens)

	if thinking != "" && thinking != ThinkingDisabled {
		fmt.Fprintf(c.Out, "\nModel thinking: %s\n", result.Reasoning)
	}

	fmt.Fprintf(c.Out, "\nModel response:\n%s\n", result.Reply)

	if result.Passed {
		fmt.Fprintln(c.Out, PassedLine)
	} else {
		fmt.Fprintln(c.Out, FailedLine)
	}
}
