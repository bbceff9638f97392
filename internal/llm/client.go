package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"commission-assistant-backend/internal/chatbot"
)

const (
	defaultBaseURL         = "https://api.groq.com/openai/v1"
	defaultModel           = "llama-3.3-70b-versatile"
	defaultTranscribeModel = "whisper-large-v3"
	defaultTemperature     = 0.3
	defaultMaxTokens       = 450
	defaultTimeout         = 15 * time.Second
	transcribeTimeout      = 60 * time.Second
	retryBackoff           = 250 * time.Millisecond
)

type Options struct {
	APIKey          string
	BaseURL         string
	Model           string
	TranscribeModel string
	Temperature     float32
	MaxTokens       int
	Timeout         time.Duration
}

// Client calls a Groq-hosted chat-completion endpoint through the OpenAI
// wire protocol. Each call carries a bounded timeout and at most one retry,
// taken only on a connection failure or a 429.
type Client struct {
	api  *openai.Client
	opts Options
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.TranscribeModel == "" {
		opts.TranscribeModel = defaultTranscribeModel
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL
	return &Client{api: openai.NewClientWithConfig(cfg), opts: opts, log: log}
}

func (c *Client) Complete(ctx context.Context, messages []chatbot.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	raw, err := c.complete(ctx, req)
	if err != nil && retryable(err) {
		c.log.Warn("llm call failed, retrying once", zap.Error(err))
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		raw, err = c.complete(ctx, req)
	}
	return raw, err
}

// Transcribe sends an audio recording to the transcription endpoint and
// returns the recognized text. Uploads get a longer deadline than chat
// turns and no retry.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.opts.TranscribeModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// errEmptyCompletion marks a well-formed response carrying no choices. The
// HTTP exchange succeeded, so it does not qualify for the retry.
var errEmptyCompletion = errors.New("no choices in completion response")

// retryable restricts the single retry to rate limiting and transport
// failures. Other API errors (bad request, auth) will not improve on a
// second attempt.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	if errors.Is(err, errEmptyCompletion) {
		return false
	}
	// Anything that never produced an HTTP response (connection refused,
	// reset, DNS) surfaces as a plain transport error. A timed-out or
	// canceled call fails fast instead.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
