// Package dispatch sends one prompt at a time to an OpenAI-compatible chat
// completion endpoint and reports the outcome on the console.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minhyannv/cyberguard-go/pkg/config"
	loggerpkg "github.com/minhyannv/cyberguard-go/pkg/logger"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// Dispatcher sends single prompts to the chat completion endpoint.
type Dispatcher struct {
	config config.Config
	client openai.Client

	out     io.Writer
	errOut  io.Writer
	logger  loggerpkg.Logger
	verbose bool
}

// New validates cfg and builds a Dispatcher. No network activity happens here.
func New(cfg config.Config, opts ...Option) (*Dispatcher, error) {
	cfg = config.Normalize(cfg)
	deps := dispatchDeps{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	loggerpkg.Debug(cfg.Verbose, deps.logger, "dispatcher init", map[string]any{
		"endpoint":    cfg.Endpoint,
		"model":       cfg.Model,
		"max_tokens":  cfg.MaxTokens,
		"temperature": cfg.Temperature,
	})

	return &Dispatcher{
		config:  cfg,
		client:  newOpenAIClient(cfg, deps.httpClient),
		out:     writerOrDiscard(deps.out),
		errOut:  writerOrDiscard(deps.errOut),
		logger:  deps.logger,
		verbose: cfg.Verbose,
	}, nil
}

func newOpenAIClient(cfg config.Config, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/") + "/"),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return openai.NewClient(opts...)
}

// SendPrompt sends prompt as the only user message and returns the first
// choice's content. Progress and the outcome are printed before returning.
// Failures are returned as *Error.
func (d *Dispatcher) SendPrompt(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := uuid.NewString()
	_, _ = fmt.Fprintln(d.out)
	_, _ = fmt.Fprintln(d.out, "🤖 Sending request to AI...")
	_, _ = fmt.Fprintf(d.out, "📝 Prompt: \"%s\"\n", prompt)

	seen := &responseCapture{}
	start := time.Now()
	completion, err := d.client.Chat.Completions.New(ctx, BuildParams(d.config, prompt),
		option.WithHeader(RequestIDHeader, requestID),
		option.WithMiddleware(seen.middleware),
	)
	if err == nil {
		err = checkShape(completion)
	}
	if err != nil {
		dispatchErr := classify(err, seen)
		loggerpkg.Debug(d.verbose, d.logger, "dispatch failed", map[string]any{
			"request_id":  requestID,
			"kind":        dispatchErr.Kind.String(),
			"status":      dispatchErr.StatusCode,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		d.report(dispatchErr)
		return "", dispatchErr
	}

	content := completion.Choices[0].Message.Content
	loggerpkg.Debug(d.verbose, d.logger, "dispatch completed", map[string]any{
		"request_id":    requestID,
		"status":        seen.status,
		"finish_reason": completion.Choices[0].FinishReason,
		"bytes":         len(content),
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	_, _ = fmt.Fprintln(d.out)
	_, _ = fmt.Fprintln(d.out, "✅ AI Response:")
	_, _ = fmt.Fprintf(d.out, "---\n%s\n---\n", content)
	return content, nil
}

// checkShape rejects a decoded 2xx body that lacks choices[0].message.content.
// A null or absent content is malformed; an empty string is not.
func checkShape(completion *openai.ChatCompletion) error {
	if completion == nil || len(completion.Choices) == 0 {
		return errEmptyChoices
	}
	choice := completion.Choices[0]
	if !choice.JSON.Message.Valid() || !choice.Message.JSON.Content.Valid() {
		return errMissingContent
	}
	return nil
}

func (d *Dispatcher) report(err *Error) {
	_, _ = fmt.Fprintln(d.errOut)
	_, _ = fmt.Fprintln(d.errOut, "❌ Error calling AI service:")
	if err.Kind == KindRemote {
		_, _ = fmt.Fprintf(d.errOut, "Status: %d\n", err.StatusCode)
		if err.Payload != "" {
			_, _ = fmt.Fprintf(d.errOut, "Data: %s\n", err.Payload)
		}
		return
	}
	if err.Err != nil {
		_, _ = fmt.Fprintln(d.errOut, err.Err.Error())
		return
	}
	_, _ = fmt.Fprintln(d.errOut, err.Error())
}

// responseCapture records the status and, for failures, the raw body of the
// last response seen by the client.
type responseCapture struct {
	status int
	body   []byte
}

func (c *responseCapture) middleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	res, err := next(req)
	if err != nil || res == nil {
		return res, err
	}
	c.status = res.StatusCode
	if isSuccess(res.StatusCode) || res.Body == nil {
		return res, nil
	}

	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	c.body = body
	res.Body = io.NopCloser(bytes.NewReader(body))
	return res, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
