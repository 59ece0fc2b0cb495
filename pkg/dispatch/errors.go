package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/openai/openai-go"
)

// ErrEmptyPrompt is returned when SendPrompt receives a blank prompt.
var ErrEmptyPrompt = errors.New("prompt is required")

var (
	errEmptyChoices   = errors.New("response contains no choices")
	errMissingContent = errors.New("response choice has no message content")
)

// Kind classifies a failed dispatch.
type Kind int

const (
	// KindTransport means the endpoint could not be reached.
	KindTransport Kind = iota + 1
	// KindRemote means the endpoint answered with a non-2xx status.
	KindRemote
	// KindMalformedResponse means a 2xx answer lacked choices[0].message.content.
	KindMalformedResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Error describes one failed request.
type Error struct {
	Kind       Kind
	StatusCode int
	Payload    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindRemote && e.Payload != "":
		return fmt.Sprintf("remote error: status %d: %s", e.StatusCode, e.Payload)
	case e.Kind == KindRemote:
		return fmt.Sprintf("remote error: status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// classify maps a client error onto a Kind using what the capture middleware saw.
func classify(err error, seen *responseCapture) *Error {
	if seen != nil && seen.status != 0 && !isSuccess(seen.status) {
		return &Error{
			Kind:       KindRemote,
			StatusCode: seen.status,
			Payload:    strings.TrimSpace(string(seen.body)),
			Err:        err,
		}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindRemote, StatusCode: apiErr.StatusCode, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransport, Err: err}
	}

	out := &Error{Kind: KindMalformedResponse, Err: err}
	if seen != nil {
		out.StatusCode = seen.status
	}
	return out
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
