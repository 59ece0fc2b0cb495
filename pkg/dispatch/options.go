package dispatch

import (
	"io"
	"net/http"

	loggerpkg "github.com/minhyannv/cyberguard-go/pkg/logger"
)

// Option configures optional runtime dependencies for a Dispatcher.
type Option func(*dispatchDeps)

type dispatchDeps struct {
	logger     loggerpkg.Logger
	out        io.Writer
	errOut     io.Writer
	httpClient *http.Client
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) Option {
	return func(d *dispatchDeps) {
		d.logger = l
	}
}

// WithOutput sets where progress lines and responses are printed.
func WithOutput(w io.Writer) Option {
	return func(d *dispatchDeps) {
		d.out = w
	}
}

// WithErrorOutput sets where failure reports are printed.
func WithErrorOutput(w io.Writer) Option {
	return func(d *dispatchDeps) {
		d.errOut = w
	}
}

// WithHTTPClient replaces the transport's default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *dispatchDeps) {
		d.httpClient = c
	}
}
