package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/linklint/internal/config"
	"github.com/nao1215/linklint/internal/model"
)

// TimeoutError is the error text recorded when a probe exceeds its
// deadline.
const TimeoutError = "Request timeout"

// ExternalValidator probes remote URLs with HEAD requests and maps the
// outcome to a validation status.
//
// Design decision: We hold the http.Client in the struct rather than
// passing it per call because client configuration must be consistent
// across a run, connection pooling works better with a shared client,
// and tests can inject a client with a custom transport.
type ExternalValidator struct {
	// client issues the probes. Its redirect policy is the net/http
	// default (follow up to 10); a 3xx that resolves is a valid link.
	client *http.Client

	// userAgent identifies linklint to the probed server.
	userAgent string

	// baseScheme supplies the scheme for protocol-relative references.
	baseScheme string

	// maxRetries is how many times a timed-out or transport-failed
	// probe is reissued. Responses with an HTTP status are
	// authoritative and never retried.
	maxRetries int

	// retryBackoff is the fixed pause between retries.
	retryBackoff time.Duration
}

// ExternalValidatorOption configures an ExternalValidator.
type ExternalValidatorOption func(*ExternalValidator)

// WithUserAgent sets the User-Agent header sent with probes.
func WithUserAgent(ua string) ExternalValidatorOption {
	return func(v *ExternalValidator) {
		v.userAgent = ua
	}
}

// WithBaseScheme sets the scheme applied to protocol-relative
// references ("//host/path"). The default is https.
func WithBaseScheme(scheme string) ExternalValidatorOption {
	return func(v *ExternalValidator) {
		if scheme != "" {
			v.baseScheme = scheme
		}
	}
}

// WithRetries configures retrying of timed-out and transport-failed
// probes. A count of zero disables retrying.
func WithRetries(count int, backoff time.Duration) ExternalValidatorOption {
	return func(v *ExternalValidator) {
		v.maxRetries = count
		v.retryBackoff = backoff
	}
}

// NewExternalValidator creates a validator issuing probes through the
// given client. The client's Timeout bounds each probe; callers build
// it from the configured network timeout.
func NewExternalValidator(client *http.Client, opts ...ExternalValidatorOption) *ExternalValidator {
	v := &ExternalValidator{
		client:       client,
		userAgent:    config.DefaultUserAgent,
		baseScheme:   "https",
		maxRetries:   0,
		retryBackoff: config.DefaultRetryBackoff,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate probes rawURL and maps the outcome:
//
//	200-399        -> valid
//	400-499        -> broken, "Client error: <code>"
//	500+           -> warning, "Server error: <code>"
//	timeout        -> warning, "Request timeout", no status code
//	transport fail -> broken, transport error text, no status code
//
// Timeouts and transport failures are retried up to the configured
// count with a fixed backoff; the last attempt's outcome is recorded.
func (v *ExternalValidator) Validate(ctx context.Context, rawURL string) model.ValidationOutcome {
	target := rawURL
	if strings.HasPrefix(target, "//") {
		target = v.baseScheme + ":" + target
	}

	var outcome model.ValidationOutcome
	for attempt := 0; ; attempt++ {
		var retryable bool
		outcome, retryable = v.probe(ctx, target)
		if !retryable || attempt >= v.maxRetries {
			return outcome
		}

		select {
		case <-ctx.Done():
			return outcome
		case <-time.After(v.retryBackoff):
		}
	}
}

// probe issues one HEAD request. The boolean reports whether the
// failure is worth retrying.
func (v *ExternalValidator) probe(ctx context.Context, target string) (model.ValidationOutcome, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		// Unparseable URL; retrying cannot change the result.
		return model.ValidationOutcome{
			Status: model.StatusBroken,
			Error:  err.Error(),
		}, false
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return model.ValidationOutcome{
				Status: model.StatusWarning,
				Error:  TimeoutError,
			}, true
		}
		// DNS failure, connection refused, TLS failure, and the rest of
		// the transport error family.
		return model.ValidationOutcome{
			Status: model.StatusBroken,
			Error:  unwrapURLError(err),
		}, true
	}
	// HEAD responses carry no body worth reading, but the connection is
	// only reusable once the body is closed.
	resp.Body.Close()

	switch {
	case resp.StatusCode < 400:
		return model.ValidationOutcome{
			Status:     model.StatusValid,
			StatusCode: resp.StatusCode,
		}, false
	case resp.StatusCode < 500:
		return model.ValidationOutcome{
			Status:     model.StatusBroken,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("Client error: %d", resp.StatusCode),
		}, false
	default:
		return model.ValidationOutcome{
			Status:     model.StatusWarning,
			StatusCode: resp.StatusCode,
			Error:      fmt.Sprintf("Server error: %d", resp.StatusCode),
		}, false
	}
}

// isTimeout reports whether err is a deadline failure, either the
// client timeout or a context deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

// unwrapURLError strips the "HEAD <url>:" prefix url.Error adds, so
// the record carries the transport failure itself. The URL is already
// a separate record field.
func unwrapURLError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
