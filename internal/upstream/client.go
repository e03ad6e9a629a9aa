package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/triage-assistant/internal/common"
)

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// HTTPClientConfig bundles the HTTP client and circuit breaker settings
// shared by the upstream clients.
type HTTPClientConfig struct {
	Client *http.Client

	// When ConsecutiveFailures is positive the breaker trips after that many
	// failed calls in a row and stays open for OpenTimeout (30s when zero).
	// Zero never trips, so every call sends exactly one request.
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

var errNoHTTPClient = errors.New("http client not configured")

func newBreaker(name string, cfg HTTPClientConfig) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= failures
		},
	})
}

// doRequest executes exactly one request through the circuit breaker and
// returns the body of a 2xx response. Every failure, including an open
// breaker, matches common.ErrNetwork.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	req *http.Request,
) ([]byte, error) {
	if client == nil {
		return nil, common.Wrap(common.ErrNetwork, errNoHTTPClient)
	}

	endpoint := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req.WithContext(ctx))
		if execErr != nil {
			return nil, common.Wrap(common.ErrNetwork, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
			return nil, &common.StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, common.Wrap(common.ErrNetwork, readErr)
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrNetwork, endpoint, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", common.ErrNetwork)
	}
	return body, nil
}
