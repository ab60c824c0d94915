package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/flow-weather/internal/weather"
)

// DefaultBreakerThreshold is the number of consecutive failures that opens
// a circuit.
const DefaultBreakerThreshold = 5

var (
	errNoAPIKey    = errors.New("openweather api key is not configured")
	errCircuitOpen = errors.New("circuit breaker open")
	errNoClient    = errors.New("http client not configured")
)

// serverError carries a 5xx response through the circuit breaker so that it
// counts as a failure but can still be reported with the provider's status.
type serverError struct {
	resp *resty.Response
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: %d", e.resp.StatusCode())
}

func newBreaker(name string, threshold uint32) *gobreaker.CircuitBreaker {
	if threshold == 0 {
		threshold = DefaultBreakerThreshold
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest executes a single GET through the circuit breaker. There are no
// retries. Transport errors and 5xx responses count against the breaker,
// 4xx responses do not.
func doRequest(
	ctx context.Context,
	cb *gobreaker.CircuitBreaker,
	req *resty.Request,
	path string,
) (*resty.Response, error) {
	if req == nil {
		return nil, errNoClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := req.SetContext(ctx).Get(path)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode() >= 500 {
			return nil, &serverError{resp: resp}
		}
		return resp, nil
	})

	if err != nil {
		var se *serverError
		if errors.As(err, &se) {
			return se.resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// decode unmarshals a successful response into out, or turns a non-success
// response into a *weather.StatusError carrying the provider's message.
func decode(resp *resty.Response, out interface{}) error {
	if !resp.IsSuccess() {
		return &weather.StatusError{
			Status:  resp.StatusCode(),
			Message: providerMessage(resp.Body()),
		}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// providerMessage extracts the "message" field of an error body, if any.
func providerMessage(body []byte) string {
	var payload struct {
		Message interface{} `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch m := payload.Message.(type) {
	case string:
		return m
	case nil:
		return ""
	default:
		return fmt.Sprint(m)
	}
}
