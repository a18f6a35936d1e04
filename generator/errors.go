package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

var ErrEmptyResponse = errors.New("no response from model")

// ServiceError reports a failure on the provider's side of the wire: a non-2xx
// status, a rejected request or a transport failure. StatusCode is 0 when no
// response was received.
type ServiceError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsTransportError reports whether err came from the network rather than from
// a response body. Cancellation by the caller does not count.
func IsTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
