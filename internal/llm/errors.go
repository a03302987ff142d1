package llm

import (
	"errors"
	"fmt"
	"net/url"
)

// TransportError reports a request that never produced an HTTP response:
// timeouts, refused connections, DNS and TLS failures.
type TransportError struct {
	Err error
}

func newTransportError(err error) *TransportError {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		err = uerr.Err
	}
	return &TransportError{Err: err}
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *TransportError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// RemoteError reports a non-2xx status. Body is the raw diagnostic text, possibly empty.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// ValidationError reports a 2xx response whose body does not match the expected shape.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid response: " + e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
