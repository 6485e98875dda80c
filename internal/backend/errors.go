package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrBackendUnreachable is returned when the lookup backend cannot be reached
// at all. Callers use it to flip their availability state.
var ErrBackendUnreachable = errors.New("cannot connect to the lookup backend, make sure it is running")

// RequestFailedError is returned when the backend answered but the answer is
// unusable: a non-2xx status or a body that is not the expected JSON.
type RequestFailedError struct {
	StatusCode int
	Message    string
}

func (e *RequestFailedError) Error() string {
	return "failed to search profiles: " + e.Message
}

func statusError(code int) *RequestFailedError {
	return &RequestFailedError{
		StatusCode: code,
		Message:    fmt.Sprintf("server responded with status: %d", code),
	}
}

// classify maps a transport error from http.Client.Do onto the error kinds
// callers act upon. Caller cancellation is passed through untouched.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if isConnectivity(err) {
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	return &RequestFailedError{Message: err.Error()}
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Connection closed before a response arrived.
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
