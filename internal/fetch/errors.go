package fetch

import (
	"context"
	"errors"
	"net"
)

// Classify maps an attempt error to a metrics label: ok, status, timeout,
// connection or other.
func Classify(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, ErrUnexpectedStatus) {
		return "status"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection"
	}

	return "other"
}
