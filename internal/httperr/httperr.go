// Package httperr classifies transport errors returned by net/http and the
// Elastic transport.
package httperr

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// Timeout reports whether err is a deadline or client timeout.
func Timeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Connection reports whether err means the remote host could not be reached
// at all: refused or reset connections, failed dials and DNS lookups.
func Connection(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
