package llm

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Timeouts bound each phase of an exchange. Zero disables the bound.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// DefaultTimeouts returns 30 second bounds for every phase.
func DefaultTimeouts() Timeouts {
	return Timeouts{Connect: 30 * time.Second, Read: 30 * time.Second, Write: 30 * time.Second}
}

// NewHTTPClient returns an http.Client whose connections honour t.
// Read and write bounds apply to every individual I/O operation, not to the whole exchange.
func NewHTTPClient(t Timeouts) *http.Client {
	dialer := &net.Dialer{Timeout: t.Connect, KeepAlive: 30 * time.Second}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSHandshakeTimeout = t.Connect
	tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		if t.Read <= 0 && t.Write <= 0 {
			return conn, nil
		}
		return &deadlineConn{Conn: conn, read: t.Read, write: t.Write}, nil
	}
	return &http.Client{Transport: tr}
}

type deadlineConn struct {
	net.Conn
	read  time.Duration
	write time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

// Write also pushes the read deadline forward. A pooled connection keeps a
// read pending while idle, and its deadline must count from the new request.
func (c *deadlineConn) Write(p []byte) (int, error) {
	now := time.Now()
	if c.write > 0 {
		if err := c.Conn.SetWriteDeadline(now.Add(c.write)); err != nil {
			return 0, err
		}
	}
	if c.read > 0 {
		if err := c.Conn.SetReadDeadline(now.Add(c.read)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Write(p)
}
