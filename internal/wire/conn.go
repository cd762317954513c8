// Package wire frames protocol messages over a byte stream. A Conn wraps
// one net.Conn and moves exactly one proto.Message per call in either
// direction; it never retries and leaves all blocking to the kernel.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hjang25/roomchat/internal/proto"
)

// Result classifies the outcome of the most recent Send or Receive so
// callers can branch on what went wrong without inspecting errors.
type Result int

const (
	// Success means the last operation completed normally.
	Success Result = iota
	// InvalidMsg means the last operation failed on an oversized or
	// undecodable message; the stream itself may still be usable.
	InvalidMsg
	// EOFOrError means the last operation failed on the underlying
	// stream: end of input, a closed connection, or an I/O error.
	EOFOrError
)

// ErrClosed is returned by operations on a closed connection.
var ErrClosed = errors.New("connection is closed")

// Conn is a framed connection. One goroutine owns it at a time; only
// Close is safe to call concurrently with other methods.
type Conn struct {
	nc      net.Conn
	r       *bufio.Reader
	maxLine int

	readTimeout  time.Duration
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool

	last Result
}

// New wraps an accepted or dialed net.Conn with the protocol's inbound
// line cap.
func New(nc net.Conn) *Conn {
	return NewWithLimit(nc, proto.MaxLineLen)
}

// NewWithLimit wraps nc with an explicit cap on inbound line length,
// terminator included. A non-positive maxLine falls back to
// proto.MaxLineLen.
func NewWithLimit(nc net.Conn, maxLine int) *Conn {
	if maxLine <= 0 {
		maxLine = proto.MaxLineLen
	}
	return &Conn{
		nc:      nc,
		r:       bufio.NewReaderSize(nc, maxLine+1),
		maxLine: maxLine,
	}
}

// SetTimeouts installs per-operation I/O deadlines on future sends and
// receives. Zero means wait indefinitely, the protocol default.
func (c *Conn) SetTimeouts(read, write time.Duration) {
	c.readTimeout = read
	c.writeTimeout = write
}

// Dial connects to a chat server at addr and returns the framed
// connection.
func Dial(addr string) (*Conn, error) {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return New(nc), nil
}

// Send encodes msg and writes it to the stream in one call. An oversized
// message fails with proto.ErrTooLong before any byte is written.
func (c *Conn) Send(msg proto.Message) error {
	if !c.IsOpen() {
		c.last = EOFOrError
		return ErrClosed
	}
	line, err := msg.Encode()
	if err != nil {
		c.last = InvalidMsg
		return err
	}
	if c.writeTimeout > 0 {
		_ = c.nc.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if _, err := c.nc.Write(line); err != nil {
		c.last = EOFOrError
		return fmt.Errorf("write message: %w", err)
	}
	c.last = Success
	return nil
}

// Receive blocks until one terminated line arrives and decodes it. A
// stream failure before the terminator records EOFOrError; a line that
// cannot be decoded, or one that crosses the inbound cap before its
// terminator, records InvalidMsg. An over-cap line is never buffered
// past the cap: the read fails as soon as the cap is crossed.
func (c *Conn) Receive() (proto.Message, error) {
	if !c.IsOpen() {
		c.last = EOFOrError
		return proto.Message{}, ErrClosed
	}
	if c.readTimeout > 0 {
		_ = c.nc.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	line, err := c.r.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			c.last = InvalidMsg
			return proto.Message{}, fmt.Errorf("%w: line exceeds %d bytes", proto.ErrTooLong, c.maxLine)
		}
		c.last = EOFOrError
		return proto.Message{}, fmt.Errorf("read message: %w", err)
	}
	if len(line) > c.maxLine {
		c.last = InvalidMsg
		return proto.Message{}, fmt.Errorf("%w: line exceeds %d bytes", proto.ErrTooLong, c.maxLine)
	}
	msg, err := proto.Parse(strings.TrimRight(string(line), "\r\n"))
	if err != nil {
		c.last = InvalidMsg
		return proto.Message{}, err
	}
	c.last = Success
	return msg, nil
}

// LastResult reports the outcome of the most recent Send or Receive.
func (c *Conn) LastResult() Result {
	return c.last
}

// IsOpen reports whether Close has not yet been called.
func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Close shuts the underlying stream down. It is idempotent; closing an
// already-closed connection is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}

// SetDeadline bounds future reads and writes on the underlying stream.
func (c *Conn) SetDeadline(t time.Time) error {
	return c.nc.SetDeadline(t)
}

// RemoteAddr returns the address of the peer.
func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}
