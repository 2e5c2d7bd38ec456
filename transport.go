// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"bufio"
	"net"
	"time"
)

// Transport is the byte-stream abstraction a Session runs on: something
// that can be read from, written to, flushed, and half-closed in either
// direction independently, plus report the remote peer's address for
// logging. TCP connections are the primary implementation; tests substitute
// a net.Pipe()-backed Transport instead of a dialed socket.
type Transport interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	CloseWrite() error
	CloseRead() error
	RemoteAddr() string
}

// tcpTransport wraps a net.Conn as a Transport, buffering both directions
// through a bufio.ReadWriter.
type tcpTransport struct {
	conn net.Conn
	rw   *bufio.ReadWriter
}

func newTCPTransport(conn net.Conn) *tcpTransport {
	return &tcpTransport{
		conn: conn,
		rw:   bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
	}
}

func (t *tcpTransport) Read(p []byte) (int, error)  { return t.rw.Read(p) }
func (t *tcpTransport) Write(p []byte) (int, error) { return t.rw.Write(p) }
func (t *tcpTransport) Flush() error                { return t.rw.Flush() }
func (t *tcpTransport) RemoteAddr() string          { return t.conn.RemoteAddr().String() }

// halfCloser is implemented by *net.TCPConn (and similar stream sockets)
// that support independently shutting down one direction.
type halfCloser interface {
	CloseWrite() error
	CloseRead() error
}

func (t *tcpTransport) CloseWrite() error {
	if hc, ok := t.conn.(halfCloser); ok {
		return hc.CloseWrite()
	}
	return t.conn.Close()
}

func (t *tcpTransport) CloseRead() error {
	if hc, ok := t.conn.(halfCloser); ok {
		return hc.CloseRead()
	}
	return nil
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// DialTCP connects to addr ("host:port") and returns a Transport over the
// resulting TCP connection.
func DialTCP(addr string) (Transport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return newTCPTransport(conn), nil
}

// DialTCPTimeout is DialTCP with a bounded connection timeout.
func DialTCPTimeout(addr string, timeout time.Duration) (Transport, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return newTCPTransport(conn), nil
}

// NewPipeTransport wraps an arbitrary net.Conn (typically one end of a
// net.Pipe()) as a Transport, for tests.
func NewPipeTransport(conn net.Conn) Transport {
	return newTCPTransport(conn)
}
