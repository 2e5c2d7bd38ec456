// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"fmt"
	"io"
	"log"
	"net"
	"time"
)

// Config holds the information needed to register a Client with a server.
type Config struct {
	// Server is the hostname (without port) to connect to.
	Server string
	// Port is the TCP port to connect to.
	Port int
	// Nick is the nickname to register with.
	Nick string
	// User is the ident/username to register with.
	User string
	// Name is the "real name" sent with USER. If empty, User is reused.
	Name string
	// Pass is an optional server password, sent before capability
	// negotiation begins.
	Pass string
	// SupportedCaps lists the IRCv3 capabilities this client wants
	// negotiated during registration. An empty list skips negotiation
	// entirely (CAP END is sent immediately).
	SupportedCaps []string
	// Logger, if set, receives debug tracing of connection lifecycle
	// events, in the same spirit as the library's internal debug
	// logger. Defaults to io.Discard.
	Logger io.Writer
}

func (conf Config) addr() string {
	return fmt.Sprintf("%s:%d", conf.Server, conf.Port)
}

func (conf Config) name() string {
	if conf.Name == "" {
		return conf.User
	}
	return conf.Name
}

// Client is the public facade composing a Config, a Transport, and a
// Session. It owns the connection lifecycle; once connected, ReadMessage
// and the command Writer returned by Commands drive the conversation.
type Client struct {
	Config Config

	transport Transport
	session   *Session
	debug     *log.Logger
}

// New constructs a Client from conf. It does not connect; call Connect,
// ConnectTimeout, or MockConnect to do that.
func New(conf Config) *Client {
	logger := conf.Logger
	if logger == nil {
		logger = io.Discard
	}

	return &Client{
		Config: conf,
		debug:  log.New(logger, "ircproto: ", log.LstdFlags),
	}
}

// alreadyConnected reports whether this Client already has a session that
// is Connected or mid-handshake, in which case a new Connect/ConnectTimeout/
// MockConnect call must be rejected instead of clobbering it.
func (c *Client) alreadyConnected() bool {
	status := c.Status()
	return status == StatusConnected || status == StatusConnecting
}

func (c *Client) startSession(transport Transport) error {
	if c.alreadyConnected() {
		return &ProtocolError{Kind: ErrKindOther, Desc: "already connected"}
	}

	c.transport = transport
	c.session = NewSession(transport, c.Config.Nick, c.Config.User, c.Config.name(), c.Config.SupportedCaps)

	if c.Config.Pass != "" {
		if err := c.session.writer.Pass(c.Config.Pass); err != nil {
			return err
		}
	}

	c.debug.Printf("registering as %s (%s)", c.Config.Nick, c.Config.User)

	return c.session.Register()
}

// Connect dials the configured server over TCP and performs registration.
func (c *Client) Connect() error {
	if c.alreadyConnected() {
		return &ProtocolError{Kind: ErrKindOther, Desc: "already connected"}
	}

	transport, err := DialTCP(c.Config.addr())
	if err != nil {
		return err
	}
	return c.startSession(transport)
}

// ConnectTimeout is Connect with a bounded dial timeout.
func (c *Client) ConnectTimeout(timeout time.Duration) error {
	if c.alreadyConnected() {
		return &ProtocolError{Kind: ErrKindOther, Desc: "already connected"}
	}

	transport, err := DialTCPTimeout(c.Config.addr(), timeout)
	if err != nil {
		return err
	}
	return c.startSession(transport)
}

// MockConnect drives registration over an already-established net.Conn,
// typically one end of a net.Pipe(), for tests.
func (c *Client) MockConnect(conn net.Conn) error {
	if c.alreadyConnected() {
		return &ProtocolError{Kind: ErrKindOther, Desc: "already connected"}
	}
	return c.startSession(NewPipeTransport(conn))
}

// Status returns the underlying Session's connection state.
func (c *Client) Status() ConnectionStatus {
	if c.session == nil {
		return StatusNotConnected
	}
	return c.session.Status()
}

// ServerInfo returns what has been learned about the remote server so far.
func (c *Client) ServerInfo() ServerInfo {
	if c.session == nil {
		return ServerInfo{}
	}
	return c.session.Info
}

// ReadMessage blocks until the next application-visible message arrives.
func (c *Client) ReadMessage() (*Message, error) {
	if c.session == nil {
		return nil, ErrNotConnected()
	}
	return c.session.ReadMessage()
}

// Write sends a pre-built Message.
func (c *Client) Write(m *Message) error {
	if c.session == nil {
		return ErrNotConnected()
	}
	return c.session.Write(m)
}

// Commands returns the command Writer for issuing IRC verbs.
func (c *Client) Commands() *Writer {
	if c.session == nil {
		return nil
	}
	return c.session.Commands()
}

// Quit sends QUIT and marks the session disconnected. The underlying
// transport is left open; call Close to release it.
func (c *Client) Quit(message string) error {
	if c.session == nil {
		return ErrNotConnected()
	}
	return c.session.Quit(message)
}

// Close sends a best-effort QUIT (ignoring any error, since the
// connection may already be in a failure state) and closes the
// transport.
func (c *Client) Close() error {
	if c.session != nil && (c.session.Status() == StatusConnected || c.session.Status() == StatusConnecting) {
		_ = c.session.Quit("")
	}

	if closer, ok := c.transport.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
