// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"runtime"

	cmap "github.com/orcaman/concurrent-map"
)

// ConnectionStatus is the Session's connection lifecycle state.
type ConnectionStatus int

const (
	// StatusNotConnected is the initial state, before Register is called.
	StatusNotConnected ConnectionStatus = iota
	// StatusConnecting is set as soon as registration begins, before the
	// server has acknowledged it.
	StatusConnecting
	// StatusConnected is set once registration has been sent
	// successfully. Both Connect and ConnectTimeout reach this state by
	// way of StatusConnecting, uniformly.
	StatusConnected
	// StatusDisconnected is set after Quit succeeds.
	StatusDisconnected
	// StatusError is set when a transport write fails or the server
	// sends an ERROR command; LastError holds the details.
	StatusError
)

const capVersion = "302"

// maxCapReqPayload bounds the payload (after "CAP REQ :") of a single
// CAP REQ frame so a long wanted-capability list is split across multiple
// frames instead of exceeding the IRC line-length limit.
const maxCapReqPayload = 510

// Session drives a single IRC connection: registration, IRCv3 capability
// negotiation, and auto-PONG, on top of a Transport. All operations are
// synchronous and blocking; a Session is not safe for concurrent use, and
// is intended to be driven from a single goroutine (see the package
// documentation for the concurrency model).
type Session struct {
	transport Transport
	reader    *Reader
	writer    *Writer

	status    ConnectionStatus
	lastError error

	nick     string
	userName string
	realName string

	Info ServerInfo

	wanted    cmap.ConcurrentMap
	available cmap.ConcurrentMap
	requested cmap.ConcurrentMap
	enabled   cmap.ConcurrentMap
	listed    cmap.ConcurrentMap

	capPartialListing bool
}

// NewSession constructs a Session bound to transport, with the given
// registration identity and the set of capabilities the caller wants
// negotiated (may be empty, in which case negotiation is skipped
// entirely and registration proceeds straight to CAP END).
func NewSession(transport Transport, nick, userName, realName string, wantedCaps []string) *Session {
	s := &Session{
		transport: transport,
		reader:    NewReader(transport),
		writer:    NewWriter(transport),
		nick:      nick,
		userName:  userName,
		realName:  realName,
		wanted:    cmap.New(),
		available: cmap.New(),
		requested: cmap.New(),
		enabled:   cmap.New(),
		listed:    cmap.New(),
	}

	for _, id := range wantedCaps {
		s.wanted.Set(id, Capability{Identifier: id})
	}

	runtime.SetFinalizer(s, finalizeSession)

	return s
}

// finalizeSession is Go's stand-in for a destructor: if a Session is
// garbage collected while still Connected or Connecting, send a
// best-effort QUIT rather than just dropping the transport silently.
func finalizeSession(s *Session) {
	if s.status == StatusConnected || s.status == StatusConnecting {
		_ = s.Quit("rust-relay")
	}
}

// Status returns the Session's current connection state.
func (s *Session) Status() ConnectionStatus { return s.status }

// LastError returns the error that produced StatusError, if any.
func (s *Session) LastError() error { return s.lastError }

// EnabledCapabilities lists the capability identifiers currently enabled.
func (s *Session) EnabledCapabilities() []string { return s.enabled.Keys() }

func (s *Session) fail(err error) error {
	s.status = StatusError
	s.lastError = err
	return err
}

// Register performs the registration handshake: CAP LS (or CAP END when
// there are no wanted capabilities), then NICK, then USER. It transitions
// NotConnected -> Connecting immediately, and Connecting -> Connected once
// every registration line has been written successfully; on any write
// failure it transitions to StatusError instead and returns the error.
func (s *Session) Register() error {
	if s.status == StatusConnected || s.status == StatusConnecting {
		return &ProtocolError{Kind: ErrKindOther, Desc: "already connected"}
	}

	s.status = StatusConnecting

	if s.wanted.Count() == 0 {
		if err := s.writer.CapEnd(); err != nil {
			return s.fail(err)
		}
	} else {
		if err := s.writer.CapLS(capVersion); err != nil {
			return s.fail(err)
		}
	}

	if err := s.writer.Nick(s.nick); err != nil {
		return s.fail(err)
	}

	if err := s.writer.User(s.userName, s.realName); err != nil {
		return s.fail(err)
	}

	if err := s.flush(); err != nil {
		return s.fail(err)
	}

	s.status = StatusConnected
	return nil
}

func (s *Session) flush() error {
	if f, ok := s.transport.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// ReadMessage reads and returns the next application-visible message.
// PING is answered automatically with PONG and not returned to the
// caller; CAP messages are consumed by the negotiation state machine and
// only surfaced if they don't match a known subcommand; ERROR terminates
// the session (StatusError) and is returned as an error. A nil, nil
// return means the framing Reader produced no complete message from its
// single read of the transport; this is what the end of the stream gives,
// and also a read that delivered only part of a line.
func (s *Session) ReadMessage() (*Message, error) {
	if s.status != StatusConnected && s.status != StatusConnecting {
		return nil, ErrNotConnected()
	}

	for {
		msg, err := s.reader.ReadMessage()
		if err != nil {
			return nil, s.fail(err)
		}
		if msg == nil {
			return nil, nil
		}

		s.Info.observe(msg)

		switch msg.Command {
		case "PING":
			if err := s.handlePing(msg); err != nil {
				return nil, s.fail(err)
			}
		case "CAP":
			out, err := s.negotiateCapabilities(msg)
			if err == nil {
				err = s.flush()
			}
			if err != nil {
				return nil, s.fail(err)
			}
			if out != nil {
				return out, nil
			}
		case "ERROR":
			detail := ""
			if msg.HasTrailing {
				detail = msg.Trailing
			} else if len(msg.Params) > 0 {
				detail = msg.Params[0]
			}
			protoErr := &ProtocolError{Kind: ErrKindOther, Desc: "IRC Error", Detail: detail}
			s.status = StatusError
			s.lastError = protoErr
			_ = s.transport.CloseWrite()
			_ = s.transport.CloseRead()
			return nil, protoErr
		default:
			return msg, nil
		}
	}
}

func (s *Session) handlePing(msg *Message) error {
	if len(msg.Params) > 0 {
		server2 := ""
		if len(msg.Params) > 1 {
			server2 = msg.Params[1]
		}
		if err := s.writer.Pong(msg.Params[0], server2); err != nil {
			return err
		}
		return s.flush()
	}

	if msg.HasTrailing {
		if err := s.writer.Pong(msg.Trailing, ""); err != nil {
			return err
		}
		return s.flush()
	}

	if _, err := s.transport.Write([]byte("PONG\r\n")); err != nil {
		return err
	}
	return s.flush()
}

// Quit sends QUIT (with an optional message) and transitions to
// StatusDisconnected.
func (s *Session) Quit(message string) error {
	if s.status != StatusConnected && s.status != StatusConnecting {
		return ErrNotConnected()
	}

	if err := s.writer.Quit(message); err != nil {
		return s.fail(err)
	}
	if err := s.flush(); err != nil {
		return s.fail(err)
	}

	s.status = StatusDisconnected
	runtime.SetFinalizer(s, nil)
	return nil
}

// Write sends an already-constructed Message. Most callers should prefer
// the Writer returned by Commands for specific verbs; Write exists for
// messages Writer has no dedicated method for.
func (s *Session) Write(m *Message) error {
	if s.status != StatusConnected && s.status != StatusConnecting {
		return ErrNotConnected()
	}

	if _, err := s.transport.Write(m.Bytes()); err != nil {
		return s.fail(err)
	}
	if _, err := s.transport.Write([]byte("\r\n")); err != nil {
		return s.fail(err)
	}
	return s.flush()
}

// Commands returns the command Writer bound to this session's transport.
func (s *Session) Commands() *Writer { return s.writer }

// negotiateCapabilities implements the CAP LS/REQ/ACK/NAK/LIST/NEW/DEL
// sub-state-machine. It returns a non-nil Message only for a CAP
// subcommand it doesn't recognize, which is handed back to the caller
// like any other message.
func (s *Session) negotiateCapabilities(msg *Message) (*Message, error) {
	if len(msg.Params) < 2 {
		if err := s.writer.CapEnd(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	subCmd := msg.Params[1]
	extra := msg.Params[2:]
	payload := msg.Trailing

	switch subCmd {
	case "LS":
		return nil, s.handleCapLS(extra, payload, msg.HasTrailing)
	case "ACK":
		return nil, s.handleCapACK(payload)
	case "LIST":
		return nil, s.handleCapLIST(extra, payload)
	case "NAK":
		if err := s.writer.CapList(); err != nil {
			return nil, err
		}
		return nil, s.writer.CapEnd()
	case "NEW":
		return nil, s.handleCapNEW(payload)
	case "DEL":
		return nil, s.handleCapDEL(payload)
	default:
		return msg, nil
	}
}

func (s *Session) handleCapLS(extra []string, payload string, hasPayload bool) error {
	continuation := len(extra) > 0 && extra[0] == "*"

	if continuation && !hasPayload {
		return s.writer.CapEnd()
	}

	for _, cap := range ParseCapabilityList(payload) {
		s.available.Set(cap.Identifier, cap)
	}

	if continuation {
		s.capPartialListing = true
		return nil
	}

	s.capPartialListing = false

	var requested []string
	for _, id := range s.wanted.Keys() {
		if s.available.Has(id) {
			requested = append(requested, id)
		}
	}

	if len(requested) == 0 {
		return s.writer.CapEnd()
	}

	if err := s.sendCapReq(requested); err != nil {
		return err
	}

	s.requested = cmap.New()
	for _, id := range requested {
		s.requested.Set(id, Capability{Identifier: id})
	}

	return nil
}

func (s *Session) handleCapACK(payload string) error {
	var toAck []string

	for _, cap := range ParseCapabilityList(payload) {
		switch cap.Modifier {
		case ModifierDisable:
			s.enabled.Remove(cap.Identifier)
		case ModifierAck:
			toAck = append(toAck, cap.Identifier)
			s.enabled.Set(cap.Identifier, cap)
		default:
			s.enabled.Set(cap.Identifier, cap)
		}
	}

	if len(toAck) > 0 {
		if err := s.writer.CapAck(toAck); err != nil {
			return err
		}
	}

	if capSetEqual(s.enabled, s.requested) {
		return s.writer.CapEnd()
	}

	return nil
}

func (s *Session) handleCapLIST(extra []string, payload string) error {
	continuation := len(extra) > 0 && extra[0] == "*"

	if continuation {
		if !s.capPartialListing {
			s.listed = cmap.New()
			s.capPartialListing = true
		}
		for _, cap := range ParseCapabilityList(payload) {
			s.listed.Set(cap.Identifier, cap)
		}
		return nil
	}

	s.capPartialListing = false
	for _, cap := range ParseCapabilityList(payload) {
		s.listed.Set(cap.Identifier, cap)
	}

	s.enabled = s.listed
	s.listed = cmap.New()

	return nil
}

func (s *Session) handleCapNEW(payload string) error {
	var toReq []string

	for _, cap := range ParseCapabilityList(payload) {
		if s.wanted.Has(cap.Identifier) {
			toReq = append(toReq, cap.Identifier)
		}
	}

	if len(toReq) == 0 {
		return nil
	}

	return s.sendCapReq(toReq)
}

func (s *Session) handleCapDEL(payload string) error {
	for _, cap := range ParseCapabilityList(payload) {
		s.enabled.Remove(cap.Identifier)
	}
	return nil
}

// sendCapReq issues one or more CAP REQ frames, splitting caps so that no
// single frame's payload (after "CAP REQ :") exceeds maxCapReqPayload
// bytes.
func (s *Session) sendCapReq(caps []string) error {
	var chunk []string
	payloadLen := 0

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		err := s.writer.CapReq(chunk)
		chunk = nil
		payloadLen = 0
		return err
	}

	for _, c := range caps {
		extra := len(c)
		if payloadLen > 0 {
			extra++ // separating space
		}

		if payloadLen > 0 && payloadLen+extra > maxCapReqPayload {
			if err := flush(); err != nil {
				return err
			}
			extra = len(c)
		}

		chunk = append(chunk, c)
		payloadLen += extra
	}

	return flush()
}

func capSetEqual(a, b cmap.ConcurrentMap) bool {
	if a.Count() != b.Count() {
		return false
	}
	for t := range a.IterBuffered() {
		if !b.Has(t.Key) {
			return false
		}
	}
	return true
}
