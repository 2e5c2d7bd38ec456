// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"bytes"
	"strings"
)

const (
	prefixUserSep byte = 0x21 // "!"
	prefixHostSep byte = 0x40 // "@"
)

// Prefix identifies the originator of a Message, see RFC1459 section 2.3.1:
//
//	<prefix>   :: <servername> | <nick> ['!' <user>] ['@' <host>]
//
// A Prefix is either a server name (Ident and Host both empty) or a client
// hostmask (Nick, and optionally Ident/Host).
type Prefix struct {
	// Name is the nickname (client prefix) or the server name (server
	// prefix).
	Name string
	// Ident is the username part of a client hostmask. Empty for a
	// server prefix.
	Ident string
	// Host is the hostname part of a client hostmask. Empty for a server
	// prefix.
	Host string
}

// ParsePrefix parses the portion of a message between the leading ":" and
// the following space. Disambiguation between a server name and a nick
// hostmask uses the leftmost "!" and the first "@" following it, matching
// the IRC grammar's expectation that a nickname cannot itself contain "!"
// or "@". This tightens the more permissive, backtracking regex
// (`^(.+)!(.+)@(.+)$`) some IRC client implementations use for the same
// purpose; the two conventions only diverge on already-malformed input.
func ParsePrefix(raw string) *Prefix {
	p := new(Prefix)

	user := strings.IndexByte(raw, prefixUserSep)
	host := strings.IndexByte(raw, prefixHostSep)
	if user > 0 {
		if at := strings.IndexByte(raw[user+1:], prefixHostSep); at >= 0 {
			host = user + 1 + at
		}
	}

	switch {
	case user > 0 && host > user:
		p.Name = raw[:user]
		p.Ident = raw[user+1 : host]
		p.Host = raw[host+1:]
	case user > 0:
		p.Name = raw[:user]
		p.Ident = raw[user+1:]
	case host > 0:
		p.Name = raw[:host]
		p.Host = raw[host+1:]
	default:
		p.Name = raw
	}

	return p
}

// IsClient reports whether this prefix identifies a client (has at least
// an ident or host component).
func (p *Prefix) IsClient() bool {
	return len(p.Ident) > 0 || len(p.Host) > 0
}

// IsServer reports whether this prefix looks like a bare server name.
func (p *Prefix) IsServer() bool {
	return len(p.Ident) == 0 && len(p.Host) == 0
}

// Len returns the length of the wire representation of this prefix.
func (p *Prefix) Len() (n int) {
	n = len(p.Name)
	if len(p.Ident) > 0 {
		n = 1 + n + len(p.Ident)
	}
	if len(p.Host) > 0 {
		n = 1 + n + len(p.Host)
	}
	return n
}

// writeTo writes the wire representation of the prefix (without the
// leading ":") to buf.
func (p *Prefix) writeTo(buf *bytes.Buffer) {
	buf.WriteString(p.Name)
	if len(p.Ident) > 0 {
		buf.WriteByte(prefixUserSep)
		buf.WriteString(p.Ident)
	}
	if len(p.Host) > 0 {
		buf.WriteByte(prefixHostSep)
		buf.WriteString(p.Host)
	}
}

// String renders the prefix in wire format (without the leading ":").
func (p *Prefix) String() string {
	buf := new(bytes.Buffer)
	p.writeTo(buf)
	return buf.String()
}
