// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

// Package ircproto implements the wire-level IRC client protocol: message
// and tag parsing (RFC 1459/2812), IRCv3 capability negotiation, and a
// synchronous Session/Client that drives registration and auto-PONG on top
// of a pluggable Transport.
//
// Unlike a full-featured bot framework, this package does not dispatch
// parsed messages to registered handlers, track channel/user rosters, or
// manage reconnection; it hands every application-visible Message back to
// the caller from a single blocking ReadMessage call.
package ircproto
