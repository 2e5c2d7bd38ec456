// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// numeric replies consulted while populating ServerInfo during registration.
const (
	rplWelcome      = "001"
	rplYourHost     = "002"
	rplCreated      = "003"
	rplISupport     = "005"
	isupportNetwork = "NETWORK"
)

var weekdayAbbrev = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ServerInfo records what the session has learned about the remote IRCd
// from its registration numerics. Population is best-effort: a reply the
// session doesn't recognize, or a date string dateparse can't make sense
// of, just leaves the corresponding field at its zero value.
type ServerInfo struct {
	// WelcomeMessage is the trailing text of RPL_WELCOME (001).
	WelcomeMessage string
	// Host and Version come from RPL_YOURHOST (002)'s "Your host is
	// <host>, running version <version>" text.
	Host    string
	Version string
	// Compiled is the server-reported compile date from RPL_CREATED (003).
	Compiled time.Time
	// Network is the NETWORK= token from RPL_ISUPPORT (005), if the server
	// sends one.
	Network string
}

// observe updates info from a single incoming message, if it is one of
// the numerics ServerInfo tracks. Unrecognized commands are a no-op.
func (info *ServerInfo) observe(m *Message) {
	switch m.Command {
	case rplWelcome:
		info.WelcomeMessage = m.Trailing
	case rplYourHost:
		info.observeYourHost(m.Trailing)
	case rplCreated:
		info.observeCreated(m.Trailing)
	case rplISupport:
		info.observeISupport(m.Params)
	}
}

func (info *ServerInfo) observeYourHost(trailing string) {
	const prefix = "Your host is "
	const infix = " running version "

	if !strings.HasPrefix(trailing, prefix) || !strings.Contains(trailing, ",") {
		return
	}

	rest := strings.TrimPrefix(trailing, prefix)
	parts := strings.SplitN(rest, ",", 2)
	if len(parts) != 2 {
		return
	}

	info.Host = parts[0]
	info.Version = strings.TrimSpace(strings.Replace(parts[1], infix, "", 1))
}

func (info *ServerInfo) observeCreated(trailing string) {
	words := strings.Fields(trailing)

	found := -1
	for i, word := range words {
		for _, day := range weekdayAbbrev {
			if word == day+"," {
				found = i
				break
			}
		}
		if found != -1 {
			break
		}
	}
	if found == -1 {
		return
	}

	compiled, err := dateparse.ParseAny(strings.Join(words[found:], " "))
	if err != nil {
		return
	}

	info.Compiled = compiled
}

// observeISupport scans RPL_ISUPPORT's "TOKEN=value" params (skipping the
// leading nickname param) for NETWORK=, the only ISUPPORT token ServerInfo
// tracks.
func (info *ServerInfo) observeISupport(params []string) {
	if len(params) < 2 {
		return
	}

	for _, param := range params[1:] {
		key, value, ok := strings.Cut(param, "=")
		if !ok || key != isupportNetwork || value == "" {
			continue
		}
		info.Network = value
	}
}
