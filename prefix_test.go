// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"testing"
	"unicode/utf8"
)

var testsParsePrefix = []struct {
	name       string
	test       string
	wantPrefix *Prefix
}{
	{name: "full", test: "nick!user@hostname.com", wantPrefix: &Prefix{
		Name: "nick", Ident: "user", Host: "hostname.com",
	}},
	{name: "special chars", test: "^[]nick!~user@test.host---name.com", wantPrefix: &Prefix{
		Name: "^[]nick", Ident: "~user", Host: "test.host---name.com",
	}},
	{name: "short", test: "a!b@c", wantPrefix: &Prefix{
		Name: "a", Ident: "b", Host: "c",
	}},
	{name: "bang only", test: "a!b", wantPrefix: &Prefix{
		Name: "a", Ident: "b", Host: "",
	}},
	{name: "at only", test: "a@b", wantPrefix: &Prefix{
		Name: "a", Ident: "", Host: "b",
	}},
	{name: "server", test: "irc.example.net", wantPrefix: &Prefix{
		Name: "irc.example.net", Ident: "", Host: "",
	}},
}

func TestParsePrefix(t *testing.T) {
	for _, tt := range testsParsePrefix {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrefix(tt.test)
			if got.Name != tt.wantPrefix.Name || got.Ident != tt.wantPrefix.Ident || got.Host != tt.wantPrefix.Host {
				t.Errorf("ParsePrefix(%q) = %+v, want %+v", tt.test, got, tt.wantPrefix)
			}
		})
	}
}

func TestPrefixIsClientServer(t *testing.T) {
	client := ParsePrefix("nick!user@host")
	if !client.IsClient() || client.IsServer() {
		t.Errorf("ParsePrefix(%q) IsClient/IsServer = %v/%v, want true/false", "nick!user@host", client.IsClient(), client.IsServer())
	}

	server := ParsePrefix("irc.example.net")
	if server.IsClient() || !server.IsServer() {
		t.Errorf("ParsePrefix(%q) IsClient/IsServer = %v/%v, want false/true", "irc.example.net", server.IsClient(), server.IsServer())
	}
}

func TestPrefixStringLen(t *testing.T) {
	p := ParsePrefix("nick!user@host")
	if s := p.String(); s != "nick!user@host" {
		t.Errorf("Prefix.String() = %q, want %q", s, "nick!user@host")
	}
	if n := p.Len(); n != len("nick!user@host") {
		t.Errorf("Prefix.Len() = %d, want %d", n, len("nick!user@host"))
	}
}

func FuzzParsePrefix(f *testing.F) {
	for _, tc := range testsParsePrefix {
		f.Add(tc.test)
	}

	f.Fuzz(func(t *testing.T, orig string) {
		got := ParsePrefix(orig)

		_ = got.IsClient()
		_ = got.IsServer()
		_ = got.Len()

		if utf8.ValidString(orig) {
			if !utf8.ValidString(got.Host) {
				t.Errorf("produced invalid UTF-8 string %q", got.Host)
			}
			if !utf8.ValidString(got.Ident) {
				t.Errorf("produced invalid UTF-8 string %q", got.Ident)
			}
			if !utf8.ValidString(got.Name) {
				t.Errorf("produced invalid UTF-8 string %q", got.Name)
			}
		}
	})
}
