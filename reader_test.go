// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"strings"
	"testing"
)

func TestReaderMultipleMessages(t *testing.T) {
	src := strings.NewReader("CAP LS\r\nNICK test\r\nUSER test * * :test\r\n")
	r := NewReader(src)

	wantCommands := []string{"CAP", "NICK", "USER"}

	for _, want := range wantCommands {
		msg, err := r.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error: %v", err)
		}
		if msg == nil {
			t.Fatalf("ReadMessage() = nil, want command %q", want)
		}
		if msg.Command != want {
			t.Errorf("ReadMessage() command = %q, want %q", msg.Command, want)
		}
	}

	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("final ReadMessage() error: %v", err)
	}
	if msg != nil {
		t.Fatalf("final ReadMessage() = %+v, want nil", msg)
	}
}

func TestReaderBareLF(t *testing.T) {
	src := strings.NewReader("PING :server\nPONG :server\n")
	r := NewReader(src)

	for _, want := range []string{"PING", "PONG"} {
		msg, err := r.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error: %v", err)
		}
		if msg == nil || msg.Command != want {
			t.Fatalf("ReadMessage() = %+v, want command %q", msg, want)
		}
	}
}

func TestReaderBlankLinesSkipped(t *testing.T) {
	src := strings.NewReader("\r\n\r\nNICK test\r\n")
	r := NewReader(src)

	msg, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}
	if msg == nil || msg.Command != "NICK" {
		t.Fatalf("ReadMessage() = %+v, want command NICK", msg)
	}
}

func TestReaderExceedsMaxSize(t *testing.T) {
	src := strings.NewReader("PRIVMSG #chan :" + strings.Repeat("a", maxFrameBuffer))
	r := NewReader(src)

	// The first call fills the bounded buffer with no terminator in sight
	// but doesn't yet know the buffer is full, so it returns (nil, nil);
	// only the next call, finding the buffer already saturated, reports
	// the size error.
	if msg, err := r.ReadMessage(); msg != nil || err != nil {
		t.Fatalf("first ReadMessage() = %+v, %v, want nil, nil", msg, err)
	}

	_, err := r.ReadMessage()
	protoErr, ok := err.(*ProtocolError)
	if !ok {
		t.Fatalf("ReadMessage() error = %v (%T), want *ProtocolError", err, err)
	}
	if protoErr.Kind != ErrKindExceededMaxSize {
		t.Fatalf("ReadMessage() error kind = %v, want ErrKindExceededMaxSize", protoErr.Kind)
	}
}
