// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestClientMockConnectRegisters(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New(Config{Server: "irc.example.net", Port: 6667, Nick: "test", User: "test", Name: "Test User"})

	done := make(chan error, 1)
	go func() { done <- c.MockConnect(client) }()

	r := bufio.NewReader(server)
	server.SetReadDeadline(time.Now().Add(2 * time.Second))

	for _, want := range []string{"CAP END\r\n", "NICK test\r\n", "USER test * * :Test User\r\n"} {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("ReadString() error: %v", err)
		}
		if line != want {
			t.Errorf("line = %q, want %q", line, want)
		}
	}

	if err := <-done; err != nil {
		t.Fatalf("MockConnect() error: %v", err)
	}

	if c.Status() != StatusConnected {
		t.Errorf("Status() = %v, want StatusConnected", c.Status())
	}

	other, otherServer := net.Pipe()
	defer other.Close()
	defer otherServer.Close()

	if err := c.MockConnect(other); err == nil {
		t.Fatal("MockConnect() on an already-connected Client should error")
	}
}

func TestClientMockConnectWithPass(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New(Config{Server: "irc.example.net", Port: 6667, Nick: "test", User: "test", Pass: "hunter2"})

	done := make(chan error, 1)
	go func() { done <- c.MockConnect(client) }()

	r := bufio.NewReader(server)
	server.SetReadDeadline(time.Now().Add(2 * time.Second))

	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error: %v", err)
	}
	if line != "PASS hunter2\r\n" {
		t.Errorf("line = %q, want PASS hunter2", line)
	}

	for range []string{"CAP END", "NICK", "USER"} {
		if _, err := r.ReadString('\n'); err != nil {
			t.Fatalf("ReadString() error: %v", err)
		}
	}

	if err := <-done; err != nil {
		t.Fatalf("MockConnect() error: %v", err)
	}
}

func TestClientNameFallsBackToUser(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New(Config{Server: "irc.example.net", Port: 6667, Nick: "test", User: "testuser"})

	done := make(chan error, 1)
	go func() { done <- c.MockConnect(client) }()

	r := bufio.NewReader(server)
	server.SetReadDeadline(time.Now().Add(2 * time.Second))

	if _, err := r.ReadString('\n'); err != nil { // CAP END
		t.Fatalf("ReadString() error: %v", err)
	}
	if _, err := r.ReadString('\n'); err != nil { // NICK
		t.Fatalf("ReadString() error: %v", err)
	}
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error: %v", err)
	}
	if line != "USER testuser * * :testuser\r\n" {
		t.Errorf("line = %q, want USER testuser * * :testuser", line)
	}

	if err := <-done; err != nil {
		t.Fatalf("MockConnect() error: %v", err)
	}
}

func TestClientBeforeConnect(t *testing.T) {
	c := New(Config{Server: "irc.example.net", Port: 6667, Nick: "test", User: "test"})

	if c.Status() != StatusNotConnected {
		t.Errorf("Status() = %v, want StatusNotConnected", c.Status())
	}
	if info := c.ServerInfo(); info != (ServerInfo{}) {
		t.Errorf("ServerInfo() = %+v, want zero value", info)
	}
	if _, err := c.ReadMessage(); err == nil {
		t.Error("ReadMessage() before connect should error")
	}
	if err := c.Write(&Message{Command: "PING"}); err == nil {
		t.Error("Write() before connect should error")
	}
	if err := c.Quit("bye"); err == nil {
		t.Error("Quit() before connect should error")
	}
	if w := c.Commands(); w != nil {
		t.Errorf("Commands() = %v, want nil before connect", w)
	}
}

func TestClientReadWriteAndQuit(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New(Config{Server: "irc.example.net", Port: 6667, Nick: "test", User: "test"})

	done := make(chan error, 1)
	go func() { done <- c.MockConnect(client) }()

	r := bufio.NewReader(server)
	server.SetReadDeadline(time.Now().Add(2 * time.Second))
	for range []string{"CAP END", "NICK", "USER"} {
		if _, err := r.ReadString('\n'); err != nil {
			t.Fatalf("ReadString() error: %v", err)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("MockConnect() error: %v", err)
	}

	msgCh := make(chan *Message, 1)
	go func() {
		msg, _ := c.ReadMessage()
		msgCh <- msg
	}()

	server.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if _, err := server.Write([]byte(":irc.example.net 001 test :Welcome\r\n")); err != nil {
		t.Fatalf("server.Write() error: %v", err)
	}

	select {
	case msg := <-msgCh:
		if msg == nil || msg.Command != "001" {
			t.Fatalf("ReadMessage() = %+v, want command 001", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ReadMessage result")
	}

	if err := c.Commands().Privmsg("#chan", "hi"); err != nil {
		t.Fatalf("Privmsg() error: %v", err)
	}
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error: %v", err)
	}
	if line != "PRIVMSG #chan :hi\r\n" {
		t.Errorf("line = %q, want PRIVMSG #chan :hi", line)
	}

	quitDone := make(chan error, 1)
	go func() { quitDone <- c.Quit("goodbye") }()

	line, err = r.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error: %v", err)
	}
	if line != "QUIT :goodbye\r\n" {
		t.Errorf("line = %q, want QUIT :goodbye", line)
	}
	if err := <-quitDone; err != nil {
		t.Fatalf("Quit() error: %v", err)
	}
	if c.Status() != StatusDisconnected {
		t.Errorf("Status() = %v, want StatusDisconnected", c.Status())
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}
