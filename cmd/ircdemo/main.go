// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

// Command ircdemo connects to a server, joins a channel, and answers any
// PRIVMSG containing "hello" by sending "hello world!" to that PRIVMSG's
// target (the channel, for a channel message). It exists to exercise
// ircproto end to end, not as a usable bot.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/lrstanley/ircproto"
)

func main() {
	server := flag.String("server", "irc.libera.chat", "server to connect to")
	port := flag.Int("port", 6667, "server port")
	nick := flag.String("nick", "ircproto-demo", "nickname to register with")
	channel := flag.String("channel", "#ircproto-demo", "channel to join once registered")
	flag.Parse()

	client := ircproto.New(ircproto.Config{
		Server:        *server,
		Port:          *port,
		Nick:          *nick,
		User:          *nick,
		Name:          "ircproto demo",
		SupportedCaps: []string{"multi-prefix", "server-time"},
		Logger:        os.Stdout,
	})

	if err := client.Connect(); err != nil {
		log.Fatalf("connect to %s:%d: %v", *server, *port, err)
	}
	defer client.Close()

	if err := client.Commands().Join(*channel, ""); err != nil {
		log.Fatalf("join %s: %v", *channel, err)
	}

	for {
		msg, err := client.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		if msg == nil {
			return
		}

		if msg.Command != "PRIVMSG" || len(msg.Params) == 0 {
			continue
		}
		if !strings.Contains(msg.Trailing, "hello") {
			continue
		}

		if err := client.Commands().Privmsg(msg.Params[0], "hello world!"); err != nil {
			log.Printf("reply to %s: %v", msg.Params[0], err)
		}
	}
}
