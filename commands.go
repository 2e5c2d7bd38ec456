// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"fmt"
	"io"
	"strings"
)

// ctcpDelim is the prefix/suffix byte wrapping a CTCP-quoted message.
const ctcpDelim = "\x01"

// ctcpQuoter implements the CTCP low-level quoting scheme: \x16 is doubled,
// and NUL/LF/CR/\x01 are escaped with a \x16-prefixed (or, for \x01, a
// literal backslash-a) sequence. \x16 must be handled before the bytes it
// is used to introduce, so this single-pass replacer preserves that
// ordering within one scan of the input.
var ctcpQuoter = strings.NewReplacer(
	"\x16", "\x16\x16",
	"\x00", "\x160",
	"\n", "\x16n",
	"\r", "\x16r",
	"\x01", "\\a",
)

func quoteCTCP(content string) string {
	return ctcpQuoter.Replace(content)
}

// Writer serializes outbound IRC commands onto an io.Writer, one method
// per verb. Every method appends the terminating CRLF itself and, if w
// implements an exported Flush() error (as Transport does), flushes
// immediately afterward, so a single verb call is always enough to put
// bytes on the wire.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a command Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (c *Writer) writeLine(line string) error {
	if _, err := io.WriteString(c.w, line+"\r\n"); err != nil {
		return err
	}
	if f, ok := c.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Pass sends the server password, before registration.
func (c *Writer) Pass(password string) error {
	return c.writeLine("PASS " + password)
}

// CapLS requests the list of capabilities the server supports. An empty
// version sends a bare "CAP LS" (IRCv3.1); a non-empty version (e.g.
// "302") requests the versioned reply format.
func (c *Writer) CapLS(version string) error {
	if version == "" {
		return c.writeLine("CAP LS")
	}
	return c.writeLine("CAP LS " + version)
}

// CapList requests the list of capabilities currently enabled.
func (c *Writer) CapList() error {
	return c.writeLine("CAP LIST")
}

// CapReq requests that the given capabilities be enabled.
func (c *Writer) CapReq(caps []string) error {
	return c.writeLine("CAP REQ :" + strings.Join(caps, " "))
}

// CapAck acknowledges capabilities that required an explicit ack (the "~"
// modifier).
func (c *Writer) CapAck(caps []string) error {
	return c.writeLine("CAP ACK :" + strings.Join(caps, " "))
}

// CapEnd signals that capability negotiation is complete and registration
// may continue.
func (c *Writer) CapEnd() error {
	return c.writeLine("CAP END")
}

// CapClear disables all currently enabled capabilities.
func (c *Writer) CapClear() error {
	return c.writeLine("CAP CLEAR")
}

// Nick sets or changes the client's nickname.
func (c *Writer) Nick(nick string) error {
	return c.writeLine("NICK " + nick)
}

// User completes registration with the given username and real name.
func (c *Writer) User(userName, realName string) error {
	return c.writeLine(fmt.Sprintf("USER %s * * :%s", userName, realName))
}

// Oper requests operator privileges.
func (c *Writer) Oper(user, pass string) error {
	return c.writeLine(fmt.Sprintf("OPER %s %s", user, pass))
}

// Quit disconnects from the server with an optional parting message.
func (c *Writer) Quit(message string) error {
	if message == "" {
		return c.writeLine("QUIT")
	}
	return c.writeLine("QUIT :" + message)
}

// Join joins a channel, with an optional key.
func (c *Writer) Join(channel, key string) error {
	if key == "" {
		return c.writeLine("JOIN " + channel)
	}
	return c.writeLine(fmt.Sprintf("JOIN %s %s", channel, key))
}

// Part leaves a channel, with an optional parting message.
func (c *Writer) Part(channel, message string) error {
	if message == "" {
		return c.writeLine("PART " + channel)
	}
	return c.writeLine(fmt.Sprintf("PART %s :%s", channel, message))
}

// Mode queries or sets channel/user modes.
func (c *Writer) Mode(target string, params []string) error {
	if len(params) == 0 {
		return c.writeLine("MODE " + target)
	}
	return c.writeLine(fmt.Sprintf("MODE %s %s", target, strings.Join(params, " ")))
}

// Topic queries or sets a channel's topic.
func (c *Writer) Topic(channel, newTopic string) error {
	if newTopic == "" {
		return c.writeLine("TOPIC " + channel)
	}
	return c.writeLine(fmt.Sprintf("TOPIC %s :%s", channel, newTopic))
}

// Names lists the nicknames visible in a channel.
func (c *Writer) Names(channel string) error {
	return c.writeLine("NAMES " + channel)
}

// List requests the list of channels on the server.
func (c *Writer) List() error {
	return c.writeLine("LIST")
}

// Invite invites a nick to a channel.
func (c *Writer) Invite(nick, channel string) error {
	return c.writeLine(fmt.Sprintf("INVITE %s %s", nick, channel))
}

// Kick removes a nick from a channel, with an optional reason.
func (c *Writer) Kick(channel, nick, reason string) error {
	if reason == "" {
		return c.writeLine(fmt.Sprintf("KICK %s %s", channel, nick))
	}
	return c.writeLine(fmt.Sprintf("KICK %s %s :%s", channel, nick, reason))
}

// Version queries the server (or a remote server)'s version.
func (c *Writer) Version(server string) error {
	if server == "" {
		return c.writeLine("VERSION")
	}
	return c.writeLine("VERSION :" + server)
}

// Stats queries server statistics.
func (c *Writer) Stats(query byte, server string) error {
	if server == "" {
		return c.writeLine(fmt.Sprintf("STATS %c", query))
	}
	return c.writeLine(fmt.Sprintf("STATS %c :%s", query, server))
}

// Links lists servers matching an optional mask.
func (c *Writer) Links(mask, server string) error {
	switch {
	case mask != "" && server != "":
		return c.writeLine(fmt.Sprintf("LINKS %s %s", server, mask))
	case mask != "":
		return c.writeLine("LINKS " + mask)
	default:
		return c.writeLine("LINKS")
	}
}

// Time queries the current time on the server (or a remote server).
func (c *Writer) Time(server string) error {
	if server == "" {
		return c.writeLine("TIME")
	}
	return c.writeLine("TIME " + server)
}

// Connect asks the server to connect to another server.
func (c *Writer) Connect(targetServer, port, remoteServer string) error {
	switch {
	case port != "" && remoteServer != "":
		return c.writeLine(fmt.Sprintf("CONNECT %s %s %s", targetServer, port, remoteServer))
	case port != "":
		return c.writeLine(fmt.Sprintf("CONNECT %s %s", targetServer, port))
	default:
		return c.writeLine("CONNECT " + targetServer)
	}
}

// Trace traces the route to a server.
func (c *Writer) Trace(server string) error {
	if server == "" {
		return c.writeLine("TRACE")
	}
	return c.writeLine("TRACE " + server)
}

// Admin queries administrative information about a server.
func (c *Writer) Admin(server string) error {
	if server == "" {
		return c.writeLine("ADMIN")
	}
	return c.writeLine("ADMIN " + server)
}

// Info queries information about a server.
func (c *Writer) Info(server string) error {
	if server == "" {
		return c.writeLine("INFO")
	}
	return c.writeLine("INFO " + server)
}

// Privmsg sends a message to a nick or channel.
func (c *Writer) Privmsg(target, message string) error {
	return c.writeLine(fmt.Sprintf("PRIVMSG %s :%s", target, message))
}

// Notice sends a notice to a nick or channel.
func (c *Writer) Notice(target, message string) error {
	return c.writeLine(fmt.Sprintf("NOTICE %s :%s", target, message))
}

// CTCPRequest sends a quoted CTCP request inside a PRIVMSG.
func (c *Writer) CTCPRequest(ctcpType, target, content string) error {
	return c.writeLine(fmt.Sprintf("PRIVMSG %s :%s%s %s%s", target, ctcpDelim, ctcpType, quoteCTCP(content), ctcpDelim))
}

// CTCPReply sends a quoted CTCP reply inside a NOTICE.
func (c *Writer) CTCPReply(ctcpType, target, content string) error {
	return c.writeLine(fmt.Sprintf("NOTICE %s :%s%s %s%s", target, ctcpDelim, ctcpType, quoteCTCP(content), ctcpDelim))
}

// Who queries who is on a channel or matches a mask. If oper is true, only
// IRC operators are returned.
func (c *Writer) Who(name string, oper bool) error {
	switch {
	case name == "":
		return c.writeLine("WHO")
	case oper:
		return c.writeLine("WHO " + name + " o")
	default:
		return c.writeLine("WHO " + name)
	}
}

// Whois queries detailed information about a nick.
func (c *Writer) Whois(nickmask, server string) error {
	if server == "" {
		return c.writeLine("WHOIS " + nickmask)
	}
	return c.writeLine(fmt.Sprintf("WHOIS %s, %s", server, nickmask))
}

// Whowas queries historical information about a nick that has since
// disconnected.
func (c *Writer) Whowas(nickname string, count int, server string) error {
	switch {
	case count != 0 && server != "":
		return c.writeLine(fmt.Sprintf("WHOWAS %s %d %s", nickname, count, server))
	case count != 0:
		return c.writeLine(fmt.Sprintf("WHOWAS %s %d", nickname, count))
	default:
		return c.writeLine("WHOWAS " + nickname)
	}
}

// Kill forcibly disconnects a nick (operator only).
func (c *Writer) Kill(nickname, comment string) error {
	return c.writeLine(fmt.Sprintf("KILL %s :%s", nickname, comment))
}

// Ping sends a PING to the server.
func (c *Writer) Ping(server1, server2 string) error {
	if server2 == "" {
		return c.writeLine("PING " + server1)
	}
	return c.writeLine(fmt.Sprintf("PING %s %s", server1, server2))
}

// Pong replies to a server PING.
func (c *Writer) Pong(daemon1, daemon2 string) error {
	if daemon2 == "" {
		return c.writeLine("PONG " + daemon1)
	}
	return c.writeLine(fmt.Sprintf("PONG %s %s", daemon1, daemon2))
}

// Away marks the client away, or clears away status if message is empty.
func (c *Writer) Away(message string) error {
	if message == "" {
		return c.writeLine("AWAY")
	}
	return c.writeLine("AWAY :" + message)
}

// Wallops sends a message to all operators who have enabled wallops.
func (c *Writer) Wallops(message string) error {
	return c.writeLine("WALLOPS :" + message)
}

// Motd requests the message of the day, optionally from a specific
// server/target.
func (c *Writer) Motd(target string) error {
	if target == "" {
		return c.writeLine("MOTD")
	}
	return c.writeLine("MOTD " + target)
}

// Lusers requests user/server count statistics.
func (c *Writer) Lusers(mask, server string) error {
	switch {
	case mask != "" && server != "":
		return c.writeLine(fmt.Sprintf("LUSERS %s %s", mask, server))
	case mask != "":
		return c.writeLine("LUSERS " + mask)
	default:
		return c.writeLine("LUSERS")
	}
}

// MetadataList lists metadata keys for a target (IRCv3 METADATA draft).
func (c *Writer) MetadataList(target string, keys []string) error {
	if len(keys) == 0 {
		return c.writeLine(fmt.Sprintf("METADATA %s LIST", target))
	}
	return c.writeLine(fmt.Sprintf("METADATA %s LIST :%s", target, strings.Join(keys, " ")))
}

// MetadataSet sets a metadata key/value pair for a target.
func (c *Writer) MetadataSet(target, key, value string) error {
	if value == "" {
		return c.writeLine(fmt.Sprintf("METADATA %s SET %s", target, key))
	}
	return c.writeLine(fmt.Sprintf("METADATA %s SET %s :%s", target, key, value))
}

// MetadataClear clears all metadata for a target.
func (c *Writer) MetadataClear(target string) error {
	return c.writeLine(fmt.Sprintf("METADATA %s CLEAR", target))
}

// MonitorAdd adds nicks to the monitor list (IRCv3 MONITOR).
func (c *Writer) MonitorAdd(targets []string) error {
	return c.writeLine("MONITOR + " + strings.Join(targets, ","))
}

// MonitorRemove removes nicks from the monitor list.
func (c *Writer) MonitorRemove(targets []string) error {
	return c.writeLine("MONITOR - " + strings.Join(targets, ","))
}

// MonitorClear clears the monitor list.
func (c *Writer) MonitorClear() error {
	return c.writeLine("MONITOR C")
}

// MonitorList requests the current monitor list.
func (c *Writer) MonitorList() error {
	return c.writeLine("MONITOR L")
}

// MonitorStatus requests the online/offline status of monitored nicks.
func (c *Writer) MonitorStatus() error {
	return c.writeLine("MONITOR S")
}
