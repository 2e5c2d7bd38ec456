// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"bytes"
	"strings"
)

const (
	tagPrefix    byte = 0x40 // "@"
	tagEquals    byte = 0x3D // "="
	tagSeparator byte = 0x3B // ";"
)

// Tag is a single IRCv3 message tag, see the IRCv3 message-tags spec.
//
//	<tag>     :: <key> ['=' <escaped value>]
type Tag struct {
	Name  string
	Value string
	// HasValue distinguishes a tag with an explicit empty value ("key=")
	// from a valueless tag ("key").
	HasValue bool
}

// Tags is an ordered sequence of message tags, preserving the order they
// were parsed or appended in; tags are positional on the wire, not a set,
// so a slice rather than a map.
type Tags []Tag

// tagDecode and tagEncode implement the escape table from the IRCv3
// message-tags spec: backslash, semicolon, space, NUL, CR, and LF. Escaping
// must replace the backslash pair first so an already-escaped sequence
// isn't double-escaped.
var tagDecode = strings.NewReplacer(
	"\\:", ";",
	"\\s", " ",
	"\\0", "\x00",
	"\\r", "\r",
	"\\n", "\n",
	"\\\\", "\\",
)

var tagEncode = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\:",
	" ", "\\s",
	"\x00", "\\0",
	"\r", "\\r",
	"\n", "\\n",
)

// unescapeTagValue decodes the wire-escaped form of a tag value.
func unescapeTagValue(raw string) string {
	return tagDecode.Replace(raw)
}

// escapeTagValue encodes a tag value for the wire, escaping backslash
// first so subsequent substitutions can't interact with it.
func escapeTagValue(value string) string {
	return tagEncode.Replace(value)
}

// validRawTagValue rejects raw (not yet unescaped) tag values containing NUL,
// BEL, CR, LF, or a bare space, which are forbidden before unescaping.
func validRawTagValue(raw string) bool {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case 0x00, 0x07, '\r', '\n', ' ':
			return false
		}
	}
	return true
}

// ParseTag parses a single "key[=value]" tag component. raw must not
// include the leading "@" or the surrounding ";" separators.
func ParseTag(raw string) (Tag, error) {
	if raw == "" {
		return Tag{}, ErrEmptyInput
	}

	if i := strings.IndexByte(raw, tagEquals); i >= 0 {
		name, value := raw[:i], raw[i+1:]
		if name == "" {
			return Tag{}, ErrMalformedInput
		}
		if !validRawTagValue(value) {
			return Tag{}, ErrMalformedInput
		}
		return Tag{Name: name, Value: unescapeTagValue(value), HasValue: true}, nil
	}

	return Tag{Name: raw}, nil
}

// ParseTags parses the full tag list. raw should only be the tag portion
// of a message, without the leading "@", for example:
//
//	intent=action;time=2021-01-01T00:00:00Z
//
// Not:
//
//	@intent=action;time=2021-01-01T00:00:00Z :nick!user@host PRIVMSG ...
func ParseTags(raw string) (Tags, error) {
	if raw == "" {
		return nil, ErrEmptyInput
	}

	parts := strings.Split(raw, string(tagSeparator))
	tags := make(Tags, 0, len(parts))

	for _, part := range parts {
		tag, err := ParseTag(part)
		if err != nil {
			if err == ErrEmptyInput {
				continue
			}
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// String renders a single tag in wire format ("key" or "key=value").
func (t Tag) String() string {
	if !t.HasValue {
		return t.Name
	}
	return t.Name + string(tagEquals) + escapeTagValue(t.Value)
}

// Get looks up a tag by name, returning its decoded value.
func (tags Tags) Get(name string) (Tag, bool) {
	for _, t := range tags {
		if t.Name == name {
			return t, true
		}
	}
	return Tag{}, false
}

// Bytes renders the full tag list, prefixed with "@", with no trailing
// space. Returns nil if there are no tags.
func (tags Tags) Bytes() []byte {
	if len(tags) == 0 {
		return nil
	}

	buf := new(bytes.Buffer)
	buf.WriteByte(tagPrefix)

	for i, t := range tags {
		if i > 0 {
			buf.WriteByte(tagSeparator)
		}
		buf.WriteString(t.String())
	}

	return buf.Bytes()
}

// String renders the full tag list the same way Bytes does.
func (tags Tags) String() string {
	return string(tags.Bytes())
}
