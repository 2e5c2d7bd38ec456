// Copyright (c) Liam Stanley <me@liamstanley.io>. All rights reserved. Use
// of this source code is governed by the MIT license that can be found in
// the LICENSE file.

package ircproto

import (
	"io"
)

// maxFrameBuffer is the IRCv3 message-tags maximum line size: 512 bytes of
// RFC2812 message plus up to 512 bytes of tag data.
const maxFrameBuffer = 1024

// Reader extracts CRLF (or bare CR/LF) delimited IRC messages from an
// underlying io.Reader, using a fixed 1024-byte bounded buffer rather than
// growing without limit. This matches the IRCv3 message-tags specification,
// which caps a single line (tags included) at 1024 bytes.
//
// Reader is not safe for concurrent use.
type Reader struct {
	src    io.Reader
	buf    [maxFrameBuffer]byte
	length int
}

// NewReader wraps src in a bounded-buffer framing Reader.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// scanBuffer looks for a CR or LF terminator already present in the
// buffered bytes and, if found, parses everything before it as a Message.
// A line that parses as ErrEmptyInput (e.g. a stray blank line) just
// advances the scan position; a genuinely malformed line is reported to
// the caller at once, without compacting. Otherwise the buffer is compacted
// to discard everything before the last terminator reached; that terminator
// stays at the head of the buffer and is skipped as an empty line by the
// next scan.
func (r *Reader) scanBuffer() (*Message, error) {
	var msg *Message
	start := 0

	for i := 0; i < r.length; i++ {
		if start < r.length && (r.buf[i] == '\r' || r.buf[i] == '\n') {
			m, err := ParseMessage(string(r.buf[start:i]))
			if err == nil {
				msg = m
				start = i
				break
			}
			if err == ErrEmptyInput {
				start = i
				continue
			}
			return nil, &ProtocolError{Kind: ErrKindOther, Desc: "malformed IRC message"}
		}
	}

	if start > 0 {
		n := copy(r.buf[:], r.buf[start:r.length])
		for i := n; i < r.length; i++ {
			r.buf[i] = 0
		}
		r.length = n
	}

	return msg, nil
}

// ReadMessage reads and parses the next message from the stream, blocking
// on the underlying reader as needed. It performs at most one underlying
// Read call per invocation: if no complete message is already buffered, it
// reads once into the remaining buffer capacity and re-scans, but does not
// loop reading further. Returns nil, nil when that pass yields no complete
// message, which is also what it returns once the underlying stream is
// exhausted (io.EOF from the source is not passed on).
func (r *Reader) ReadMessage() (*Message, error) {
	msg, err := r.scanBuffer()
	if err != nil {
		return nil, err
	}
	if msg != nil {
		return msg, nil
	}

	if r.length >= maxFrameBuffer-1 {
		return nil, &ProtocolError{Kind: ErrKindExceededMaxSize, Desc: "message exceeded maximum size of 1024 bytes"}
	}

	n, err := r.src.Read(r.buf[r.length:])
	if n > 0 {
		r.length += n
		return r.scanBuffer()
	}
	if err != nil && err != io.EOF {
		return nil, err
	}

	return nil, nil
}
