// Package ipc implements the newline-delimited JSON transport between the
// shell process and its sandboxed children (component C7, SPEC_FULL.md
// §4.2/§6.4): one JSON object per line in both directions, strictly FIFO
// within a single child. Grounded on
// _examples/original_source/src/ipc/{common,child,parent}.rs — StdioIpcChild
// and IpcParent's send/recv pairs are both "marshal, append '\n', write" /
// "read a line, unmarshal", translated here into a single bidirectional
// Conn used by both sides.
package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Conn is a line-delimited JSON duplex, used identically by the parent
// (over a child's stdin/stdout pipes) and the child (over its own
// stdin/stdout), matching the symmetry of StdioIpcChild and IpcParent.
type Conn struct {
	r *bufio.Reader
	w io.Writer
}

func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{r: bufio.NewReader(r), w: w}
}

// Send marshals v and writes it as a single newline-terminated line.
func (c *Conn) Send(v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal ipc message: %w", err)
	}
	buf = append(buf, '\n')
	if _, err := c.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write ipc message: %w", err)
	}
	return nil
}

// Recv reads one line and returns it as a raw JSON value, letting the
// caller peek the "type" discriminator before fully unmarshalling.
func (c *Conn) Recv() (json.RawMessage, error) {
	line, err := c.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return json.RawMessage(line), nil
		}
		return nil, err
	}
	return json.RawMessage(line), nil
}

// RecvInto reads one line and unmarshals it into v.
func (c *Conn) RecvInto(v interface{}) error {
	line, err := c.Recv()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("failed to unmarshal ipc message: %w", err)
	}
	return nil
}

// Envelope holds just enough to dispatch on type before decoding the rest.
type Envelope struct {
	Type string `json:"type"`
}

// PeekType extracts the "type" discriminator from a raw message without
// fully decoding it.
func PeekType(raw json.RawMessage) (string, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}
