package ipc

import (
	"bytes"
	"testing"
)

func TestConnRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	conn := NewConn(&buf, &buf)

	req := NewLogRequest("debug", "hello")
	if err := conn.Send(req); err != nil {
		t.Fatal(err)
	}

	raw, err := conn.Recv()
	if err != nil {
		t.Fatal(err)
	}

	typ, err := PeekType(raw)
	if err != nil {
		t.Fatal(err)
	}
	if typ != TypeLog {
		t.Errorf("type = %q, want %q", typ, TypeLog)
	}

	var got LogRequest
	if err := conn.RecvInto(&LogRequest{}); err == nil {
		t.Fatal("expected a second read on an empty buffer to fail")
	}
	_ = got
}

func TestConnSendIsLineDelimited(t *testing.T) {
	var buf bytes.Buffer
	conn := NewConn(&buf, &buf)

	if err := conn.Send(NewStart()); err != nil {
		t.Fatal(err)
	}
	if err := conn.Send(NewLogRequest("info", "second")); err != nil {
		t.Fatal(err)
	}

	first, err := conn.Recv()
	if err != nil {
		t.Fatal(err)
	}
	typ, _ := PeekType(first)
	if typ != "start" {
		t.Errorf("first message type = %q, want start", typ)
	}

	second, err := conn.Recv()
	if err != nil {
		t.Fatal(err)
	}
	typ2, _ := PeekType(second)
	if typ2 != TypeLog {
		t.Errorf("second message type = %q, want %q", typ2, TypeLog)
	}
}
