package sock

import (
	"net"
	"testing"
	"time"
)

func listenerAddr(t *testing.T) (net.Listener, string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	return ln, addr.IP.String(), addr.Port
}

func TestConnectAndSendRecv(t *testing.T) {
	ln, host, port := listenerAddr(t)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		conn.Read(buf)
		conn.Write([]byte("pong\n"))
	}()

	s, err := Connect(host, port, nil, Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Send([]byte("ping\n")); err != nil {
		t.Fatal(err)
	}
	line, err := s.RecvLine()
	if err != nil {
		t.Fatal(err)
	}
	if line != "pong\n" {
		t.Errorf("got %q", line)
	}
}

func TestRecvNReadsExactCount(t *testing.T) {
	ln, host, port := listenerAddr(t)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("abcdefgh"))
	}()

	s, err := Connect(host, port, nil, Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	buf, err := s.RecvN(4)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "abcd" {
		t.Errorf("got %q", buf)
	}
}

func TestRecvLineContainsMatches(t *testing.T) {
	ln, host, port := listenerAddr(t)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("noise\nready: go\n"))
	}()

	s, err := Connect(host, port, nil, Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	line, err := s.RecvLineContains("ready")
	if err != nil {
		t.Fatal(err)
	}
	if line != "ready: go\n" {
		t.Errorf("got %q", line)
	}
}

func TestConnectFailureReturnsError(t *testing.T) {
	if _, err := Connect("127.0.0.1", 1, nil, Options{ConnectTimeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected an error connecting to a closed port")
	}
}
