// Package sock implements the raw socket host function group
// (SPEC_FULL.md §4.5.2: `sock_connect`/`sock_send`/`sock_recv`/
// `sock_sendline`/`sock_recvline`/`sock_recvall`/`sock_recvline_contains`/
// `sock_recvline_regex`/`sock_recvn`/`sock_recvuntil`/`sock_sendafter`/
// `sock_newline`/`sock_upgrade_to_tls`). Grounded on
// _examples/original_source/sn0int-std/src/sockets/mod.rs, translated
// from rustls+BufStream to crypto/tls+bufio.
package sock

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"regexp"
	"time"
)

// Options mirrors SocketOptions — whether to wrap in TLS immediately,
// SNI override, verification bypass, and the three timeout knobs.
type Options struct {
	TLS              bool
	SNIValue         string
	DisableTLSVerify bool
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

// Socket is one open connection plus its buffered reader and mutable
// line delimiter (mod.rs's Socket { stream: BufStream<Stream>, newline }).
type Socket struct {
	conn    net.Conn
	r       *bufio.Reader
	newline string
	opts    Options
}

// Connect resolves host (unless it already parses as an IP), tries each
// candidate address in order, and returns the first that connects —
// Stream::connect_stream's address-exhaustion loop.
func Connect(host string, port int, resolve func(host string) ([]string, error), opts Options) (*Socket, error) {
	addrs := []string{host}
	if net.ParseIP(host) == nil {
		resolved, err := resolve(host)
		if err != nil {
			return nil, fmt.Errorf("dns resolution failed: %w", err)
		}
		addrs = resolved
	}

	var lastErr error
	for _, addr := range addrs {
		target := net.JoinHostPort(addr, fmt.Sprintf("%d", port))
		conn, err := dial(target, host, opts)
		if err == nil {
			return newSocket(conn, opts), nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("couldn't connect to %s: %w", host, lastErr)
}

func dial(addr, sniHost string, opts Options) (net.Conn, error) {
	timeout := opts.ConnectTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	if opts.TLS {
		return wrapTLS(conn, sniHost, opts)
	}
	return conn, nil
}

func wrapTLS(conn net.Conn, sniHost string, opts Options) (net.Conn, error) {
	cfg := &tls.Config{InsecureSkipVerify: opts.DisableTLSVerify}
	if opts.SNIValue != "" {
		cfg.ServerName = opts.SNIValue
	} else if net.ParseIP(sniHost) == nil {
		cfg.ServerName = sniHost
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake failed: %w", err)
	}
	return tlsConn, nil
}

func newSocket(conn net.Conn, opts Options) *Socket {
	return &Socket{conn: conn, r: bufio.NewReader(conn), newline: "\n", opts: opts}
}

// UpgradeToTLS wraps an already-open plaintext socket in TLS — only valid
// once, since mod.rs's upgrade_to_tls consumes the inner Stream::Tcp.
func (s *Socket) UpgradeToTLS(opts Options) error {
	tlsConn, err := wrapTLS(s.conn, "", opts)
	if err != nil {
		return err
	}
	s.conn = tlsConn
	s.r = bufio.NewReader(tlsConn)
	return nil
}

func (s *Socket) SetNewline(nl string) { s.newline = nl }

func (s *Socket) applyTimeouts() {
	if s.opts.ReadTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
	if s.opts.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
}

func (s *Socket) Send(data []byte) error {
	s.applyTimeouts()
	_, err := s.conn.Write(data)
	return err
}

func (s *Socket) SendLine(line string) error {
	return s.Send([]byte(line + s.newline))
}

// Recv performs one non-blocking-ish read of up to 4096 bytes — a
// WouldBlock-class timeout returns an empty slice rather than an error,
// matching mod.rs's recv so scripts can poll cooperatively.
func (s *Socket) Recv() ([]byte, error) {
	s.applyTimeouts()
	buf := make([]byte, 4096)
	n, err := s.r.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return []byte{}, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("connection closed")
	}
	return buf[:n], nil
}

func (s *Socket) RecvLine() (string, error) {
	buf, err := s.RecvUntil([]byte(s.newline))
	return string(buf), err
}

func (s *Socket) RecvAll() ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(s.r)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Socket) RecvLineContains(needle string) (string, error) {
	for {
		line, err := s.RecvLine()
		if err != nil {
			return "", err
		}
		if bytes.Contains([]byte(line), []byte(needle)) {
			return line, nil
		}
	}
}

func (s *Socket) RecvLineRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}
	for {
		line, err := s.RecvLine()
		if err != nil {
			return "", err
		}
		if re.MatchString(line) {
			return line, nil
		}
	}
}

func (s *Socket) RecvN(n int) ([]byte, error) {
	s.applyTimeouts()
	buf := make([]byte, n)
	if _, err := s.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Socket) readFull(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := s.r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RecvUntil reads until delim is found, returning bytes including the
// delimiter (mod.rs's recvuntil — byte-by-byte against the buffered
// reader's own window, which bufio.Reader.ReadBytes already implements
// for a single-byte delimiter; a multi-byte delimiter falls back to a
// manual scan).
func (s *Socket) RecvUntil(delim []byte) ([]byte, error) {
	s.applyTimeouts()
	if len(delim) == 1 {
		return s.r.ReadBytes(delim[0])
	}

	var buf bytes.Buffer
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf.WriteByte(b)
		if buf.Len() >= len(delim) && bytes.HasSuffix(buf.Bytes(), delim) {
			return buf.Bytes(), nil
		}
	}
}

// SendAfter waits for needle to appear in the stream, then sends data —
// the canonical pwnlib-style "sendafter" primitive.
func (s *Socket) SendAfter(needle string, data []byte) error {
	if _, err := s.RecvUntil([]byte(needle)); err != nil {
		return err
	}
	return s.Send(data)
}

func (s *Socket) Close() error {
	return s.conn.Close()
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
