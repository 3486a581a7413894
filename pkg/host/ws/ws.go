// Package ws implements the WebSocket host function group
// (SPEC_FULL.md §4.5.3: `ws_connect`/`ws_options`/`ws_recv_text`/
// `ws_recv_binary`/`ws_recv_json`/`ws_send_text`/`ws_send_binary`/
// `ws_send_json`). Grounded on
// _examples/original_source/sn0int-std/src/websockets.rs, translated
// from tungstenite to github.com/gorilla/websocket.
package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Options mirrors WebSocketOptions.
type Options struct {
	Headers        map[string]string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Socket wraps one negotiated connection; inbound PING is answered with
// PONG transparently inside ReadText/ReadBinary, matching websockets.rs's
// read_msg loop.
type Socket struct {
	conn *websocket.Conn
	opts Options
}

// Connect resolves scheme (ws→80, wss→443 when no explicit port) and
// performs the WebSocket handshake.
func Connect(rawURL string, opts Options) (*Socket, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid websocket protocol: %q", u.Scheme)
	}

	header := http.Header{}
	for k, v := range opts.Headers {
		header.Set(k, v)
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.ConnectTimeout}
	conn, _, err := dialer.Dial(u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("websocket handshake failed: %w", err)
	}
	return &Socket{conn: conn, opts: opts}, nil
}

func (s *Socket) applyDeadlines() {
	if s.opts.ReadTimeout > 0 {
		s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
	if s.opts.WriteTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	}
}

// ReadText returns the next text message, or (nil, nil) on a read
// timeout — websockets.rs's Event::Timeout collapsing to Ok(None).
func (s *Socket) ReadText() (*string, error) {
	s.applyDeadlines()
	for {
		mt, data, err := s.conn.ReadMessage()
		if isTimeout(err) {
			return nil, nil
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("connection closed")
		}
		if err != nil {
			return nil, err
		}
		switch mt {
		case websocket.TextMessage:
			text := string(data)
			return &text, nil
		case websocket.BinaryMessage:
			return nil, fmt.Errorf("unexpected message type: binary")
		default:
			continue
		}
	}
}

func (s *Socket) ReadBinary() ([]byte, error) {
	s.applyDeadlines()
	for {
		mt, data, err := s.conn.ReadMessage()
		if isTimeout(err) {
			return nil, nil
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, fmt.Errorf("connection closed")
		}
		if err != nil {
			return nil, err
		}
		switch mt {
		case websocket.BinaryMessage:
			return data, nil
		case websocket.TextMessage:
			return nil, fmt.Errorf("unexpected message type: text")
		default:
			continue
		}
	}
}

func (s *Socket) ReadJSON(v interface{}) error {
	text, err := s.ReadText()
	if err != nil {
		return err
	}
	if text == nil {
		return nil
	}
	return json.Unmarshal([]byte(*text), v)
}

func (s *Socket) WriteText(text string) error {
	s.applyDeadlines()
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (s *Socket) WriteBinary(data []byte) error {
	s.applyDeadlines()
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (s *Socket) WriteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.WriteText(string(data))
}

func (s *Socket) Close() error {
	return s.conn.Close()
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
