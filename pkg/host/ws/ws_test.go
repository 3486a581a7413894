package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
}

func toWsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func TestConnectAndEchoText(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := Connect(toWsURL(srv.URL), Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer sock.Close()

	if err := sock.WriteText("hello"); err != nil {
		t.Fatal(err)
	}
	text, err := sock.ReadText()
	if err != nil {
		t.Fatal(err)
	}
	if text == nil || *text != "hello" {
		t.Errorf("got %v", text)
	}
}

func TestConnectAndEchoBinary(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := Connect(toWsURL(srv.URL), Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer sock.Close()

	if err := sock.WriteBinary([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	data, err := sock.ReadBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 || data[0] != 1 {
		t.Errorf("got %v", data)
	}
}

func TestReadTextRejectsBinaryMessage(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := Connect(toWsURL(srv.URL), Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer sock.Close()

	if err := sock.WriteBinary([]byte{9}); err != nil {
		t.Fatal(err)
	}
	if _, err := sock.ReadText(); err == nil {
		t.Fatal("expected an error reading a binary message as text")
	}
}

func TestInvalidScheme(t *testing.T) {
	if _, err := Connect("http://example.com", Options{}); err == nil {
		t.Fatal("expected an error for a non-websocket scheme")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	sock, err := Connect(toWsURL(srv.URL), Options{ConnectTimeout: 2 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer sock.Close()

	type payload struct {
		Name string `json:"name"`
	}
	if err := sock.WriteJSON(payload{Name: "sn0int"}); err != nil {
		t.Fatal(err)
	}
	var out payload
	if err := sock.ReadJSON(&out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "sn0int" {
		t.Errorf("got %+v", out)
	}
}
