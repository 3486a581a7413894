package httpsession

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMkSessionIssuesUniqueIDs(t *testing.T) {
	m := NewManager(http.DefaultClient)
	a := m.MkSession()
	b := m.MkSession()
	if a == b {
		t.Fatal("expected distinct session ids")
	}
	if len(a) != 16 {
		t.Errorf("expected a 16-char id, got %q", a)
	}
}

func TestSendRegistersCookiesAndReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123"})
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	m := NewManager(srv.Client())
	sid := m.MkSession()

	resp, err := m.Send(&Request{Session: sid, Method: "GET", URL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "hello" {
		t.Errorf("got text %q", resp.Text)
	}
	if m.sessions[sid].Cookies.values["session"] != "abc123" {
		t.Errorf("expected the session cookie to be registered in the jar")
	}
}

func TestSendFollowsRedirectsAsGet(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/done", http.StatusFound)
			return
		}
		if r.Method != "GET" {
			t.Errorf("expected redirect hop to use GET, got %s", r.Method)
		}
		w.Write([]byte("done"))
	}))
	defer srv.Close()

	m := NewManager(srv.Client())
	sid := m.MkSession()

	resp, err := m.Send(&Request{
		Session:         sid,
		Method:          "POST",
		URL:             srv.URL + "/start",
		FollowRedirects: 1,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "done" || hits != 2 {
		t.Errorf("got text %q, hits %d", resp.Text, hits)
	}
}

func TestSendUnknownSession(t *testing.T) {
	m := NewManager(http.DefaultClient)
	if _, err := m.Send(&Request{Session: "missing", Method: "GET", URL: "http://example.com"}, nil); err == nil {
		t.Fatal("expected an error for an unknown session id")
	}
}

func TestSendIntoBlob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("binary-data"))
	}))
	defer srv.Close()

	m := NewManager(srv.Client())
	sid := m.MkSession()

	var captured []byte
	register := func(data []byte) string {
		captured = data
		return "blob-id"
	}

	resp, err := m.Send(&Request{Session: sid, Method: "GET", URL: srv.URL, Options: Options{IntoBlob: true}}, register)
	if err != nil {
		t.Fatal(err)
	}
	if resp.BlobID != "blob-id" || string(captured) != "binary-data" {
		t.Errorf("got blob id %q, captured %q", resp.BlobID, captured)
	}
}
