// Package httpsession implements the HTTP host function group
// (SPEC_FULL.md §4.5.1: `http_mksession`/`http_request`/`http_send`/
// `http_fetch`). Grounded on
// _examples/original_source/sn0int-std/src/web.rs, translated from
// chrootable_https/hyper to net/http.
package httpsession

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CookieJar is a flat key=value store per session (web.rs's CookieJar —
// a HashMap, not the stdlib's origin-scoped jar, since sn0int sessions
// are not bound to a single host).
type CookieJar struct {
	values map[string]string
}

func newCookieJar() *CookieJar {
	return &CookieJar{values: make(map[string]string)}
}

func (j *CookieJar) registerInJar(key, value string) {
	j.values[key] = value
}

// Header renders the jar as a single `Cookie` header value, in
// unspecified map-iteration order, matching attach_cookies's `key=value;
// key=value` join.
func (j *CookieJar) Header() string {
	if len(j.values) == 0 {
		return ""
	}
	var b strings.Builder
	first := true
	for k, v := range j.values {
		if !first {
			b.WriteString("; ")
		}
		first = false
		fmt.Fprintf(&b, "%s=%s", k, v)
	}
	return b.String()
}

// Session is one `http_mksession()`-minted id plus its cookie jar.
type Session struct {
	ID      string
	Cookies *CookieJar
}

func randomID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 16)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}

// Manager owns every open session for one module run, keyed by session id.
type Manager struct {
	sessions map[string]*Session
	client   *http.Client
}

func NewManager(client *http.Client) *Manager {
	return &Manager{sessions: make(map[string]*Session), client: client}
}

// MkSession mints a fresh session id (`http_mksession`).
func (m *Manager) MkSession() string {
	s := &Session{ID: randomID(), Cookies: newCookieJar()}
	m.sessions[s.ID] = s
	return s.ID
}

// RegisterInJar implements web.rs's WebState::register_in_jar, called
// after every response to fold Set-Cookie pairs into the session jar.
func (m *Manager) RegisterInJar(session, key, value string) {
	if s, ok := m.sessions[session]; ok {
		s.Cookies.registerInJar(key, value)
	}
}

// Options is RequestOptions, decoded straight off the script's argument
// table.
type Options struct {
	Query           map[string]string `json:"query"`
	Headers         map[string]string `json:"headers"`
	BasicAuthUser   string            `json:"basic_auth_user"`
	BasicAuthPass   string            `json:"basic_auth_pass"`
	UserAgent       string            `json:"user_agent"`
	JSON            json.RawMessage   `json:"json"`
	Form            map[string]string `json:"form"`
	FollowRedirects int               `json:"follow_redirects"`
	Body            string            `json:"body"`
	TimeoutMS       int64             `json:"timeout"`
	IntoBlob        bool              `json:"into_blob"`
	Binary          bool              `json:"binary"`
}

// Request is a constructed HttpRequest value object, reusable across
// redirect hops the same way web.rs's HttpRequest is.
type Request struct {
	Session         string
	Method          string
	URL             string
	Options         Options
	FollowRedirects int
}

// Response is what `http_send` hands back to the script — status,
// headers, and exactly one of Text/Binary/BlobID depending on Options.
type Response struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	IPAddr  string            `json:"ipaddr,omitempty"`
	Text    string            `json:"text,omitempty"`
	Binary  []byte            `json:"binary,omitempty"`
	BlobID  string            `json:"blob,omitempty"`
}

// Send performs req, following redirects up to req.FollowRedirects times
// the way HttpRequest::send does: on a 3xx with Location, the next hop is
// always a bodyless GET with cookies reattached and the counter
// decremented.
func (m *Manager) Send(req *Request, registerBlob func([]byte) string) (*Response, error) {
	session, ok := m.sessions[req.Session]
	if !ok {
		return nil, fmt.Errorf("unknown session: %q", req.Session)
	}

	method := req.Method
	target := req.URL
	remaining := req.FollowRedirects
	body, contentType, err := buildBody(req.Options)
	if err != nil {
		return nil, err
	}

	for {
		httpReq, err := http.NewRequest(method, withQuery(target, req.Options.Query), body)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		applyHeaders(httpReq, req.Options, contentType, session.Cookies.Header())

		resp, err := m.client.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		for _, c := range resp.Cookies() {
			session.Cookies.registerInJar(c.Name, c.Value)
		}

		if remaining > 0 && resp.StatusCode >= 300 && resp.StatusCode < 400 {
			if loc := resp.Header.Get("Location"); loc != "" {
				joined, err := joinURL(target, loc)
				if err != nil {
					resp.Body.Close()
					return nil, err
				}
				target = joined
				method = "GET"
				body = nil
				remaining--
				resp.Body.Close()
				continue
			}
		}

		return responseFrom(resp, req.Options, registerBlob)
	}
}

func joinURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

func withQuery(target string, query map[string]string) string {
	if len(query) == 0 {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func buildBody(opts Options) (io.Reader, string, error) {
	switch {
	case len(opts.JSON) > 0:
		return strings.NewReader(string(opts.JSON)), "application/json", nil
	case opts.Form != nil:
		v := url.Values{}
		for k, val := range opts.Form {
			v.Set(k, val)
		}
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded", nil
	case opts.Body != "":
		return strings.NewReader(opts.Body), "", nil
	default:
		return nil, "", nil
	}
}

func applyHeaders(req *http.Request, opts Options, contentType, cookieHeader string) {
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.BasicAuthUser != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(opts.BasicAuthUser + ":" + opts.BasicAuthPass))
		req.Header.Set("Authorization", "Basic "+creds)
	}
	observed := make(map[string]bool)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
		observed[strings.ToLower(k)] = true
	}
	if contentType != "" && !observed["content-type"] {
		req.Header.Set("Content-Type", contentType)
	}
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
}

func responseFrom(resp *http.Response, opts Options, registerBlob func([]byte) string) (*Response, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[strings.ToLower(k)] = resp.Header.Get(k)
	}

	out := &Response{Status: resp.StatusCode, Headers: headers}
	switch {
	case opts.IntoBlob:
		out.BlobID = registerBlob(data)
	case opts.Binary:
		out.Binary = data
	default:
		out.Text = string(data)
	}
	return out, nil
}

// NewClient builds the net/http client used for ordinary (non-socket)
// requests, honoring an optional proxy and per-request timeout.
func NewClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
