package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// envelope is the {status, data|message} wrapper every sn0int.com API
// response uses (SPEC_FULL.md §4.12), mirroring sn0int_common::ApiResponse
// in _examples/original_source/src/api.rs.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to a hosted module registry over plain net/http — the
// host's own unsandboxed client, distinct from the session manager a
// running module gets through http_mksession.
type Client struct {
	baseURL string
	http    *http.Client
	session string
}

// NewClient returns a Client pointed at baseURL (config.Core.Registry).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate attaches session to every subsequent request's Auth
// header (spec §6.5).
func (c *Client) Authenticate(session string) {
	c.session = session
}

func (c *Client) do(method, path string, body []byte, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build registry request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set("Auth", c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read registry response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode registry response: %w", err)
	}
	if env.Status != "success" {
		if env.Message == "" {
			env.Message = fmt.Sprintf("registry returned http %d", resp.StatusCode)
		}
		return fmt.Errorf("registry error: %s", env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode registry payload: %w", err)
		}
	}
	return nil
}

// WhoAmI reports the identity behind the current session (GET
// /api/v0/whoami).
type WhoAmI struct {
	User string `json:"user"`
}

func (c *Client) WhoAmI() (WhoAmI, error) {
	var out WhoAmI
	err := c.do(http.MethodGet, "/api/v0/whoami", nil, &out)
	return out, err
}

// ModuleInfo is the registry's module summary shape, shared by quickstart,
// search and info responses.
type ModuleInfo struct {
	Author      string `json:"author"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Latest      string `json:"latest"`
}

// Quickstart fetches the curated starter module set (GET
// /api/v0/quickstart).
func (c *Client) Quickstart() ([]ModuleInfo, error) {
	var out []ModuleInfo
	err := c.do(http.MethodGet, "/api/v0/quickstart", nil, &out)
	return out, err
}

// LatestRelease reports the registry-wide freshness marker used by the
// auto-updater to decide whether anything changed since its last check
// (GET /api/v0/latest), mirroring update.rs's AutoUpdater::check_updates
// comparing `latest.time` against the persisted `registry` field.
type LatestRelease struct {
	Time *int64 `json:"time"`
}

func (c *Client) LatestRelease() (LatestRelease, error) {
	var out LatestRelease
	err := c.do(http.MethodGet, "/api/v0/latest", nil, &out)
	return out, err
}

// Search queries the registry's full text index (GET /api/v0/search).
func (c *Client) Search(q string) ([]ModuleInfo, error) {
	var out []ModuleInfo
	path := fmt.Sprintf("/api/v0/search?q=%s", url.QueryEscape(q))
	err := c.do(http.MethodGet, path, nil, &out)
	return out, err
}

// Info fetches a single module's registry metadata (GET
// /api/v0/info/<author>/<name>).
func (c *Client) Info(author, name string) (ModuleInfo, error) {
	var out ModuleInfo
	path := fmt.Sprintf("/api/v0/info/%s/%s", url.PathEscape(author), url.PathEscape(name))
	err := c.do(http.MethodGet, path, nil, &out)
	return out, err
}

// Download fetches a module's source at a specific version (GET
// /api/v0/dl/<author>/<name>/<version>).
func (c *Client) Download(author, name, version string) (string, error) {
	var out struct {
		Source string `json:"code"`
	}
	path := fmt.Sprintf("/api/v0/dl/%s/%s/%s", url.PathEscape(author), url.PathEscape(name), url.PathEscape(version))
	err := c.do(http.MethodGet, path, nil, &out)
	return out.Source, err
}

// PublishResult is returned by a successful Publish call.
type PublishResult struct {
	Author  string `json:"author"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Publish uploads code as module name (POST /api/v0/publish/<name>),
// requiring a prior call to Authenticate.
func (c *Client) Publish(name, code string) (PublishResult, error) {
	var out PublishResult
	body, err := json.Marshal(struct {
		Code string `json:"code"`
	}{Code: code})
	if err != nil {
		return out, err
	}
	path := fmt.Sprintf("/api/v0/publish/%s", url.PathEscape(name))
	err = c.do(http.MethodPost, path, body, &out)
	return out, err
}
