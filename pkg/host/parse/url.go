// Package parse implements the URL/encoding/regex/datetime/HTML host
// function group (SPEC_FULL.md §4.4: `url_join`/`url_parse`/
// `base64_*`/`base32_*`/`regex_find*`/`strftime`/`strptime`/
// `html_select*`/`html_form`). Grounded on
// _examples/original_source/src/runtime/{url,encoding,regex,datetime,html}.rs.
package parse

import (
	"fmt"
	"net/url"
)

// URL is url_parse's LuaMap shape: Port/Query/Fragment/Params are only
// populated when present in the source URL.
type URL struct {
	Scheme   string            `json:"scheme"`
	Host     string            `json:"host,omitempty"`
	Port     int               `json:"port,omitempty"`
	Path     string            `json:"path"`
	Query    string            `json:"query,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Fragment string            `json:"fragment,omitempty"`
}

// Join resolves update against base the way url.rs's url_join does
// (protocol-relative and absolute-path updates both work via
// ResolveReference).
func Join(base, update string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	updateURL, err := url.Parse(update)
	if err != nil {
		return "", fmt.Errorf("invalid update url: %w", err)
	}
	return baseURL.ResolveReference(updateURL).String(), nil
}

// Parse decomposes rawURL into the same fields url_parse exposes,
// including the last-value-wins params map (url.rs keeps only the final
// occurrence of a repeated query key, matching Query().Get semantics).
func Parse(rawURL string) (URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return URL{}, fmt.Errorf("invalid url: %w", err)
	}

	out := URL{Scheme: u.Scheme, Path: u.Path}
	if u.Host != "" {
		out.Host = u.Hostname()
	}
	if p := u.Port(); p != "" {
		fmt.Sscanf(p, "%d", &out.Port)
	}
	if u.RawQuery != "" {
		out.Query = u.RawQuery
		q := u.Query()
		params := make(map[string]string, len(q))
		for k, v := range q {
			if len(v) > 0 {
				params[k] = v[len(v)-1]
			}
		}
		out.Params = params
	}
	if u.Fragment != "" {
		out.Fragment = u.Fragment
	}
	return out, nil
}
