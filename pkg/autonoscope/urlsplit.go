package autonoscope

import "net/url"

// defaultPorts mirrors the handful of schemes the `url` crate knows a
// default port for; Origin equality there compares the *effective* port,
// so "https://example.com" and "https://example.com:443" share an origin.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

// splitOrigin extracts (scheme, host:effective-port, path) from value,
// matching url.rs's use of the `url` crate's Origin/path_segments API:
// origin equality is scheme+host+port (with scheme defaults filled in),
// and path is compared as a segment list.
func splitOrigin(value string) (scheme, host, path string, err error) {
	u, err := url.Parse(value)
	if err != nil {
		return "", "", "", err
	}

	hostname := u.Hostname()
	port := u.Port()
	if port == "" {
		port = defaultPorts[u.Scheme]
	}

	host = hostname
	if port != "" {
		host = hostname + ":" + port
	}

	return u.Scheme, host, u.Path, nil
}
