package swagger

import (
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/idna"
)

// requestScheme reports the scheme the client used to reach the server,
// honouring reverse proxy headers.
func requestScheme(r *http.Request) string {
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(proto)
	}
	if r.Header.Get("X-ARR-SSL") != "" || r.TLS != nil {
		return "https"
	}
	return "http"
}

// requestHost reports the host the client addressed. Forwarded hosts take
// precedence over the Host header.
func requestHost(r *http.Request) string {
	if host := firstValue(r.Header.Get("X-Forwarded-Host")); host != "" {
		return host
	}
	if host := r.Header.Get("Disguised-Host"); host != "" {
		return host
	}
	return r.Host
}

// resolveOrigin returns the host and schemes of the document. Settings
// override the request. Default ports for the scheme are stripped.
func resolveOrigin(r *http.Request, s *Settings) (string, []string) {
	schemes := s.Schemes
	host := s.Host

	if r != nil {
		if len(schemes) == 0 {
			schemes = []string{requestScheme(r)}
		}
		if host == "" {
			host = requestHost(r)
		}
	}

	scheme := ""
	if len(schemes) == 1 {
		scheme = schemes[0]
	}

	return normalizeHost(host, scheme), schemes
}

// normalizeHost lower-cases host, converts internationalized names to ASCII
// and drops the port when it is the default one for scheme.
func normalizeHost(host, scheme string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	name, port, err := net.SplitHostPort(host)
	if err != nil {
		name, port = strings.Trim(host, "[]"), ""
	}

	switch {
	case port == "80" && (scheme == "http" || scheme == "ws"):
		port = ""
	case port == "443" && (scheme == "https" || scheme == "wss"):
		port = ""
	}

	if net.ParseIP(name) == nil {
		if ascii, err := idna.Lookup.ToASCII(name); err == nil {
			name = ascii
		} else {
			name = strings.ToLower(name)
		}
	}

	if port != "" {
		return net.JoinHostPort(name, port)
	}
	if strings.Contains(name, ":") {
		return "[" + name + "]"
	}
	return name
}
