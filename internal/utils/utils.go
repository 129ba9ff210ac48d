package utils

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Errors
var (
	ErrEmptyURL          = &url.Error{Op: "normalize", URL: "", Err: &errStr{"empty url"}}
	ErrMissingScheme     = &url.Error{Op: "normalize", URL: "", Err: &errStr{"missing scheme, expected http or https"}}
	ErrUnsupportedScheme = &url.Error{Op: "normalize", URL: "", Err: &errStr{"unsupported scheme, expected http or https"}}
	ErrMissingHost       = &url.Error{Op: "normalize", URL: "", Err: &errStr{"missing host"}}
)

type errStr struct{ s string }

func (e *errStr) Error() string { return e.s }

// NormalizeTargetURL validates that raw is an absolute http or https URL and
// returns it in a fetchable form: scheme and host lowercased, IDN hosts
// converted to punycode, default ports and the fragment dropped. Path and
// query are passed through untouched; a scrape target is an opaque address,
// not a canonical identity.
func NormalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	u.Scheme = strings.ToLower(u.Scheme)
	switch u.Scheme {
	case "http", "https":
	case "":
		return "", ErrMissingScheme
	default:
		return "", ErrUnsupportedScheme
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", ErrMissingHost
	}

	// IDN -> punycode
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	// Preserve non-default port only
	port := u.Port()
	switch {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		if strings.Contains(host, ":") {
			// bare IPv6 literal needs its brackets back
			host = "[" + host + "]"
		}
		u.Host = host
	default:
		u.Host = net.JoinHostPort(host, port)
	}

	// Fragments are client-side only and never sent on the wire
	u.Fragment = ""

	return u.String(), nil
}
