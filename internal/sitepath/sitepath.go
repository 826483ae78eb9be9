// Package sitepath derives canonical URL paths for site content.
//
// Every path that is stored, compared or used as an index key goes through
// Normalize, so "/foo", "/foo/" and "//foo" always resolve to the same key.
package sitepath

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrNotAbsolute is returned when a URL has no scheme or host.
var ErrNotAbsolute = errors.New("url is not absolute")

var (
	multiSlash = regexp.MustCompile(`/{2,}`)
	fileExt    = regexp.MustCompile(`(?i)\.[a-z0-9]{2,5}$`)
	escape     = regexp.MustCompile(`%[0-9a-fA-F]{2}`)
)

// uriReserved are the characters DecodeURI leaves percent-encoded.
const uriReserved = ";/?:@&=+$,#"

// Normalize returns the canonical form of a URL path: a single leading
// slash, no repeated slashes, and exactly one trailing slash unless the last
// segment looks like a file name.
func Normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = multiSlash.ReplaceAllString(p, "/")
	if p == "/" || fileExt.MatchString(p) {
		return p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Key is the comparison key of a path: normalized, percent-decoded where
// DecodeURI allows, with the escapes it keeps in upper case. Two paths
// address the same content exactly when their keys are equal.
func Key(p string) string {
	k := Normalize(DecodeURI(Normalize(p)))
	if !strings.Contains(k, "%") {
		return k
	}
	return escape.ReplaceAllStringFunc(k, strings.ToUpper)
}

// FromLink resolves the canonical path of a record from its permalink,
// falling back to the slug when the permalink is empty or malformed. Plain
// permalinks ("/?page_id=12") carry no path, so they use the slug too.
func FromLink(link, slug string) string {
	if u, ok := parseAbsolute(link); ok {
		p := Normalize(u.EscapedPath())
		if p != "/" || u.RawQuery == "" || slug == "" {
			return p
		}
	}
	if slug == "home" {
		return "/"
	}
	return Normalize("/" + slug + "/")
}

// FromSegments joins catch-all route segments into a canonical path.
func FromSegments(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return Normalize("/" + strings.Join(segments, "/") + "/")
}

// WithLocale prefixes a path with a locale segment: "/ja/", "/ko/access/".
func WithLocale(locale, p string) string {
	n := Normalize(p)
	if n == "/" {
		return "/" + locale + "/"
	}
	return "/" + locale + n
}

// TrimSlashes strips leading and trailing slashes.
func TrimSlashes(p string) string {
	return strings.Trim(p, "/")
}

// DecodeURI percent-decodes a full URI or path, leaving reserved characters
// encoded. Malformed input is returned unchanged.
func DecodeURI(s string) string {
	return decode(s, uriReserved)
}

// DecodeURIComponent percent-decodes a single component such as a slug.
// Malformed input is returned unchanged.
func DecodeURIComponent(s string) string {
	return decode(s, "")
}

func decode(s, keep string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return s
		}
		v, err := hex.DecodeString(s[i+1 : i+3])
		if err != nil {
			return s
		}
		if v[0] < utf8.RuneSelf && strings.IndexByte(keep, v[0]) >= 0 {
			b.WriteString(s[i : i+3])
		} else {
			b.WriteByte(v[0])
		}
		i += 2
	}
	out := b.String()
	if !utf8.ValidString(out) {
		return s
	}
	return out
}

// Origin returns "scheme://host[:port]" for an absolute URL, lowercased and
// without the scheme's default port.
func Origin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAbsolute, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNotAbsolute, raw)
	}
	return OriginOf(u), nil
}

// OriginOf is Origin for an already parsed URL.
func OriginOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host
}

func parseAbsolute(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}
