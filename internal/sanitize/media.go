package sanitize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yjclinic/wxrsite/internal/sitepath"
)

var (
	sizeSuffix   = regexp.MustCompile(`(?i)-\d+x\d+(\.[a-z0-9]+)$`)
	extSuffix    = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)
	wordBoundary = regexp.MustCompile(`[-_]+`)
)

// MediaKey is the lookup key for an uploaded file. Resized variants such as
// photo-600x400.jpg share the key of photo.jpg; the key is lowercased.
// Input that is not an absolute URL is only lowercased.
func MediaKey(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(raw)
	}
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	p = sizeSuffix.ReplaceAllString(p, "$1")
	return strings.ToLower(sitepath.OriginOf(u) + p)
}

// GuessAlt derives alt text from an image file name:
// "/uploads/front_desk-2.jpg?v=1" becomes "front desk 2".
func GuessAlt(src string) string {
	name, _, _ := strings.Cut(src, "?")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = extSuffix.ReplaceAllString(name, "")
	name = wordBoundary.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
