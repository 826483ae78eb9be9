package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var allowedTags = []string{
	"p", "br", "hr",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li",
	"a", "img",
	"strong", "b", "em", "i", "u", "s",
	"blockquote", "figure", "figcaption",
	"table", "thead", "tbody", "tr", "th", "td",
}

// attrAllowList is applied to the DOM before serialization. The bluemonday
// policy below enforces the same attribute set a second time.
var attrAllowList = map[string]map[string]bool{
	"a":          {"href": true, "target": true, "rel": true, "title": true},
	"img":        {"src": true, "alt": true, "title": true, "loading": true, "decoding": true},
	"blockquote": {"cite": true},
}

var (
	// Relative or absolute, never protocol-relative ("//host/...").
	linkValue = regexp.MustCompile(`(?s)^(?:/|/[^/\\].*|[^/\\].*)$`)
	// Images: http(s) or relative; no other scheme.
	imageValue = regexp.MustCompile(`(?is)^(?:/|/[^/\\].*|https?:.*|[^/\\:]+(?:[/?#].*)?)$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)

	p.AllowAttrs("href").Matching(linkValue).OnElements("a")
	p.AllowAttrs("target", "rel", "title").OnElements("a")
	p.AllowAttrs("src").Matching(imageValue).OnElements("img")
	p.AllowAttrs("alt", "title", "loading", "decoding").OnElements("img")
	p.AllowAttrs("cite").Matching(linkValue).OnElements("blockquote")

	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	return p
}
