// Package sanitize cleans WordPress post bodies into the minimal markup the
// site renders verbatim.
//
// Clean is a fixed chain: shortcode stripping on the raw text, DOM passes
// with goquery (removal, link and image rewriting, empty container pruning,
// attribute allow-list), then a bluemonday tag and scheme allow-list on the
// serialized result. The two allow-lists are independent; neither is
// skipped when the other would have caught the same input.
package sanitize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/yjclinic/wxrsite/internal/sitepath"
)

const (
	removedSelector   = "script,style,noscript,iframe,object,embed,form"
	containerSelector = "p,li,h1,h2,h3,h4,h5,h6,div,span"
	mediaSelector     = "img,video,br"
)

var imgTag = regexp.MustCompile(`(?i)<img\b`)

// Result is the sanitized form of one body.
type Result struct {
	HTML       string
	Text       string
	ImageCount int
}

// Cleaner sanitizes bodies for one site. It holds only read-only state after
// New and is safe for concurrent use.
type Cleaner struct {
	origin   string
	base     *url.URL
	altByURL map[string]string
	policy   *bluemonday.Policy
}

// New returns a Cleaner for the site at origin ("https://example.com").
// altByURL maps MediaKey values to attachment alt text; it is not copied and
// must not be modified afterwards.
func New(origin string, altByURL map[string]string) (*Cleaner, error) {
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", sitepath.ErrNotAbsolute, origin)
	}
	if altByURL == nil {
		altByURL = map[string]string{}
	}
	return &Cleaner{
		origin:   sitepath.OriginOf(base),
		base:     base,
		altByURL: altByURL,
		policy:   newPolicy(),
	}, nil
}

// Origin is the canonical origin the Cleaner rewrites against.
func (c *Cleaner) Origin() string { return c.origin }

// Clean sanitizes raw post HTML. fallbackAlt fills empty image alt text when
// no attachment matches, usually the record title.
func (c *Cleaner) Clean(raw, fallbackAlt string) (Result, error) {
	stripped := StripShortcodes(raw)
	if stripped == "" {
		return Result{}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(stripped))
	if err != nil {
		return Result{}, fmt.Errorf("parse body: %w", err)
	}

	doc.Find(removedSelector).Remove()
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		c.rewriteAnchor(a)
	})
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		c.rewriteImage(img, fallbackAlt)
	})
	pruneEmpty(doc)
	filterAttrs(doc)

	body, err := doc.Find("body").Html()
	if err != nil {
		return Result{}, fmt.Errorf("render body: %w", err)
	}
	out := strings.TrimSpace(c.policy.Sanitize(body))

	text, err := plainText(out)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HTML:       out,
		Text:       text,
		ImageCount: len(imgTag.FindAllStringIndex(out, -1)),
	}, nil
}

func (c *Cleaner) rewriteAnchor(a *goquery.Selection) {
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if href != "" {
		a.SetAttr("href", c.resolveLink(href))
	}
	if a.AttrOr("target", "") == "_blank" {
		a.SetAttr("rel", "noopener noreferrer")
	}
}

// resolveLink maps same-origin links to their canonical path and keeps the
// query and fragment. Fragments, mailto: and tel: pass through; other
// origins become absolute URLs; unparseable values are kept verbatim.
func (c *Cleaner) resolveLink(href string) string {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	u := c.base.ResolveReference(ref)
	if sitepath.OriginOf(u) != c.origin {
		return u.String()
	}
	out := sitepath.Normalize(u.EscapedPath())
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}

func (c *Cleaner) rewriteImage(img *goquery.Selection, fallbackAlt string) {
	src := strings.TrimSpace(img.AttrOr("src", ""))
	if src == "" {
		img.Remove()
		return
	}

	resolved := c.resolveImage(src)
	img.SetAttr("src", resolved)
	img.SetAttr("loading", "lazy")
	img.SetAttr("decoding", "async")
	img.RemoveAttr("srcset")
	img.RemoveAttr("sizes")

	if strings.TrimSpace(img.AttrOr("alt", "")) != "" {
		return
	}
	alt := c.altByURL[MediaKey(resolved)]
	if alt == "" {
		alt = fallbackAlt
	}
	if alt == "" {
		alt = GuessAlt(src)
	}
	img.SetAttr("alt", alt)
}

func (c *Cleaner) resolveImage(src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	u := c.base.ResolveReference(ref)
	if sitepath.OriginOf(u) != c.origin {
		return u.String()
	}
	out := c.origin + u.EscapedPath()
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

// pruneEmpty drops text containers with no media and no visible text.
func pruneEmpty(doc *goquery.Document) {
	doc.Find(containerSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(mediaSelector).Length() > 0 {
			return
		}
		// TrimSpace treats NBSP as whitespace.
		if strings.TrimSpace(s.Text()) == "" {
			s.Remove()
		}
	})
}

// filterAttrs strips every attribute outside attrAllowList, including
// namespaced attributes on foreign content.
func filterAttrs(doc *goquery.Document) {
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			if n.Type != html.ElementNode || len(n.Attr) == 0 {
				continue
			}
			allowed := attrAllowList[n.Data]
			kept := n.Attr[:0]
			for _, attr := range n.Attr {
				if attr.Namespace == "" && allowed[attr.Key] {
					kept = append(kept, attr)
				}
			}
			n.Attr = kept
		}
	})
}

func plainText(fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + fragment + "</div>"))
	if err != nil {
		return "", fmt.Errorf("parse sanitized body: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
