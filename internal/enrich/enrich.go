// Package enrich classifies content records and derives their display
// fields: template, excerpt, title and featured image.
package enrich

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

const (
	// MaxExcerpt is the rune length above which excerpts are truncated.
	MaxExcerpt = site.MaxExcerpt
	// EmptyExcerpt is used when a record has neither text nor an excerpt.
	EmptyExcerpt = "プレミアムメディカルクリニックのコンテンツを準備中です。"
	// PlaceholderExcerpt is the excerpt of synthesized placeholder records.
	PlaceholderExcerpt = "Content will be added later."

	ellipsis    = "..."
	defaultHome = "Clinic Home"
	untitled    = "Untitled"
)

// infoKeywords mark informational pages (first visit, about, clinic,
// access, contact) as opposed to treatment pages.
var infoKeywords = []string{"初めて", "about", "clinic", "access", "contact"}

var slugSeparators = regexp.MustCompile(`[-_]+`)

// Subject is what ChooseTemplate looks at.
type Subject struct {
	Type        string
	Path        string
	SlugDecoded string
	HasContent  bool
}

// ChooseTemplate assigns the template bucket; the first matching rule wins.
func ChooseTemplate(s Subject) site.Template {
	switch {
	case s.Path == "/":
		return site.TemplateHome
	case s.Type == site.TypePost:
		if !s.HasContent {
			return site.TemplatePlaceholder
		}
		return site.TemplatePost
	case !s.HasContent:
		return site.TemplatePlaceholder
	}
	for _, kw := range infoKeywords {
		if strings.Contains(s.SlugDecoded, kw) {
			return site.TemplatePage
		}
	}
	return site.TemplateProcedure
}

// Describe builds the excerpt. Sanitized text wins over the stored excerpt;
// whitespace is collapsed and anything over MaxExcerpt runes is cut to
// MaxExcerpt-3 runes plus "...".
func Describe(text, rawExcerpt string) string {
	source := text
	if source == "" {
		source = rawExcerpt
	}
	if source == "" {
		return EmptyExcerpt
	}
	normalized := strings.Join(strings.Fields(source), " ")
	if utf8.RuneCountInString(normalized) <= MaxExcerpt {
		return normalized
	}
	runes := []rune(normalized)
	return string(runes[:MaxExcerpt-len(ellipsis)]) + ellipsis
}

// FormatTitle returns the display title, deriving one from the site title,
// slug or path when the record has none.
func FormatTitle(raw, path, slug, siteTitle string) string {
	if title := strings.TrimSpace(raw); title != "" {
		return title
	}
	if path == "/" {
		if siteTitle != "" {
			return siteTitle
		}
		return defaultHome
	}
	decoded := sitepath.DecodeURIComponent(slug)
	if s := strings.TrimSpace(slugSeparators.ReplaceAllString(decoded, " ")); s != "" {
		return s
	}
	if p := sitepath.TrimSlashes(path); p != "" {
		return p
	}
	return untitled
}
