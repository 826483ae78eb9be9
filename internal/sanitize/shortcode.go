package sanitize

import (
	"regexp"
	"strings"
)

var (
	blockComment = regexp.MustCompile(`(?i)<!--\s*/?wp:[\s\S]*?-->`)
	shortcode    = regexp.MustCompile(
		`(?i)\[(/)?(caption|gallery|embed|audio|video|playlist|contact-form-7|et_pb_[^\]\s]*|vc_[^\]\s]*)[^\]]*]`,
	)
)

// StripShortcodes removes block-editor comments and known shortcode tokens.
// It must run before the markup is parsed: shortcodes are not valid HTML and
// the parser would otherwise keep them as text.
func StripShortcodes(s string) string {
	s = blockComment.ReplaceAllString(s, "")
	s = shortcode.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
