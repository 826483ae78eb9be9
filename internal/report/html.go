package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageHead = `<!doctype html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem;max-width:80rem}
table{border-collapse:collapse;margin:1rem 0}
th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}
code{background:#f4f4f4;padding:0 .25rem}
</style>
</head>
<body>
`

const pageTail = "</body>\n</html>\n"

// HTML renders a Markdown report as a standalone page for browser review.
// Raw HTML inside the report is omitted.
func HTML(title string, markdown string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, pageHead, html.EscapeString(title))
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	buf.WriteString(pageTail)
	return buf.Bytes(), nil
}
