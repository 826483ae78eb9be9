// Package report renders the human-readable cross-reference reports that
// accompany a generated bundle. Nothing reads them back.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yjclinic/wxrsite/internal/menu"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

var recordHeader = table.Row{"#", "Type", "Title", "Path", "Decoded Slug", "Has Content", "Template"}

// Analysis renders the source summary, menu and record listings.
// sourceHash is the hex SHA-256 of the export file.
func Analysis(c *site.Content, sourceHash string) string {
	var b strings.Builder
	b.WriteString("# XML Analysis\n\n")

	b.WriteString("## Source\n")
	fmt.Fprintf(&b, "- File: `%s`\n", c.SourceXML)
	if sourceHash != "" {
		fmt.Fprintf(&b, "- SHA-256: `%s`\n", sourceHash)
	}
	fmt.Fprintf(&b, "- Site: %s (%s)\n", c.Site.Title, c.Site.Link)
	fmt.Fprintf(&b, "- Generated at: %s\n\n", c.GeneratedAt)

	b.WriteString("## Item Counts\n")
	fmt.Fprintf(&b, "- Total items: %d\n", c.Stats.ItemsTotal)
	fmt.Fprintf(&b, "- Published pages: %d\n", c.Stats.PagesPublish)
	fmt.Fprintf(&b, "- Published posts: %d\n", c.Stats.PostsPublish)
	fmt.Fprintf(&b, "- Attachments: %d\n\n", c.Stats.Attachments)

	b.WriteString("## Menu Estimate\n")
	fmt.Fprintf(&b, "- Inference method: %s\n", c.Menu.InferredFrom)
	fmt.Fprintf(&b, "- Structure: %s (all pages are top-level)\n\n", c.Menu.Structure)
	menuTable := newTable(table.Row{"#", "Menu Title", "Path", "Slug", "Source ID"})
	for i, item := range c.Menu.Items {
		menuTable.AppendRow(table.Row{i + 1, item.Title, item.Path, item.Slug, item.SourceID})
	}
	writeTable(&b, menuTable)

	b.WriteString("\n## Page List + Slug List\n")
	writeTable(&b, recordTable(c.Pages))

	b.WriteString("\n## Post List + Slug List\n")
	writeTable(&b, recordTable(c.Posts))
	return b.String()
}

func recordTable(recs []site.Record) table.Writer {
	t := newTable(recordHeader)
	if len(recs) == 0 {
		t.AppendRow(dashRow(len(recordHeader)))
		return t
	}
	for i, r := range recs {
		t.AppendRow(table.Row{i + 1, r.Type, r.Title, r.Path, r.SlugDecoded, yesNo(r.HasContent), string(r.Template)})
	}
	return t
}

// URLMapping renders one row per record with its URL under every locale.
// Records are ordered by path with the same collation as the bundle.
func URLMapping(c *site.Content, locales []string, sorter *menu.Sorter) string {
	header := table.Row{"#", "Existing Path"}
	for _, loc := range locales {
		header = append(header, strings.ToUpper(loc)+" URL")
	}
	header = append(header, "Slug", "Type", "Template", "Render Component")
	t := newTable(header)

	recs := c.Records()
	sorter.ByPath(recs)
	for i, r := range recs {
		row := table.Row{i + 1, r.Path}
		for _, loc := range locales {
			row = append(row, sitepath.WithLocale(loc, r.Path))
		}
		row = append(row, r.Slug, r.Type, string(r.Template), Component(r.Template))
		t.AppendRow(row)
	}

	var b strings.Builder
	b.WriteString("# URL Mapping\n\n")
	b.WriteString("Routing map that preserves existing slug/path structure.\n\n")
	writeTable(&b, t)
	return b.String()
}

// Component names the page component that renders a template.
func Component(t site.Template) string {
	switch t {
	case site.TemplateHome:
		return "HomeLanding"
	case site.TemplatePlaceholder:
		return "ContentPage (Placeholder)"
	case site.TemplatePost:
		return "ContentPage (Post)"
	}
	return "ContentPage"
}

func newTable(header table.Row) table.Writer {
	style := table.StyleDefault
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	t := table.NewWriter()
	t.SetStyle(style)
	t.AppendHeader(header)
	return t
}

func writeTable(b *strings.Builder, t table.Writer) {
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
}

func dashRow(n int) table.Row {
	row := make(table.Row, n)
	for i := range row {
		row[i] = "-"
	}
	return row
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
