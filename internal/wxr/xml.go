package wxr

import (
	"encoding/xml"
	"strings"
)

// document is the top-level element of a WordPress export.
type document struct {
	XMLName xml.Name
	Channel *channel `xml:"channel"`
}

// channel holds the site metadata and every exported item.
// Element names are matched by local name so WXR 1.0, 1.1 and 1.2
// namespaces all decode the same way.
type channel struct {
	Title       Text      `xml:"title"`
	Link        Text      `xml:"link"`
	Description Text      `xml:"description"`
	Language    Text      `xml:"language"`
	Items       []rawItem `xml:"item"`
}

// rawItem is a post, page, attachment or nav_menu_item as exported.
type rawItem struct {
	Title         Text       `xml:"title"`
	Link          Text       `xml:"link"`
	GUID          Text       `xml:"guid"`
	Creator       Text       `xml:"creator"`        // space: dc
	Encodeds      []encoded  `xml:"encoded"`        // space: content / excerpt
	PostID        Text       `xml:"post_id"`        // space: wp
	PostDate      Text       `xml:"post_date"`      // space: wp
	PostModified  Text       `xml:"post_modified"`  // space: wp
	PostName      Text       `xml:"post_name"`      // space: wp
	Status        Text       `xml:"status"`         // space: wp - publish, inherit, draft, trash ...
	PostParent    Text       `xml:"post_parent"`    // space: wp
	MenuOrder     Text       `xml:"menu_order"`     // space: wp
	PostType      Text       `xml:"post_type"`      // space: wp
	AttachmentURL Text       `xml:"attachment_url"` // space: wp - attachments only
	Categories    []category `xml:"category"`
	PostMeta      []postMeta `xml:"postmeta"` // space: wp
}

// postMeta is one wp:postmeta key/value pair.
type postMeta struct {
	Key   Text `xml:"meta_key"`
	Value Text `xml:"meta_value"`
}

// Text is the string content of an element. Plain text, CDATA sections
// and text split around child elements all collapse into one string; child
// element content is ignored.
type Text string

func (t *Text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			b.Write(v)
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			*t = Text(b.String())
			return nil
		}
	}
}

func (t Text) String() string { return string(t) }

// encoded is a content:encoded or excerpt:encoded payload. Both share the
// local name "encoded", so the namespace is kept to tell them apart.
type encoded struct {
	Space string
	Data  string
}

func (e *encoded) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var t Text
	if err := t.UnmarshalXML(d, start); err != nil {
		return err
	}
	e.Space = start.Name.Space
	e.Data = string(t)
	return nil
}

func (e encoded) isExcerpt() bool {
	return strings.Contains(e.Space, "excerpt")
}

// category is a category, tag or nav_menu assignment on an item.
type category struct {
	Domain   string
	Nicename string
	Label    string
}

func (c *category) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "domain":
			c.Domain = attr.Value
		case "nicename":
			c.Nicename = attr.Value
		}
	}
	var t Text
	if err := t.UnmarshalXML(d, start); err != nil {
		return err
	}
	c.Label = string(t)
	return nil
}
