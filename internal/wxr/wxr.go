// Package wxr reads WordPress eXtended RSS (WXR) exports into typed records.
package wxr

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrChannelNotFound means the document has no rss > channel element.
var ErrChannelNotFound = errors.New("wxr: channel not found")

// Post types, statuses and taxonomy domains used by the pipeline.
const (
	TypePost        = "post"
	TypePage        = "page"
	TypeAttachment  = "attachment"
	TypeNavMenuItem = "nav_menu_item"

	StatusPublish = "publish"
	StatusInherit = "inherit"

	DomainCategory = "category"
	DomainTag      = "post_tag"
	DomainNavMenu  = "nav_menu"
)

// Known post-meta keys. Unknown keys are kept as-is in Meta.
const (
	MetaThumbnailID      = "_thumbnail_id"
	MetaAttachmentAlt    = "_wp_attachment_image_alt"
	MetaMenuItemType     = "_menu_item_type"
	MetaMenuItemObject   = "_menu_item_object"
	MetaMenuItemObjectID = "_menu_item_object_id"
	MetaMenuItemURL      = "_menu_item_url"
	MetaMenuItemParent   = "_menu_item_menu_item_parent"
)

// Site is the channel-level metadata of the export.
type Site struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Taxonomy is one category/tag/menu assignment. Label is the display text,
// not the nicename.
type Taxonomy struct {
	Domain   string
	Nicename string
	Label    string
}

// Meta maps post-meta keys to values.
type Meta map[string]string

// ThumbnailID is the attachment id of the featured image, if any.
func (m Meta) ThumbnailID() string { return m[MetaThumbnailID] }

// AttachmentAlt is the alt text stored on an attachment.
func (m Meta) AttachmentAlt() string { return m[MetaAttachmentAlt] }

// Item is one exported <item>.
type Item struct {
	ID            string
	Title         string
	Link          string
	PostType      string
	Status        string
	Slug          string
	PostDate      string
	ModifiedDate  string
	ParentID      string
	MenuOrder     int
	Content       string
	Excerpt       string
	GUID          string
	Author        string
	AttachmentURL string
	Taxonomy      []Taxonomy
	Meta          Meta
}

// Labels returns the taxonomy labels of one domain in document order.
func (it Item) Labels(domain string) []string {
	out := []string{}
	for _, tax := range it.Taxonomy {
		if tax.Domain == domain {
			out = append(out, tax.Label)
		}
	}
	return out
}

// Is reports whether the item has the given post type and status.
func (it Item) Is(postType, status string) bool {
	return it.PostType == postType && it.Status == status
}

// Export is a decoded WXR file.
type Export struct {
	Site  Site
	Items []Item
}

// Filter returns the items of one post type and status, in document order.
func (e *Export) Filter(postType, status string) []Item {
	var out []Item
	for _, it := range e.Items {
		if it.Is(postType, status) {
			out = append(out, it)
		}
	}
	return out
}

// Parse decodes a WXR document.
func Parse(data []byte) (*Export, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode wxr: %w", err)
	}
	if doc.XMLName.Local != "rss" || doc.Channel == nil {
		return nil, ErrChannelNotFound
	}

	ch := doc.Channel
	export := &Export{
		Site: Site{
			Title:       ch.Title.String(),
			Link:        ch.Link.String(),
			Description: ch.Description.String(),
			Language:    ch.Language.String(),
		},
		Items: make([]Item, 0, len(ch.Items)),
	}
	for _, raw := range ch.Items {
		export.Items = append(export.Items, raw.item())
	}
	return export, nil
}

func (r rawItem) item() Item {
	it := Item{
		ID:            r.PostID.String(),
		Title:         r.Title.String(),
		Link:          r.Link.String(),
		PostType:      r.PostType.String(),
		Status:        r.Status.String(),
		Slug:          r.PostName.String(),
		PostDate:      r.PostDate.String(),
		ModifiedDate:  r.PostModified.String(),
		ParentID:      r.PostParent.String(),
		MenuOrder:     parseMenuOrder(r.MenuOrder.String()),
		GUID:          r.GUID.String(),
		Author:        r.Creator.String(),
		AttachmentURL: r.AttachmentURL.String(),
		Taxonomy:      make([]Taxonomy, 0, len(r.Categories)),
		Meta:          make(Meta, len(r.PostMeta)),
	}

	for _, enc := range r.Encodeds {
		if enc.isExcerpt() {
			it.Excerpt = enc.Data
		} else {
			it.Content = enc.Data
		}
	}

	for _, c := range r.Categories {
		it.Taxonomy = append(it.Taxonomy, Taxonomy{
			Domain:   c.Domain,
			Nicename: c.Nicename,
			Label:    c.Label,
		})
	}

	// Last occurrence of a duplicated key wins.
	for _, pm := range r.PostMeta {
		key := pm.Key.String()
		if key == "" {
			continue
		}
		it.Meta[key] = pm.Value.String()
	}
	return it
}

func parseMenuOrder(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
