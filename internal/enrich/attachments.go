package enrich

import (
	"github.com/yjclinic/wxrsite/internal/sanitize"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
	"github.com/yjclinic/wxrsite/internal/wxr"
)

// Attachments is the read-only media index built once per run.
type Attachments struct {
	records  []site.AttachmentRecord
	byID     map[string]site.AttachmentRecord
	altByURL map[string]string
}

// IndexAttachments builds attachment records from inherit-status attachment
// items, in document order. siteTitle feeds FormatTitle for untitled files.
func IndexAttachments(items []wxr.Item, siteTitle string) *Attachments {
	a := &Attachments{
		records:  []site.AttachmentRecord{},
		byID:     make(map[string]site.AttachmentRecord),
		altByURL: make(map[string]string),
	}
	for _, it := range items {
		if !it.Is(wxr.TypeAttachment, wxr.StatusInherit) {
			continue
		}
		p := sitepath.FromLink(it.Link, it.Slug)
		rec := site.AttachmentRecord{
			ID:          it.ID,
			Title:       FormatTitle(it.Title, p, it.Slug, siteTitle),
			Slug:        it.Slug,
			Path:        p,
			URL:         it.AttachmentURL,
			Alt:         it.Meta.AttachmentAlt(),
			Caption:     it.Excerpt,
			Description: it.Content,
		}
		if rec.URL == "" {
			rec.URL = it.GUID
		}
		a.records = append(a.records, rec)
		a.byID[rec.ID] = rec

		if rec.URL == "" {
			continue
		}
		alt := rec.Alt
		if alt == "" {
			alt = rec.Title
		}
		if alt != "" {
			a.altByURL[sanitize.MediaKey(rec.URL)] = alt
		}
	}
	return a
}

// Records returns the attachment records in document order.
func (a *Attachments) Records() []site.AttachmentRecord { return a.records }

// Len is the number of attachments.
func (a *Attachments) Len() int { return len(a.records) }

// ByID looks up an attachment by post id.
func (a *Attachments) ByID(id string) (site.AttachmentRecord, bool) {
	rec, ok := a.byID[id]
	return rec, ok
}

// AltByURL maps sanitize.MediaKey values to alt text. Callers must not
// modify it.
func (a *Attachments) AltByURL() map[string]string { return a.altByURL }

// FeaturedImage resolves the _thumbnail_id meta of a record to the URL of
// the referenced attachment. It returns nil when the meta is missing or no
// attachment has that id.
func (a *Attachments) FeaturedImage(meta wxr.Meta) *string {
	id := meta.ThumbnailID()
	if id == "" {
		return nil
	}
	rec, ok := a.byID[id]
	if !ok {
		return nil
	}
	url := rec.URL
	return &url
}

// Labels splits taxonomy assignments into category and tag labels.
func Labels(it wxr.Item) (categories, tags []string) {
	return it.Labels(wxr.DomainCategory), it.Labels(wxr.DomainTag)
}
