// Package site defines the generated content bundle consumed by the
// rendering layer.
package site

import "github.com/yjclinic/wxrsite/internal/wxr"

// Template is the rendering bucket of a content record.
type Template string

const (
	TemplateHome        Template = "home"
	TemplateProcedure   Template = "procedure"
	TemplatePage        Template = "page"
	TemplatePost        Template = "post"
	TemplatePlaceholder Template = "placeholder"
)

// Templates lists every valid Template.
var Templates = []Template{
	TemplateHome, TemplateProcedure, TemplatePage, TemplatePost, TemplatePlaceholder,
}

// Valid reports whether t is one of Templates.
func (t Template) Valid() bool {
	for _, v := range Templates {
		if t == v {
			return true
		}
	}
	return false
}

// Record types.
const (
	TypePage = "page"
	TypePost = "post"
)

// StructureFlat is the only menu structure produced.
const StructureFlat = "flat"

// Content is the root document of a bundle.
type Content struct {
	GeneratedAt string             `json:"generatedAt"`
	SourceXML   string             `json:"sourceXml"`
	Site        wxr.Site           `json:"site"`
	Stats       Stats              `json:"stats"`
	Menu        Menu               `json:"menu"`
	Pages       []Record           `json:"pages"`
	Posts       []Record           `json:"posts"`
	Attachments []AttachmentRecord `json:"attachments"`
}

// Stats counts the source items and the emitted records.
type Stats struct {
	ItemsTotal   int `json:"itemsTotal"`
	PagesPublish int `json:"pagesPublish"`
	PostsPublish int `json:"postsPublish"`
	Attachments  int `json:"attachments"`
}

// Menu is the flat top-level navigation.
type Menu struct {
	InferredFrom string     `json:"inferredFrom"`
	Structure    string     `json:"structure"`
	Items        []MenuItem `json:"items"`
}

// MenuItem is one navigation entry. SourceID is the id of the record it was
// built from.
type MenuItem struct {
	Title    string `json:"title"`
	Path     string `json:"path"`
	Slug     string `json:"slug"`
	SourceID string `json:"sourceId"`
}

// Record is one renderable page or post.
type Record struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Path          string   `json:"path"`
	PathDecoded   string   `json:"pathDecoded"`
	Slug          string   `json:"slug"`
	SlugDecoded   string   `json:"slugDecoded"`
	OriginalLink  string   `json:"originalLink"`
	PublishedAt   string   `json:"publishedAt"`
	ModifiedAt    string   `json:"modifiedAt"`
	Excerpt       string   `json:"excerpt"`
	Categories    []string `json:"categories"`
	Tags          []string `json:"tags"`
	HTML          string   `json:"html"`
	ImageCount    int      `json:"imageCount"`
	FeaturedImage *string  `json:"featuredImage"`
	HasContent    bool     `json:"hasContent"`
	Template      Template `json:"template"`
}

// AttachmentRecord is an uploaded media file.
type AttachmentRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	Alt         string `json:"alt"`
	Caption     string `json:"caption"`
	Description string `json:"description"`
}

// New returns an empty bundle with every list initialized, so that none of
// them encode as null.
func New() *Content {
	return &Content{
		Menu: Menu{
			Structure: StructureFlat,
			Items:     []MenuItem{},
		},
		Pages:       []Record{},
		Posts:       []Record{},
		Attachments: []AttachmentRecord{},
	}
}

// Records returns pages followed by posts.
func (c *Content) Records() []Record {
	out := make([]Record, 0, len(c.Pages)+len(c.Posts))
	out = append(out, c.Pages...)
	return append(out, c.Posts...)
}
