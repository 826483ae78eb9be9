// Package export writes each content record as a Markdown file with YAML
// front matter, laid out by record path.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"gopkg.in/yaml.v3"

	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

// ErrUnsafePath is returned for record paths that would escape the export
// directory.
var ErrUnsafePath = errors.New("export: unsafe record path")

// FrontMatter is the YAML header of an exported record.
type FrontMatter struct {
	ID            string   `yaml:"id"`
	Type          string   `yaml:"type"`
	Title         string   `yaml:"title"`
	Path          string   `yaml:"path"`
	Slug          string   `yaml:"slug"`
	Template      string   `yaml:"template"`
	Date          string   `yaml:"date,omitempty"`
	Modified      string   `yaml:"modified,omitempty"`
	Original      string   `yaml:"original,omitempty"`
	Excerpt       string   `yaml:"excerpt"`
	Categories    []string `yaml:"categories,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	FeaturedImage string   `yaml:"featuredImage,omitempty"`
}

// File is one rendered export file. Name is slash-separated and relative
// to the export directory.
type File struct {
	Name string
	Data []byte
}

// Render converts every page and post of c. Nothing is written; the caller
// decides where the files go.
func Render(c *site.Content) ([]File, error) {
	recs := c.Records()
	files := make([]File, 0, len(recs))
	seen := make(map[string]string, len(recs))
	for _, rec := range recs {
		name, err := FileName(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		if other, dup := seen[name]; dup {
			return nil, fmt.Errorf("records %s and %s both export to %s", other, rec.ID, name)
		}
		seen[name] = rec.ID

		data, err := Document(rec)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		files = append(files, File{Name: name, Data: data})
	}
	return files, nil
}

// Document renders one record: front matter, a blank line, then the body
// converted to Markdown.
func Document(rec site.Record) ([]byte, error) {
	fm := FrontMatter{
		ID:         rec.ID,
		Type:       rec.Type,
		Title:      rec.Title,
		Path:       rec.Path,
		Slug:       rec.SlugDecoded,
		Template:   string(rec.Template),
		Date:       rec.PublishedAt,
		Modified:   rec.ModifiedAt,
		Original:   rec.OriginalLink,
		Excerpt:    rec.Excerpt,
		Categories: rec.Categories,
		Tags:       rec.Tags,
	}
	if rec.FeaturedImage != nil {
		fm.FeaturedImage = *rec.FeaturedImage
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var body string
	if rec.HTML != "" {
		body, err = htmltomarkdown.ConvertString(rec.HTML)
		if err != nil {
			return nil, fmt.Errorf("convert html: %w", err)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	if body = strings.TrimSpace(body); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// FileName maps a record path to its export file: directory paths get an
// index.md, file-like paths get ".md" appended. The decoded path is used so
// that non-ASCII slugs stay readable on disk.
func FileName(p string) (string, error) {
	p = sitepath.Normalize(p)
	decoded := sitepath.DecodeURI(p)
	trimmed := sitepath.TrimSlashes(decoded)
	if trimmed == "" {
		return "index.md", nil
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, "\\\x00") {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, p)
		}
	}
	if strings.HasSuffix(decoded, "/") {
		return path.Join(trimmed, "index.md"), nil
	}
	return trimmed + ".md", nil
}
