package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes the bundle as indented JSON. Markup in html fields is not
// escaped, and every list is written as [] even when empty.
func Encode(w io.Writer, c *Content) error {
	c.fillLists()
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode site content: %w", err)
	}
	return nil
}

// Marshal is Encode into a byte slice.
func Marshal(c *Content) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a bundle written by Encode. Unknown fields are rejected.
func Decode(r io.Reader) (*Content, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var c Content
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode site content: %w", err)
	}
	c.fillLists()
	return &c, nil
}

func (c *Content) fillLists() {
	if c.Menu.Items == nil {
		c.Menu.Items = []MenuItem{}
	}
	if c.Pages == nil {
		c.Pages = []Record{}
	}
	if c.Posts == nil {
		c.Posts = []Record{}
	}
	if c.Attachments == nil {
		c.Attachments = []AttachmentRecord{}
	}
	for _, recs := range [][]Record{c.Pages, c.Posts} {
		for i := range recs {
			if recs[i].Categories == nil {
				recs[i].Categories = []string{}
			}
			if recs[i].Tags == nil {
				recs[i].Tags = []string{}
			}
		}
	}
}
