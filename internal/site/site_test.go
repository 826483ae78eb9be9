package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yjclinic/wxrsite/internal/wxr"
)

func validContent() *Content {
	c := New()
	c.GeneratedAt = "2026-01-01T00:00:00.000Z"
	c.SourceXML = "data/source/export.xml"
	c.Site = wxr.Site{Title: "Clinic", Link: "https://x.test", Language: "ja"}
	c.Pages = []Record{
		{ID: "2", Type: TypePage, Title: "Home", Path: "/", Template: TemplateHome, Excerpt: "home"},
		{ID: "10", Type: TypePage, Title: "Access", Path: "/access/", Template: TemplatePage, Excerpt: "Hello"},
	}
	c.Posts = []Record{
		{ID: "20", Type: TypePost, Title: "News", Path: "/2024/01/news/", Template: TemplatePost},
	}
	c.Menu.Items = []MenuItem{
		{Title: "Home", Path: "/", Slug: "home", SourceID: "2"},
		{Title: "Access", Path: "/access/", Slug: "access", SourceID: "10"},
	}
	return c
}

func TestValidate_ValidPasses(t *testing.T) {
	if err := Validate(validContent()); err != nil {
		t.Fatalf("expected valid content to pass, got %v", err)
	}
}

func TestValidate_DuplicatePathAcrossCollections(t *testing.T) {
	c := validContent()
	c.Posts[0].Path = "/access"
	err := Validate(c)
	if !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("expected ErrDuplicatePath, got %v", err)
	}
}

func TestValidate_MenuWithoutRecord(t *testing.T) {
	c := validContent()
	c.Menu.Items = append(c.Menu.Items, MenuItem{Title: "Gone", Path: "/gone/"})
	err := Validate(c)
	if !errors.Is(err, ErrUnresolvedMenu) {
		t.Fatalf("expected ErrUnresolvedMenu, got %v", err)
	}
	if !strings.Contains(err.Error(), "/gone/") {
		t.Errorf("expected error to name the path, got %q", err)
	}
}

func TestValidate_MenuPathComparedNormalized(t *testing.T) {
	c := validContent()
	c.Menu.Items[1].Path = "/access"
	if err := Validate(c); err != nil {
		t.Fatalf("expected /access to resolve to /access/, got %v", err)
	}
}

func TestValidate_MenuPathEscapeCase(t *testing.T) {
	c := validContent()
	c.Pages = append(c.Pages, Record{ID: "30", Type: TypePage, Title: "初めて", Path: "/%e5%88%9d%e3%82%81%e3%81%a6/", Template: TemplatePage})
	c.Menu.Items = append(c.Menu.Items, MenuItem{Title: "初めて", Path: "/%E5%88%9D%E3%82%81%E3%81%A6/"})
	if err := Validate(c); err != nil {
		t.Fatalf("expected escape case to be ignored, got %v", err)
	}

	c.Posts[0].Path = "/初めて/"
	if err := Validate(c); !errors.Is(err, ErrDuplicatePath) {
		t.Fatalf("expected decoded path to collide, got %v", err)
	}
}

func TestValidate_InvalidTemplate(t *testing.T) {
	c := validContent()
	c.Pages[1].Template = "landing"
	if err := Validate(c); !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestValidate_ExcerptLength(t *testing.T) {
	c := validContent()
	c.Pages[1].Excerpt = strings.Repeat("あ", MaxExcerpt)
	if err := Validate(c); err != nil {
		t.Fatalf("expected %d-rune excerpt to pass, got %v", MaxExcerpt, err)
	}
	c.Pages[1].Excerpt += "あ"
	if err := Validate(c); !errors.Is(err, ErrExcerptTooLong) {
		t.Fatalf("expected ErrExcerptTooLong, got %v", err)
	}
}

func TestValidate_WrongCollection(t *testing.T) {
	c := validContent()
	c.Posts[0].Type = TypePage
	if err := Validate(c); !errors.Is(err, ErrWrongRecordType) {
		t.Fatalf("expected ErrWrongRecordType, got %v", err)
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := validContent()
	c.Menu.Structure = "tree"
	c.Pages[1].Template = ""
	err := Validate(c)
	if !errors.Is(err, ErrUnknownStructure) || !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("expected both problems reported, got %v", err)
	}
}

func TestTemplateValid(t *testing.T) {
	for _, tmpl := range Templates {
		if !tmpl.Valid() {
			t.Errorf("expected %q to be valid", tmpl)
		}
	}
	if Template("HOME").Valid() {
		t.Error("templates are case-sensitive")
	}
}

func TestEncode_EmptyListsAndNullImage(t *testing.T) {
	c := New()
	c.Pages = append(c.Pages, Record{ID: "1", Type: TypePage, Path: "/", Template: TemplateHome})

	var buf bytes.Buffer
	if err := Encode(&buf, c); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"generatedAt", "sourceXml", "site", "stats", "menu", "pages", "posts", "attachments"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in output", key)
		}
	}
	if posts, ok := raw["posts"].([]any); !ok || len(posts) != 0 {
		t.Errorf("expected posts to be [], got %#v", raw["posts"])
	}
	page := raw["pages"].([]any)[0].(map[string]any)
	if v, ok := page["featuredImage"]; !ok || v != nil {
		t.Errorf("expected featuredImage null, got %#v (present=%v)", v, ok)
	}
	if cats, ok := page["categories"].([]any); !ok || len(cats) != 0 {
		t.Errorf("expected categories [], got %#v", page["categories"])
	}
	menu := raw["menu"].(map[string]any)
	if menu["structure"] != "flat" {
		t.Errorf("expected flat structure, got %v", menu["structure"])
	}
}

func TestEncode_KeepsMarkupUnescaped(t *testing.T) {
	c := New()
	c.Pages = append(c.Pages, Record{HTML: `<p>a & b</p>`})
	out, err := Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(out, []byte(`"html": "<p>a & b</p>"`)) {
		t.Errorf("expected raw markup in output, got %s", out)
	}
}

func TestDecode_RoundTripsBundle(t *testing.T) {
	want := validContent()
	img := "https://x.test/img.jpg"
	want.Pages[1].FeaturedImage = &img

	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Pages[1].FeaturedImage == nil || *got.Pages[1].FeaturedImage != img {
		t.Errorf("expected featured image %q, got %v", img, got.Pages[1].FeaturedImage)
	}
	if len(got.Menu.Items) != 2 || got.Menu.Items[0].SourceID != "2" {
		t.Errorf("unexpected menu %+v", got.Menu.Items)
	}
	if err := Validate(got); err != nil {
		t.Errorf("decoded bundle should validate: %v", err)
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"pages":[],"extra":1}`))
	if err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestRecords_PagesThenPosts(t *testing.T) {
	recs := validContent().Records()
	if len(recs) != 3 || recs[2].Type != TypePost {
		t.Fatalf("expected pages then posts, got %+v", recs)
	}
}
