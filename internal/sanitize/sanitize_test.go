package sanitize

import (
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCleaner(t *testing.T, alts map[string]string) *Cleaner {
	t.Helper()
	c, err := New("https://x.test", alts)
	require.NoError(t, err)
	return c
}

func clean(t *testing.T, c *Cleaner, raw, fallback string) Result {
	t.Helper()
	res, err := c.Clean(raw, fallback)
	require.NoError(t, err)
	return res
}

var eventAttr = regexp.MustCompile(`(?i)\son[a-z]+\s*=`)

func TestClean_Containment(t *testing.T) {
	c := newTestCleaner(t, nil)
	inputs := []string{
		`<p onclick="steal()">Hi<script>alert(1)</script></p>`,
		`<style>p{color:red}</style><p>styled</p>`,
		`<iframe src="https://evil.test"></iframe><p>after</p>`,
		`<img src="/a.jpg" onerror="steal()" onload="x()">`,
		`<div><object data="x.swf"></object><embed src="x.swf"><form action="/post"><input name="q"></form>ok</div>`,
		`<svg><script>alert(1)</script></svg><math><mi xlink:href="javascript:alert(1)">x</mi></math>`,
		`<a href="javascript:alert(1)" onmouseover="x()">click</a>`,
		`<p><noscript><img src=x onerror=alert(1)></noscript>text</p>`,
		`<SCRIPT>alert(1)</SCRIPT><p ONCLICK="x">upper</p>`,
	}
	for _, in := range inputs {
		res := clean(t, c, in, "")
		lower := strings.ToLower(res.HTML)
		for _, banned := range []string{"<script", "<style", "<iframe", "<object", "<embed", "<form", "javascript:"} {
			assert.NotContains(t, lower, banned, "input %q", in)
		}
		assert.False(t, eventAttr.MatchString(res.HTML), "event handler survived: %q", res.HTML)
	}
}

func TestClean_AltFromAttachmentIgnoresSizeSuffix(t *testing.T) {
	c := newTestCleaner(t, map[string]string{
		MediaKey("https://x.test/x.jpg"): "Example",
	})

	res := clean(t, c, `<img src="https://x.test/x-600x400.jpg">`, "Page title")

	assert.Contains(t, res.HTML, `src="https://x.test/x-600x400.jpg"`)
	assert.Contains(t, res.HTML, `alt="Example"`)
	assert.Contains(t, res.HTML, `loading="lazy"`)
	assert.Contains(t, res.HTML, `decoding="async"`)
	assert.Equal(t, 1, res.ImageCount)
	assert.Empty(t, res.Text)
}

func TestClean_AltFallbackChain(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, `<img src="/up/front_desk-2.jpg">`, "Access")
	assert.Contains(t, res.HTML, `alt="Access"`)

	res = clean(t, c, `<img src="/up/front_desk-2.jpg?v=1">`, "")
	assert.Contains(t, res.HTML, `alt="front desk 2"`)

	res = clean(t, c, `<img src="/up/a.jpg" alt="kept">`, "Access")
	assert.Contains(t, res.HTML, `alt="kept"`)
}

func TestClean_Images(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, `<p>x<img alt="no source"></p>`, "")
	assert.NotContains(t, res.HTML, "<img")
	assert.Equal(t, 0, res.ImageCount)

	res = clean(t, c, `<img src="/wp-content/uploads/a.jpg" srcset="a-300.jpg 300w" sizes="100vw" width="10" class="wp-image">`, "t")
	assert.Contains(t, res.HTML, `src="https://x.test/wp-content/uploads/a.jpg"`)
	for _, attr := range []string{"srcset", "sizes", "width", "class"} {
		assert.NotContains(t, res.HTML, attr+"=")
	}

	res = clean(t, c, `<img src="https://cdn.test/b.png"><img src="a.jpg?ver=2">`, "t")
	assert.Contains(t, res.HTML, `src="https://cdn.test/b.png"`)
	assert.Contains(t, res.HTML, `src="https://x.test/a.jpg?ver=2"`)
	assert.Equal(t, 2, res.ImageCount)
}

func TestClean_Links(t *testing.T) {
	c := newTestCleaner(t, nil)
	tests := []struct {
		href string
		want string
	}{
		{"https://x.test/access", `href="/access/"`},
		{"https://X.TEST:443/a//b", `href="/a/b/"`},
		{"/about?x=1#top", `href="/about/?x=1#top"`},
		{"clinic", `href="/clinic/"`},
		{"https://x.test/files/guide.pdf", `href="/files/guide.pdf"`},
		{"https://other.test/p", `href="https://other.test/p"`},
		{"#top", `href="#top"`},
		{"mailto:info@x.test", `href="mailto:info@x.test"`},
		{"tel:0312345678", `href="tel:0312345678"`},
	}
	for _, tc := range tests {
		t.Run(tc.href, func(t *testing.T) {
			res := clean(t, c, `<p><a href="`+tc.href+`">link</a></p>`, "")
			assert.Contains(t, res.HTML, tc.want)
		})
	}
}

func TestClean_TargetBlankForcesRel(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, `<a href="https://other.test" target="_blank" rel="opener">out</a>`, "")
	assert.Contains(t, res.HTML, `rel="noopener noreferrer"`)
	assert.Contains(t, res.HTML, `target="_blank"`)
	assert.NotContains(t, res.HTML, `rel="opener"`)
}

func TestClean_RemovesEmptyContainers(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, "<p>&nbsp;</p><div><span> </span></div><h2> </h2><ul><li></li></ul><p><br></p><p>Text</p>", "")

	assert.NotContains(t, res.HTML, "&nbsp;")
	assert.NotContains(t, res.HTML, "<h2")
	assert.NotContains(t, res.HTML, "<li")
	assert.Contains(t, res.HTML, "<br")
	assert.Contains(t, res.HTML, "<p>Text</p>")
	assert.Equal(t, "Text", res.Text)
}

func TestClean_AttributeAllowList(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, `<p class="x" style="color:red" id="a">T</p>`+
		`<blockquote cite="https://x.test/q" class="c">Q</blockquote>`+
		`<table border="1"><tbody><tr><td width="3">c</td></tr></tbody></table>`+
		`<a href="/x" title="X" data-id="1" class="btn">x</a>`, "")

	assert.Contains(t, res.HTML, "<p>T</p>")
	assert.Contains(t, res.HTML, `<blockquote cite="https://x.test/q">Q</blockquote>`)
	assert.Contains(t, res.HTML, "<td>c</td>")
	assert.Contains(t, res.HTML, `<a href="/x/" title="X">x</a>`)
}

func TestClean_UnwrapsDisallowedTags(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, `<section><p>In</p></section><div>Loose</div>`, "")

	assert.NotContains(t, res.HTML, "<section")
	assert.NotContains(t, res.HTML, "<div")
	assert.Contains(t, res.HTML, "<p>In</p>")
	assert.Contains(t, res.HTML, "Loose")
}

func TestClean_TextAndEntities(t *testing.T) {
	c := newTestCleaner(t, nil)

	res := clean(t, c, "<p>Hello\n\n   <strong>world</strong> &amp; more</p>", "")
	assert.Equal(t, "Hello world & more", res.Text)
}

func TestClean_EmptyInput(t *testing.T) {
	c := newTestCleaner(t, nil)

	for _, in := range []string{"", "   ", "<!-- wp:paragraph --><!-- /wp:paragraph -->", "[gallery ids=\"1,2\"]"} {
		assert.Equal(t, Result{}, clean(t, c, in, "t"), "input %q", in)
	}
}

func TestClean_ConcurrentUse(t *testing.T) {
	c := newTestCleaner(t, map[string]string{MediaKey("https://x.test/x.jpg"): "Example"})

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Clean(`<p><img src="/x-10x10.jpg"> hi</p>`, "")
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, results[0], r)
		assert.Contains(t, r.HTML, `alt="Example"`)
	}
}

func TestNew_RejectsRelativeOrigin(t *testing.T) {
	_, err := New("/not/absolute", nil)
	require.Error(t, err)
}

func TestPolicy_RejectsProtocolRelative(t *testing.T) {
	p := newPolicy()

	out := p.Sanitize(`<a href="//evil.test/x">x</a><img src="//evil.test/i.png"><blockquote cite="//evil.test">q</blockquote>`)
	assert.NotContains(t, out, "evil.test")

	out = p.Sanitize(`<img src="mailto:a@b.c"><img src="data:image/png;base64,AAAA"><a href="ftp://x.test/f">f</a>`)
	assert.NotContains(t, out, "mailto:")
	assert.NotContains(t, out, "data:")
	assert.NotContains(t, out, "ftp:")

	out = p.Sanitize(`<a href="/ok/">ok</a><img src="https://x.test/a.jpg"><img src="b.jpg">`)
	assert.Contains(t, out, `href="/ok/"`)
	assert.Contains(t, out, `src="https://x.test/a.jpg"`)
	assert.Contains(t, out, `src="b.jpg"`)
}
