package sitepath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"foo", "/foo/"},
		{"/foo", "/foo/"},
		{"/foo/", "/foo/"},
		{"//foo//bar", "/foo/bar/"},
		{"/img/a.JPG", "/img/a.JPG"},
		{"/docs/file.pdf", "/docs/file.pdf"},
		{"/a.b/c", "/a.b/c/"},
		{"/file.toolongext", "/file.toolongext/"},
		{"/%E5%88%9D%E3%82%81%E3%81%A6", "/%E5%88%9D%E3%82%81%E3%81%A6/"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", "/", "a", "a/b", "//a//b//", "/x.html", "/x.html/", "x.jpeg",
		"/a/b.c/", "///", "/初めて", "/%E5%88%9D/", "/page?x=1",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_TrailingSlashInvariant(t *testing.T) {
	inputs := []string{"a", "/a//b", "clinic/access", "//x///y", "/初めての方へ"}
	for _, in := range inputs {
		got := Normalize(in)
		assert.True(t, strings.HasSuffix(got, "/"), "%q -> %q", in, got)
		assert.NotContains(t, got, "//", "%q -> %q", in, got)
	}
}

func TestFromLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		slug string
		want string
	}{
		{"absolute permalink", "https://x.test/access/", "access", "/access/"},
		{"missing trailing slash", "https://x.test/access", "access", "/access/"},
		{"site root", "https://x.test", "home", "/"},
		{"nested", "https://x.test/a/b/", "b", "/a/b/"},
		{"encoded path", "https://x.test/%E5%88%9D/", "%e5%88%9d", "/%E5%88%9D/"},
		{"malformed link uses slug", "not a url", "about", "/about/"},
		{"relative link uses slug", "/about/", "about-us", "/about-us/"},
		{"empty link uses slug", "", "contact", "/contact/"},
		{"home slug", "", "home", "/"},
		{"empty everything", "", "", "/"},
		{"plain permalink uses slug", "https://x.test/?page_id=12", "access", "/access/"},
		{"plain permalink home", "https://x.test/?page_id=2", "home", "/"},
		{"plain permalink without slug", "https://x.test/?p=20", "", "/"},
		{"query on a real path", "https://x.test/access/?lang=ja", "other", "/access/"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FromLink(tc.link, tc.slug))
		})
	}
}

func TestKey(t *testing.T) {
	want := "/初めて/"
	for _, p := range []string{
		"/初めて/",
		"/初めて",
		"/%E5%88%9D%E3%82%81%E3%81%A6/",
		"/%e5%88%9d%e3%82%81%e3%81%a6",
		"//%e5%88%9d%E3%82%81%e3%81%a6//",
	} {
		assert.Equal(t, want, Key(p), p)
	}
	assert.Equal(t, Key("/a%2Fb/"), Key("/a%2fb/"))
	assert.NotEqual(t, Key("/a%2Fb/"), Key("/a/b/"))
	assert.Equal(t, "/", Key(""))
}

func TestDecodeURI(t *testing.T) {
	assert.Equal(t, "/初めて/", DecodeURI("/%E5%88%9D%E3%82%81%E3%81%A6/"))
	assert.Equal(t, "/a%2Fb/", DecodeURI("/a%2Fb/"), "reserved characters stay encoded")
	assert.Equal(t, "/plain/", DecodeURI("/plain/"))
	assert.Equal(t, "%E5%88", DecodeURI("%E5%88"), "truncated utf-8 is kept")
	assert.Equal(t, "%zz", DecodeURI("%zz"))
	assert.Equal(t, "100%", DecodeURI("100%"))
}

func TestDecodeURIComponent(t *testing.T) {
	assert.Equal(t, "a/b", DecodeURIComponent("a%2Fb"))
	assert.Equal(t, "初めて", DecodeURIComponent("%e5%88%9d%e3%82%81%e3%81%a6"))
	assert.Equal(t, "a+b", DecodeURIComponent("a+b"))
	assert.Equal(t, "%", DecodeURIComponent("%"))
}

func TestWithLocale(t *testing.T) {
	assert.Equal(t, "/ja/", WithLocale("ja", "/"))
	assert.Equal(t, "/ja/", WithLocale("ja", ""))
	assert.Equal(t, "/ko/access/", WithLocale("ko", "access"))
	assert.Equal(t, "/ko/img/a.png", WithLocale("ko", "/img/a.png"))
}

func TestFromSegments(t *testing.T) {
	assert.Equal(t, "/", FromSegments(nil))
	assert.Equal(t, "/a/b/", FromSegments([]string{"a", "b"}))
}

func TestTrimSlashes(t *testing.T) {
	assert.Equal(t, "a/b", TrimSlashes("/a/b/"))
	assert.Equal(t, "", TrimSlashes("/"))
}

func TestOrigin(t *testing.T) {
	got, err := Origin("https://X.Test:443/some/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test", got)

	got, err = Origin("http://x.test:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://x.test:8080", got)

	_, err = Origin("/relative/only")
	require.ErrorIs(t, err, ErrNotAbsolute)

	_, err = Origin("")
	require.ErrorIs(t, err, ErrNotAbsolute)
}
