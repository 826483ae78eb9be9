// Package menu builds the flat site navigation and the placeholder records
// that keep every navigation entry routable.
package menu

import (
	"github.com/yjclinic/wxrsite/internal/enrich"
	"github.com/yjclinic/wxrsite/internal/pathstore"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

// Menu sources recorded in site.Menu.InferredFrom.
const (
	FromPages = "published pages (flat); home first, others by title."
	homeTitle = "HOME"
)

// Infer builds the menu from published pages: the page at "/" first, then
// the remaining pages ordered by title. pages is not modified.
func Infer(pages []site.Record, sorter *Sorter) []site.MenuItem {
	items := []site.MenuItem{}
	var rest []site.Record
	homeSeen := false
	for _, p := range pages {
		if p.Path != "/" {
			rest = append(rest, p)
			continue
		}
		if homeSeen {
			continue
		}
		homeSeen = true
		title := p.Title
		if title == "" {
			title = homeTitle
		}
		items = append(items, site.MenuItem{Title: title, Path: p.Path, Slug: p.Slug, SourceID: p.ID})
	}

	sorter.ByTitle(rest)
	for _, p := range rest {
		items = append(items, site.MenuItem{Title: p.Title, Path: p.Path, Slug: p.Slug, SourceID: p.ID})
	}
	return items
}

// SynthesizePlaceholders returns a placeholder page for every menu entry
// whose path has no record in store. Each placeholder is added to store, so
// repeated menu paths yield a single placeholder.
func SynthesizePlaceholders(items []site.MenuItem, store *pathstore.Store) []site.Record {
	var out []site.Record
	for _, item := range items {
		if store.Has(item.Path) {
			continue
		}
		rec := Placeholder(item)
		store.Put(rec)
		out = append(out, rec)
	}
	return out
}

// Resolve rewrites every entry to the exact path of the record store holds
// for it, so menu paths compare equal to record paths byte for byte. Entries
// backed by real content take that record's id. An entry landing on a path
// already listed is dropped.
func Resolve(items []site.MenuItem, store *pathstore.Store) []site.MenuItem {
	out := make([]site.MenuItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if rec, ok := store.Lookup(item.Path); ok {
			item.Path = rec.Path
			if rec.Template != site.TemplatePlaceholder {
				item.SourceID = rec.ID
			}
		}
		if seen[item.Path] {
			continue
		}
		seen[item.Path] = true
		out = append(out, item)
	}
	return out
}

// Placeholder is the empty page record standing in for a menu entry.
func Placeholder(item site.MenuItem) site.Record {
	p := sitepath.Normalize(item.Path)
	id := sitepath.TrimSlashes(p)
	if id == "" {
		id = "home"
	}
	return site.Record{
		ID:            "placeholder-" + id,
		Type:          site.TypePage,
		Title:         item.Title,
		Path:          p,
		PathDecoded:   sitepath.DecodeURI(p),
		Slug:          item.Slug,
		SlugDecoded:   sitepath.DecodeURIComponent(item.Slug),
		OriginalLink:  p,
		Excerpt:       enrich.PlaceholderExcerpt,
		Categories:    []string{},
		Tags:          []string{},
		FeaturedImage: nil,
		HasContent:    false,
		Template:      site.TemplatePlaceholder,
	}
}
