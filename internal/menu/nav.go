package menu

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/yjclinic/wxrsite/internal/enrich"
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
	"github.com/yjclinic/wxrsite/internal/wxr"
)

// Values of the _menu_item_type meta.
const (
	navPostType = "post_type"
	navCustom   = "custom"
)

// NavOptions selects and resolves a WordPress navigation menu.
type NavOptions struct {
	// Name is the menu label or nicename; empty selects the first menu
	// found in the export.
	Name      string
	Origin    string
	SiteTitle string
}

// FromNavItems builds the menu from nav_menu_item entries of one menu.
// Only top-level entries are used, ordered by menu_order. Entries pointing
// at posts or pages resolve through the referenced item whatever its
// status; custom links resolve only when they stay on Origin. ok is false
// when the export has no matching menu or none of its entries resolve.
func FromNavItems(items []wxr.Item, opts NavOptions) (out []site.MenuItem, source string, ok bool) {
	byID := make(map[string]wxr.Item, len(items))
	var nav []wxr.Item
	for _, it := range items {
		byID[it.ID] = it
		if it.PostType == wxr.TypeNavMenuItem && it.Status == wxr.StatusPublish {
			nav = append(nav, it)
		}
	}

	name := selectMenu(nav, opts.Name)
	if name == "" {
		return nil, "", false
	}

	var entries []wxr.Item
	for _, it := range nav {
		if inMenu(it, name) && isTopLevel(it) {
			entries = append(entries, it)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MenuOrder < entries[j].MenuOrder
	})

	seen := make(map[string]bool)
	out = []site.MenuItem{}
	for _, it := range entries {
		mi, resolved := resolveNav(it, byID, opts)
		if !resolved || seen[mi.Path] {
			continue
		}
		seen[mi.Path] = true
		out = append(out, mi)
	}
	if len(out) == 0 {
		return nil, "", false
	}
	return out, fmt.Sprintf("nav_menu_item (menu %q, top level only, by menu_order)", name), true
}

// selectMenu returns the label of the requested menu, or of the first menu
// any entry belongs to when want is empty.
func selectMenu(nav []wxr.Item, want string) string {
	for _, it := range nav {
		for _, tax := range it.Taxonomy {
			if tax.Domain != wxr.DomainNavMenu {
				continue
			}
			if want == "" || tax.Label == want || tax.Nicename == want {
				return tax.Label
			}
		}
	}
	return ""
}

func inMenu(it wxr.Item, label string) bool {
	for _, tax := range it.Taxonomy {
		if tax.Domain == wxr.DomainNavMenu && tax.Label == label {
			return true
		}
	}
	return false
}

func isTopLevel(it wxr.Item) bool {
	parent := strings.TrimSpace(it.Meta[wxr.MetaMenuItemParent])
	return parent == "" || parent == "0"
}

func resolveNav(it wxr.Item, byID map[string]wxr.Item, opts NavOptions) (site.MenuItem, bool) {
	label := strings.TrimSpace(it.Title)
	switch it.Meta[wxr.MetaMenuItemType] {
	case navPostType:
		ref, ok := byID[it.Meta[wxr.MetaMenuItemObjectID]]
		if !ok || (ref.PostType != wxr.TypePage && ref.PostType != wxr.TypePost) {
			return site.MenuItem{}, false
		}
		p := sitepath.FromLink(ref.Link, ref.Slug)
		if label == "" {
			label = enrich.FormatTitle(ref.Title, p, ref.Slug, opts.SiteTitle)
		}
		return site.MenuItem{Title: label, Path: p, Slug: ref.Slug, SourceID: ref.ID}, true

	case navCustom:
		p, ok := localPath(it.Meta[wxr.MetaMenuItemURL], opts.Origin)
		if !ok {
			return site.MenuItem{}, false
		}
		slug := path.Base(strings.TrimSuffix(p, "/"))
		if slug == "/" || slug == "." {
			slug = ""
		}
		if label == "" {
			label = enrich.FormatTitle("", p, slug, opts.SiteTitle)
		}
		return site.MenuItem{Title: label, Path: p, Slug: slug, SourceID: it.ID}, true
	}
	return site.MenuItem{}, false
}

// localPath returns the canonical path of a link on origin. Relative links
// count as local; links elsewhere, fragments and non-http schemes do not.
func localPath(raw, origin string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", false
	}
	base, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if sitepath.OriginOf(u) != sitepath.OriginOf(base) {
		return "", false
	}
	return sitepath.Normalize(u.EscapedPath()), true
}
