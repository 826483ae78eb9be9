package menu

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yjclinic/wxrsite/internal/site"
)

// Sorter orders records and menu entries with Japanese collation.
// A Sorter is not safe for concurrent use.
type Sorter struct {
	col *collate.Collator
}

// NewSorter returns a Sorter for the Japanese locale.
func NewSorter() *Sorter {
	return &Sorter{col: collate.New(language.Japanese)}
}

// Less compares two strings under the collation.
func (s *Sorter) Less(a, b string) bool {
	return s.col.CompareString(a, b) < 0
}

// ByPath sorts records by path, keeping input order for equal keys.
func (s *Sorter) ByPath(recs []site.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return s.Less(recs[i].Path, recs[j].Path)
	})
}

// ByTitle sorts records by title, keeping input order for equal keys.
func (s *Sorter) ByTitle(recs []site.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return s.Less(recs[i].Title, recs[j].Title)
	})
}
