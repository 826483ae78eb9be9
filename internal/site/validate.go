package site

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/yjclinic/wxrsite/internal/sitepath"
)

// MaxExcerpt is the longest excerpt, in runes, a record may carry.
const MaxExcerpt = 160

// Validation failures. Validate wraps them with the offending path.
var (
	ErrDuplicatePath    = errors.New("duplicate path")
	ErrUnresolvedMenu   = errors.New("menu path has no record")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrExcerptTooLong   = errors.New("excerpt too long")
	ErrWrongRecordType  = errors.New("record in wrong collection")
	ErrUnknownStructure = errors.New("unknown menu structure")
)

// Validate checks the invariants the rendering layer relies on: unique
// paths across pages and posts, a record behind every menu entry, known
// templates and bounded excerpts. Paths are compared by sitepath.Key, the
// same key the content index uses. All violations are reported together.
func Validate(c *Content) error {
	var errs []error

	if c.Menu.Structure != StructureFlat {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStructure, c.Menu.Structure))
	}

	seen := make(map[string]int, len(c.Pages)+len(c.Posts))
	check := func(rec Record, wantType string) {
		p := sitepath.Normalize(rec.Path)
		key := sitepath.Key(p)
		seen[key]++
		if seen[key] == 2 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicatePath, p))
		}
		if rec.Type != wantType {
			errs = append(errs, fmt.Errorf("%w: %s is %q, listed as %q", ErrWrongRecordType, p, rec.Type, wantType))
		}
		if !rec.Template.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s has %q", ErrInvalidTemplate, p, rec.Template))
		}
		if n := utf8.RuneCountInString(rec.Excerpt); n > MaxExcerpt {
			errs = append(errs, fmt.Errorf("%w: %s has %d runes", ErrExcerptTooLong, p, n))
		}
	}
	for _, rec := range c.Pages {
		check(rec, TypePage)
	}
	for _, rec := range c.Posts {
		check(rec, TypePost)
	}

	for _, item := range c.Menu.Items {
		if seen[sitepath.Key(item.Path)] == 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnresolvedMenu, item.Path))
		}
	}
	return errors.Join(errs...)
}
