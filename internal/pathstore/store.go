// Package pathstore indexes content records by canonical URL path.
//
// Records are keyed by sitepath.Key, so "/初めて/",
// "/%E5%88%9D%E3%82%81%E3%81%A6/" and "/%e5%88%9d%e3%82%81%e3%81%a6/"
// resolve to the same record.
package pathstore

import (
	"github.com/yjclinic/wxrsite/internal/site"
	"github.com/yjclinic/wxrsite/internal/sitepath"
)

// Store is an in-memory path index. It is not safe for concurrent writes.
type Store struct {
	records []site.Record
	byKey   map[string]int
}

// New returns a store holding recs, in order.
func New(recs ...site.Record) *Store {
	s := &Store{byKey: make(map[string]int, len(recs)*2)}
	for _, rec := range recs {
		s.Put(rec)
	}
	return s
}

// FromContent indexes every page and post of a bundle.
func FromContent(c *site.Content) *Store {
	return New(c.Records()...)
}

// Put adds rec and reports whether its path was new. A record whose path is
// already taken is not stored.
func (s *Store) Put(rec site.Record) bool {
	keys := keysFor(rec)
	for _, k := range keys {
		if _, ok := s.byKey[k]; ok {
			return false
		}
	}
	s.records = append(s.records, rec)
	for _, k := range keys {
		s.byKey[k] = len(s.records) - 1
	}
	return true
}

// Lookup finds the record for a path in any of its spellings.
func (s *Store) Lookup(p string) (site.Record, bool) {
	i, ok := s.byKey[sitepath.Key(p)]
	if !ok {
		return site.Record{}, false
	}
	return s.records[i], true
}

// Has reports whether a record exists for p.
func (s *Store) Has(p string) bool {
	_, ok := s.Lookup(p)
	return ok
}

// Len is the number of records.
func (s *Store) Len() int { return len(s.records) }

// Routes returns the canonical path of every record in insertion order.
func (s *Store) Routes() []string {
	out := make([]string, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, sitepath.Normalize(rec.Path))
	}
	return out
}

func keysFor(rec site.Record) []string {
	keys := []string{sitepath.Key(rec.Path)}
	if rec.PathDecoded != "" {
		if k := sitepath.Key(rec.PathDecoded); k != keys[0] {
			keys = append(keys, k)
		}
	}
	return keys
}
