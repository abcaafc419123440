package catalog

import (
	"github.com/matlens/backend/internal/domain"
	"github.com/matlens/backend/internal/gtin"
)

// Snapshot is an immutable view of the supplier catalog with its lookup
// indexes. Once built it is never mutated, so it is safe for any number
// of concurrent readers.
type Snapshot struct {
	entries []domain.CatalogEntry
	byGTIN  map[string]int // permissive index key -> entry position
	byCode  map[string]int // article or replacement code -> entry position
}

// NewSnapshot builds the lookup indexes over entries. Both pack
// identifiers are indexed under their permissive key; both the article
// code and the replacement code are indexed. Collisions are
// last-write-wins, matching feed order.
func NewSnapshot(entries []domain.CatalogEntry) *Snapshot {
	s := &Snapshot{
		entries: entries,
		byGTIN:  make(map[string]int, len(entries)*2),
		byCode:  make(map[string]int, len(entries)*2),
	}
	for i, e := range entries {
		if key := gtin.IndexKey(e.GTINTransportPack); key != "" {
			s.byGTIN[key] = i
		}
		if key := gtin.IndexKey(e.GTINConsumerPack); key != "" {
			s.byGTIN[key] = i
		}
		if e.ArticleCode != "" {
			s.byCode[e.ArticleCode] = i
		}
		if e.ReplacementCode != "" {
			s.byCode[e.ReplacementCode] = i
		}
	}
	return s
}

// ByGTIN looks up an entry by the permissive index key of an identifier.
func (s *Snapshot) ByGTIN(raw string) (domain.CatalogEntry, bool) {
	key := gtin.IndexKey(raw)
	if key == "" {
		return domain.CatalogEntry{}, false
	}
	i, ok := s.byGTIN[key]
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return s.entries[i], true
}

// ByCode looks up an entry by article code or replacement code.
func (s *Snapshot) ByCode(code string) (domain.CatalogEntry, bool) {
	if code == "" {
		return domain.CatalogEntry{}, false
	}
	i, ok := s.byCode[code]
	if !ok {
		return domain.CatalogEntry{}, false
	}
	return s.entries[i], true
}

// Entries returns the underlying entry slice. Callers must not modify it.
func (s *Snapshot) Entries() []domain.CatalogEntry {
	return s.entries
}

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}
