package repository

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/joseph-ayodele/minutas/internal/common"
	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// MemoryStore keeps catalogs in process. It is the default store and the one tests use.
type MemoryStore struct {
	mu       sync.RWMutex
	catalogs map[string][]entity.CatalogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{catalogs: make(map[string][]entity.CatalogEntry)}
}

func (s *MemoryStore) Entries(_ context.Context, catalog string) ([]entity.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.catalogs[catalog]), nil
}

// FindByKey prefers a name match, then a code match, then a short-name match.
func (s *MemoryStore) FindByKey(_ context.Context, catalog, key string) (*entity.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.catalogs[catalog]
	fields := []func(e entity.CatalogEntry) string{
		func(e entity.CatalogEntry) string { return e.Name },
		func(e entity.CatalogEntry) string { return e.Code },
		func(e entity.CatalogEntry) string { return e.ShortName },
	}
	for _, field := range fields {
		for _, e := range entries {
			if textutil.Key(field(e)) == key {
				return &e, nil
			}
		}
	}
	return nil, common.ErrNotFound
}

func (s *MemoryStore) FindByCode(_ context.Context, catalog, code string) (*entity.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := textutil.Key(code)
	for _, e := range s.catalogs[catalog] {
		if textutil.Key(e.Code) == key || strconv.Itoa(e.ID) == code {
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

// Upsert replaces entries with the same id and keeps the catalog ordered by id.
func (s *MemoryStore) Upsert(_ context.Context, catalog string, entries []entity.CatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.catalogs[catalog]
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if i := slices.IndexFunc(current, func(c entity.CatalogEntry) bool { return c.ID == e.ID }); i >= 0 {
			current[i] = e
			continue
		}
		current = append(current, e)
	}
	slices.SortFunc(current, func(a, b entity.CatalogEntry) int { return a.ID - b.ID })
	s.catalogs[catalog] = current
	return nil
}

func (s *MemoryStore) Counts(context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.catalogs))
	for name, entries := range s.catalogs {
		out[name] = len(entries)
	}
	return out, nil
}
