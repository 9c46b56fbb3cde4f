// Package pricecache is the durable market-price cache. It is the only
// component touching disk; freshness is the caller's policy decision.
package pricecache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"inv_checker/internal/domain/entity"
	"inv_checker/pkg/contextx"
	"inv_checker/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// document is the on-disk cache layout.
type document struct {
	Version   int                          `json:"version"`
	UpdatedAt time.Time                    `json:"updated_at"`
	Items     map[string]entity.PricedItem `json:"items"`
}

const documentVersion = 1

type Store struct {
	filePath string
	entries  *cache.Cache
}

func NewStore(filePath string) *Store {
	return &Store{
		filePath: filePath,
		entries:  cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the cached entry whatever its age.
func (s *Store) Get(name string) (entity.PricedItem, bool) {
	raw, found := s.entries.Get(name)
	if !found {
		cacheLookups.WithLabelValues("miss").Inc()

		return entity.PricedItem{}, false
	}

	cacheLookups.WithLabelValues("hit").Inc()

	return raw.(entity.PricedItem), true
}

// Put inserts or overwrites the entry for item.Name.
func (s *Store) Put(item entity.PricedItem) {
	item.Stale = false
	s.entries.Set(item.Name, item, cache.NoExpiration)
}

func (s *Store) Len() int {
	return s.entries.ItemCount()
}

// IsFresh reports whether the entry's age is strictly below maxAge. An entry
// exactly maxAge old is not fresh.
func IsFresh(item entity.PricedItem, maxAge time.Duration, now time.Time) bool {
	return now.Sub(item.FetchedAt) < maxAge
}

// Load reads the persisted cache. A missing or corrupt file degrades to an
// empty cache; it is never an error for the caller.
func (s *Store) Load(ctx context.Context) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger(ctx).Warn("price cache unreadable, starting empty", logx.Error(err))
		}

		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger(ctx).Warn("price cache corrupt, starting empty", logx.Error(err))

		return
	}

	for name, item := range doc.Items {
		item.Name = name
		s.entries.Set(name, item, cache.NoExpiration)
	}
}

// Save writes the full cache with temp-file-then-rename semantics: a crash
// mid-write leaves the previous file untouched.
func (s *Store) Save() error {
	doc := document{
		Version:   documentVersion,
		UpdatedAt: time.Now().UTC(),
		Items:     make(map[string]entity.PricedItem, s.entries.ItemCount()),
	}

	for name, item := range s.entries.Items() {
		doc.Items[name] = item.Object.(entity.PricedItem)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("os.MkdirAll: %w", err)
		}
	}

	tmpPath := s.filePath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil { //nolint:gosec // cache file
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	if err := os.Rename(tmpPath, s.filePath); err != nil {
		_ = os.Remove(tmpPath)

		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
