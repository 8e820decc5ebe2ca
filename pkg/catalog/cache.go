// Package catalog caches resolved collection descriptions.
//
// Entries have no TTL: once cached they are served verbatim until an
// operator invalidates them. Resolution costs several upstream calls per
// collection, so the cache deliberately trades staleness for cost.
package catalog

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/stac"
)

// Resolver produces a normalized entry on cache miss.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*stac.Collection, error)
}

// NameLister enumerates all known collection names for the full listing.
type NameLister interface {
	ListCollectionNames(ctx context.Context) ([]string, error)
}

// Cache is the persisted collection catalog.
//
// Resolution runs outside any lock: it is read-mostly and idempotent, so
// two workers resolving the same name concurrently simply overwrite each
// other with equal entries (last-writer-wins on the atomic store).
type Cache struct {
	store    Store
	resolver Resolver
	names    NameLister
	logger   *zap.Logger
}

func New(store Store, resolver Resolver, names NameLister, logger *zap.Logger) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if names == nil {
		return nil, fmt.Errorf("name lister is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, resolver: resolver, names: names, logger: logger}, nil
}

// Get returns the cached entry for name, resolving and persisting it on
// miss. A persist failure does not fail the request; the entry is served
// and the next request resolves again.
func (c *Cache) Get(ctx context.Context, name string) (*stac.Collection, error) {
	if cached, ok, err := c.store.GetEntry(name); err != nil {
		c.logger.Warn("Cache read failed, resolving fresh",
			zap.String("collection", name),
			zap.Error(err))
	} else if ok {
		return cached, nil
	}

	col, err := c.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := c.store.PutEntry(name, col); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("collection", name),
			zap.Error(err))
	}
	return col, nil
}

// List returns the catalog listing, assembling and persisting it when no
// cached listing exists.
//
// A collection that fails to resolve is logged and omitted; one bad
// collection never fails the whole listing.
func (c *Cache) List(ctx context.Context) (*stac.Listing, error) {
	if cached, ok, err := c.store.GetListing(); err != nil {
		c.logger.Warn("Listing read failed, assembling fresh", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	names, err := c.names.ListCollectionNames(ctx)
	if err != nil {
		return nil, err
	}

	listing := &stac.Listing{Collections: make([]stac.Collection, 0, len(names))}
	for _, name := range names {
		col, err := c.Get(ctx, name)
		if err != nil {
			c.logger.Warn("Skipping collection in listing",
				zap.String("collection", name),
				zap.Error(err))
			continue
		}
		listing.Collections = append(listing.Collections, *col)
	}

	if err := c.store.PutListing(listing); err != nil {
		c.logger.Warn("Listing write failed", zap.Error(err))
	}
	return listing, nil
}

// Invalidate removes cached entries whose names match the glob pattern and
// drops the catalog listing, forcing re-resolution on next access. Returns
// the number of entries removed.
func (c *Cache) Invalidate(pattern string) (int, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return 0, fmt.Errorf("invalid pattern %q", pattern)
	}

	names, err := c.store.EntryNames()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		match, err := doublestar.Match(pattern, name)
		if err != nil {
			return removed, fmt.Errorf("match pattern %q: %w", pattern, err)
		}
		if !match {
			continue
		}
		if err := c.store.DeleteEntry(name); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		if err := c.store.DeleteListing(); err != nil {
			return removed, err
		}
		c.logger.Info("Cache invalidated",
			zap.String("pattern", pattern),
			zap.Int("removed", removed))
	}
	return removed, nil
}

// Refresh drops the cached entry for name and resolves it again.
func (c *Cache) Refresh(ctx context.Context, name string) (*stac.Collection, error) {
	if err := c.store.DeleteEntry(name); err != nil {
		return nil, err
	}
	if err := c.store.DeleteListing(); err != nil {
		return nil, err
	}
	return c.Get(ctx, name)
}
