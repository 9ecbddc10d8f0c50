// Package inmemory is an archive.Driver backed by a map, used by tests and
// when the archive is disabled for a single run.
package inmemory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/papercomputeco/llmstxt/pkg/archive"
)

// Driver implements archive.Driver using an in-memory map.
type Driver struct {
	mu      sync.RWMutex
	records map[string]*archive.Record
}

// NewDriver creates a new in-memory archive.
func NewDriver() *Driver {
	return &Driver{
		records: make(map[string]*archive.Record),
	}
}

// Put stores a copy of rec.
func (d *Driver) Put(_ context.Context, rec *archive.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cp := *rec
	d.records[rec.ID] = &cp
	return nil
}

// Get retrieves a record by its id.
func (d *Driver) Get(_ context.Context, id string) (*archive.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[id]
	if !ok {
		return nil, archive.NotFoundError{Key: id}
	}

	cp := *rec
	return &cp, nil
}

// Latest returns the newest record for url.
func (d *Driver) Latest(ctx context.Context, url string) (*archive.Record, error) {
	all, err := d.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	for _, rec := range all {
		if rec.URL == url {
			return rec, nil
		}
	}
	return nil, archive.NotFoundError{Key: url}
}

// List returns up to limit records, newest first.
func (d *Driver) List(_ context.Context, limit int) ([]*archive.Record, error) {
	d.mu.RLock()
	out := make([]*archive.Record, 0, len(d.records))
	for _, rec := range d.records {
		cp := *rec
		out = append(out, &cp)
	}
	d.mu.RUnlock()

	slices.SortFunc(out, func(a, b *archive.Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}
