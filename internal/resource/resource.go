// Package resource implements the fetch pattern shared by every
// data-bearing view: a paginated, filterable query per entity and a
// mutation counterpart whose results are never merged locally. After a
// successful mutation the caller re-fetches; the server stays the single
// source of truth for derived fields.
package resource

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"sales-admin/internal/api"
	"sales-admin/internal/models"
)

// Filter converts entity-specific criteria into query parameters. Absent
// fields must be omitted entirely, not sent as empty values.
type Filter interface {
	Query() url.Values
}

// Query holds one fetched page of an entity collection.
type Query[T any] struct {
	client *api.Client
	path   string

	mu         sync.Mutex
	items      []T
	pagination models.Pagination
	loading    bool
}

// NewQuery creates a query engine for the collection at path.
func NewQuery[T any](client *api.Client, path string) *Query[T] {
	return &Query[T]{client: client, path: path}
}

// Fetch replaces the held page with the server's response for the given
// criteria. page is 1-indexed and limit must be positive; filter may be
// nil for an unfiltered fetch. On failure the held page is reset to an
// empty first page with zero totals, so callers never display a stale
// page number against no results.
func (q *Query[T]) Fetch(ctx context.Context, filter Filter, page, limit int) error {
	if page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", page)
	}
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	q.setLoading(true)
	defer q.setLoading(false)

	query := url.Values{}
	if filter != nil {
		query = filter.Query()
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var items []T
	pagination, err := q.client.GetPage(ctx, q.path, query, &items)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.items = nil
		q.pagination = models.Pagination{Page: 1, Limit: limit}
		return err
	}

	q.items = items
	if pagination != nil {
		q.pagination = *pagination
	} else {
		q.pagination = models.Pagination{Page: page, Limit: limit, Total: len(items), TotalPages: 1}
	}
	return nil
}

// Items returns the current page's records.
func (q *Query[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Pagination returns the current page descriptor.
func (q *Query[T]) Pagination() models.Pagination {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pagination
}

// Loading reports whether a fetch is in flight.
func (q *Query[T]) Loading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loading
}

func (q *Query[T]) setLoading(v bool) {
	q.mu.Lock()
	q.loading = v
	q.mu.Unlock()
}

// Mutator performs single-shot writes for one entity. Each operation is
// exactly one network call; no held page is touched on success or failure.
type Mutator[C any, U any] struct {
	client     *api.Client
	createPath string
	updatePath string
	deletePath string
}

// NewMutator creates a mutation engine. updatePath and deletePath are
// prefixes to which the record identifier is appended.
func NewMutator[C any, U any](client *api.Client, createPath, updatePath, deletePath string) *Mutator[C, U] {
	return &Mutator[C, U]{
		client:     client,
		createPath: createPath,
		updatePath: updatePath,
		deletePath: deletePath,
	}
}

// Create submits a new record and returns the server's confirmation
// message. The caller re-fetches to see the stored record.
func (m *Mutator[C, U]) Create(ctx context.Context, payload C) (string, error) {
	return m.client.Post(ctx, m.createPath, payload, nil)
}

// Update patches the identified record with the set fields of patch.
func (m *Mutator[C, U]) Update(ctx context.Context, id int64, patch U) (string, error) {
	return m.client.Patch(ctx, fmt.Sprintf("%s/%d", m.updatePath, id), patch, nil)
}

// Delete removes the identified record.
func (m *Mutator[C, U]) Delete(ctx context.Context, id int64) (string, error) {
	return m.client.Delete(ctx, fmt.Sprintf("%s/%d", m.deletePath, id))
}

// Exporter downloads a filtered CSV export and saves it under dir with a
// date-stamped filename.
type Exporter struct {
	client *api.Client
	path   string
	prefix string
	dir    string
}

// NewExporter creates an export engine for the endpoint at path.
func NewExporter(client *api.Client, path, prefix, dir string) *Exporter {
	return &Exporter{client: client, path: path, prefix: prefix, dir: dir}
}

// Export fetches the export matching filter and writes it to
// <dir>/<prefix>_YYYY-MM-DD.csv, returning the written path. A partial
// file is removed on failure.
func (e *Exporter) Export(ctx context.Context, filter Filter) (string, error) {
	query := url.Values{}
	if filter != nil {
		query = filter.Query()
	}

	name := fmt.Sprintf("%s_%s.csv", e.prefix, time.Now().Format("2006-01-02"))
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := e.client.Download(ctx, e.path, query, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}
