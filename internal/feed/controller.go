package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// PageSource fetches one page of ideas from the backing API. An empty
// cursor requests the first page.
type PageSource interface {
	FetchPage(ctx context.Context, cursor string, limit int) (*Page, error)
}

// Controller drives page loads against a PageSource and keeps the store,
// cursor and has-more flag consistent. There is no network-level abort:
// a first-page load started before a session change is cancelled
// logically, by comparing an attempt counter before committing its
// result. At most one load-more fetch is in flight at a time.
type Controller struct {
	mu          sync.Mutex
	store       *Store
	source      PageSource
	logger      *zap.Logger
	pageSize    int
	attempt     uint64
	loading     bool
	loadingMore bool
}

func NewController(source PageSource, store *Store, logger *zap.Logger, pageSize int) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return &Controller{
		store:    store,
		source:   source,
		logger:   logger,
		pageSize: pageSize,
	}
}

// HandleSession reacts to an identity transition. Not-ready invalidates
// any in-flight first-page load; ready and logged-out resets the store;
// ready and logged-in starts a fresh first-page load.
func (c *Controller) HandleSession(ctx context.Context, ready, loggedIn bool) error {
	if !ready {
		c.mu.Lock()
		c.attempt++
		c.loading = false
		c.mu.Unlock()
		return nil
	}
	if !loggedIn {
		c.mu.Lock()
		c.attempt++
		c.loading = false
		c.store.Reset()
		c.mu.Unlock()
		return nil
	}
	return c.LoadFirstPage(ctx)
}

// LoadFirstPage fetches page one and replaces the store contents. If a
// newer attempt started while the fetch was pending, the stale result is
// discarded.
func (c *Controller) LoadFirstPage(ctx context.Context) error {
	c.mu.Lock()
	c.attempt++
	id := c.attempt
	c.loading = true
	c.loadingMore = false
	limit := c.pageSize
	c.mu.Unlock()

	page, err := c.source.FetchPage(ctx, "", limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempt != id {
		// superseded by a newer session transition
		return nil
	}
	c.loading = false
	if err != nil {
		c.logger.Error("failed to fetch ideas", zap.Error(err))
		return fmt.Errorf("fetch first page: %w", err)
	}

	c.store.Replace(page.Items, cursorString(page.NextCursor))
	c.logger.Debug("loaded first page",
		zap.Int("items", len(page.Items)),
		zap.Bool("has_more", c.store.HasMore()),
	)
	return nil
}

// LoadMore fetches the next page and merges it into the store. A no-op
// when there is no cursor or a load is already in flight, so rapid
// repeat calls issue exactly one request.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.loadingMore || !c.store.HasMore() {
		c.mu.Unlock()
		return nil
	}
	c.loadingMore = true
	id := c.attempt
	cursor := c.store.Cursor()
	limit := c.pageSize
	c.mu.Unlock()

	page, err := c.source.FetchPage(ctx, cursor, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false
	if c.attempt != id {
		return nil
	}
	if err != nil {
		c.logger.Error("failed to fetch more ideas", zap.Error(err))
		return fmt.Errorf("fetch next page: %w", err)
	}

	c.store.Merge(page.Items, cursorString(page.NextCursor))
	c.logger.Debug("loaded next page",
		zap.Int("items", len(page.Items)),
		zap.Int("total", c.store.Len()),
		zap.Bool("has_more", c.store.HasMore()),
	)
	return nil
}

// Loading reports whether a first-page load is pending.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LoadingMore reports whether a load-more fetch is pending.
func (c *Controller) LoadingMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingMore
}

func cursorString(cursor *string) string {
	if cursor == nil {
		return ""
	}
	return *cursor
}
