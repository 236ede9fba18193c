package ratings

import (
	"context"
	"sync"
)

// FetchMode describes the fetching behavior of a Manager.
type FetchMode int

const (
	// FetchSequential loads pages on demand as indexes are requested
	// through ItemAt.
	FetchSequential FetchMode = iota
	// FetchDirected leaves prefetching to the delegate.
	FetchDirected
)

// ManagerDelegate is notified of manager lifecycle events. Callbacks run on
// the goroutine that completed the triggering fetch.
type ManagerDelegate interface {
	// DidBecomeReady fires once, when the very first page fetch finishes
	// (successfully or not).
	DidBecomeReady(m *Manager)
	// DidLoadRatingRange reports the inclusive global index range covered
	// by a freshly landed page.
	DidLoadRatingRange(first, last int)
	// DidFailPage reports a page that could not be fetched or parsed.
	DidFailPage(pageIndex uint, err error)
}

// Manager owns the sparse collection of fetched pages and exposes the
// rating history as a single randomly-indexable list while pages are still
// arriving.
//
// The page collection cannot be sized until the first response reveals the
// total count and page size, so the manager starts out uninitialized and
// becomes ready when the first fetch completes. Pages land at their own
// page index, whatever order the network delivers them in.
type Manager struct {
	mu       sync.Mutex
	fetcher  PageFetcher
	delegate ManagerDelegate
	mode     FetchMode
	ctx      context.Context

	pages        []*RatingsPage
	totalRatings int
	pageSize     int
	ready        bool
	closed       bool
}

// NewManager builds a manager around a fetcher and eagerly requests the
// first page. The context bounds every fetch the manager starts.
func NewManager(ctx context.Context, fetcher PageFetcher, delegate ManagerDelegate, mode FetchMode) *Manager {
	m := &Manager{
		fetcher:  fetcher,
		delegate: delegate,
		mode:     mode,
		ctx:      ctx,
	}
	fetcher.SetDelegate(m)
	fetcher.FetchPage(ctx, 0)
	return m
}

// TotalRatings is the profile's full rating count, 0 until ready.
func (m *Manager) TotalRatings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalRatings
}

// ItemsPerPage is the upstream page size, 0 until ready.
func (m *Manager) ItemsPerPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageSize
}

// TotalPages is the number of pages the full history spans, 0 until ready.
func (m *Manager) TotalPages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pageSize <= 0 {
		return 0
	}
	return (m.totalRatings + m.pageSize - 1) / m.pageSize
}

// Ready reports whether the first page fetch has completed.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// ItemAt returns the rating at a global index, or nil if its page has not
// landed yet. In sequential mode a miss triggers a fetch of the missing
// page as a side effect, so this read is deliberately not pure: the nil
// turns into a DidLoadRatingRange notification once the page arrives.
func (m *Manager) ItemAt(index int) *RatingItem {
	m.mu.Lock()
	if !m.ready || m.pageSize <= 0 || index < 0 || index >= m.totalRatings {
		m.mu.Unlock()
		return nil
	}

	page := index / m.pageSize
	offset := index % m.pageSize

	var item *RatingItem
	if page < len(m.pages) && m.pages[page] != nil && offset < len(m.pages[page].Items) {
		item = &m.pages[page].Items[offset]
	}

	needsFetch := item == nil && m.mode == FetchSequential && !m.closed
	ctx := m.ctx
	m.mu.Unlock()

	if needsFetch {
		m.fetcher.FetchPage(ctx, uint(page))
	}
	return item
}

// Page returns the fetched page at a page index, or nil.
func (m *Manager) Page(pageIndex int) *RatingsPage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pageIndex < 0 || pageIndex >= len(m.pages) {
		return nil
	}
	return m.pages[pageIndex]
}

// Close makes the manager drop any results that are still in flight.
// Owners call it on teardown so that late completions become no-ops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// DidFetchPage implements FetcherDelegate.
func (m *Manager) DidFetchPage(page *RatingsPage) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}

	if m.pages == nil && page.PageSize > 0 {
		m.totalRatings = page.TotalRatings
		m.pageSize = page.PageSize
		count := (page.TotalRatings + page.PageSize - 1) / page.PageSize
		m.pages = make([]*RatingsPage, count)
	}

	wasReady := m.ready
	m.ready = true

	if page.PageIndex >= 0 && page.PageIndex < len(m.pages) {
		m.pages[page.PageIndex] = page
	}

	first := page.PageIndex * m.pageSize
	last := (page.PageIndex+1)*m.pageSize - 1
	delegate := m.delegate
	m.mu.Unlock()

	if delegate == nil {
		return
	}
	if !wasReady {
		delegate.DidBecomeReady(m)
	}
	delegate.DidLoadRatingRange(first, last)
}

// FetchDidFail implements FetcherDelegate. A failed first page still ends
// the loading phase: the manager becomes ready with zero counts rather
// than staying uninitialized forever.
func (m *Manager) FetchDidFail(pageIndex uint, err error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	wasReady := m.ready
	m.ready = true
	delegate := m.delegate
	m.mu.Unlock()

	if delegate == nil {
		return
	}
	if !wasReady {
		delegate.DidBecomeReady(m)
	}
	delegate.DidFailPage(pageIndex, err)
}
