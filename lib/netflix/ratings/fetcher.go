package ratings

import (
	"context"
	"fmt"
	"sync"

	"ratingsexporter/lib/netflix/session"
	"ratingsexporter/lib/netflix/shakti"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("netflix/ratings")

// FetcherDelegate is notified when a page fetch finishes. Callbacks run on
// the fetch goroutine; there is no ordering between pages requested
// concurrently.
type FetcherDelegate interface {
	DidFetchPage(page *RatingsPage)
	FetchDidFail(pageIndex uint, err error)
}

// PageFetcher retrieves one page of the rating history at a time.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageIndex uint)
	SetDelegate(d FetcherDelegate)
}

// Fetcher is the production PageFetcher. A page index with a request
// already in flight is never fetched twice concurrently; the second call
// returns immediately.
type Fetcher struct {
	session session.Session
	api     shakti.ApiContext

	mu       sync.Mutex
	delegate FetcherDelegate
	inflight map[uint]struct{}
}

func NewFetcher(s session.Session, api shakti.ApiContext) *Fetcher {
	return &Fetcher{
		session:  s,
		api:      api,
		inflight: map[uint]struct{}{},
	}
}

func (f *Fetcher) SetDelegate(d FetcherDelegate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delegate = d
}

// FetchPage requests a page asynchronously. The result arrives through the
// delegate; errors are reported per page and never retried here.
func (f *Fetcher) FetchPage(ctx context.Context, pageIndex uint) {
	f.mu.Lock()
	if _, alreadyFetching := f.inflight[pageIndex]; alreadyFetching {
		f.mu.Unlock()
		return
	}
	f.inflight[pageIndex] = struct{}{}
	f.mu.Unlock()

	go f.fetch(ctx, pageIndex)
}

func (f *Fetcher) fetch(ctx context.Context, pageIndex uint) {
	ctx, span := tracer.Start(ctx, "fetchPage")
	defer span.End()

	defer func() {
		f.mu.Lock()
		delete(f.inflight, pageIndex)
		f.mu.Unlock()
	}()

	url := fmt.Sprintf("%s/ratinghistory?pg=%d", f.api.ApiRoot, pageIndex)
	body, status, err := f.session.Do(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch ratings page")
		f.fail(pageIndex, err)
		return
	}
	if status != 200 {
		span.SetStatus(codes.Error, "bad status")
		f.fail(pageIndex, fmt.Errorf("ratings page %d returned status %d", pageIndex, status))
		return
	}

	page, err := ParsePage(body)
	if err != nil {
		// a malformed page is indistinguishable from a failed one as far
		// as callers care
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse ratings page")
		f.fail(pageIndex, err)
		return
	}

	f.mu.Lock()
	delegate := f.delegate
	f.mu.Unlock()
	if delegate != nil {
		delegate.DidFetchPage(page)
	}
}

func (f *Fetcher) fail(pageIndex uint, err error) {
	f.mu.Lock()
	delegate := f.delegate
	f.mu.Unlock()
	if delegate != nil {
		delegate.FetchDidFail(pageIndex, err)
	}
}
