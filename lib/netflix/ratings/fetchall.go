package ratings

import (
	"context"
	"fmt"
)

type fetchResult struct {
	page      *RatingsPage
	pageIndex uint
	err       error
}

// pageCollector is a FetcherDelegate that funnels results into a channel.
// The channel is buffered to capacity so fetch goroutines never block on a
// caller that already gave up.
type pageCollector struct {
	results chan fetchResult
}

func newPageCollector(capacity int) *pageCollector {
	return &pageCollector{results: make(chan fetchResult, capacity)}
}

func (c *pageCollector) DidFetchPage(page *RatingsPage) {
	c.results <- fetchResult{page: page, pageIndex: uint(page.PageIndex)}
}

func (c *pageCollector) FetchDidFail(pageIndex uint, err error) {
	c.results <- fetchResult{pageIndex: pageIndex, err: err}
}

func (c *pageCollector) wait(ctx context.Context) (*RatingsPage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-c.results:
		if result.err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", result.pageIndex, result.err)
		}
		return result.page, nil
	}
}

// FetchOne retrieves a single page synchronously.
func FetchOne(ctx context.Context, fetcher PageFetcher, pageIndex uint) (*RatingsPage, error) {
	collector := newPageCollector(1)
	fetcher.SetDelegate(collector)
	fetcher.FetchPage(ctx, pageIndex)
	return collector.wait(ctx)
}

// FetchAll retrieves the entire rating history and returns the items in
// global order. It is the synchronous counterpart of Manager for one-shot
// exports: any page failure fails the whole operation.
func FetchAll(ctx context.Context, fetcher PageFetcher) ([]RatingItem, error) {
	bootstrap := newPageCollector(1)
	fetcher.SetDelegate(bootstrap)
	fetcher.FetchPage(ctx, 0)

	first, err := bootstrap.wait(ctx)
	if err != nil {
		return nil, err
	}
	// the reported page index is network data; trusting it blindly would
	// leave holes in the page slice below
	if first.PageIndex != 0 {
		return nil, fmt.Errorf("page 0 response reported page index %d", first.PageIndex)
	}
	if first.PageSize <= 0 || first.TotalRatings <= len(first.Items) {
		return first.Items, nil
	}

	totalPages := (first.TotalRatings + first.PageSize - 1) / first.PageSize
	pages := make([]*RatingsPage, totalPages)
	pages[0] = first

	collector := newPageCollector(totalPages)
	fetcher.SetDelegate(collector)
	for i := 1; i < totalPages; i++ {
		fetcher.FetchPage(ctx, uint(i))
	}

	for remaining := totalPages - 1; remaining > 0; {
		page, err := collector.wait(ctx)
		if err != nil {
			return nil, err
		}
		if page.PageIndex < 1 || page.PageIndex >= totalPages {
			return nil, fmt.Errorf("response reported out-of-range page index %d", page.PageIndex)
		}
		if pages[page.PageIndex] != nil {
			return nil, fmt.Errorf("response reported duplicate page index %d", page.PageIndex)
		}
		pages[page.PageIndex] = page
		remaining--
	}

	items := make([]RatingItem, 0, first.TotalRatings)
	for _, page := range pages {
		items = append(items, page.Items...)
	}
	return items, nil
}
