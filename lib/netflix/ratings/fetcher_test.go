package ratings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ratingsexporter/lib/netflix/shakti"
	"ratingsexporter/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const smallPage = `{"codeName":"Lookingglass","ratingItems":[` +
	`{"ratingType":"star","title":"The Matrix","movieID":70273235,"yourRating":4,` +
	`"intRating":40,"date":"1/2/14","timestamp":1388678400,"comparableDate":1388678400}` +
	`],"totalRatings":1,"page":0,"size":100,"trkid":1,"tz":"PST"}`

type stubSession struct {
	mu      sync.Mutex
	urls    []string
	body    []byte
	status  int
	err     error
	release chan struct{}
}

func (s *stubSession) Do(ctx context.Context, url string) ([]byte, int, error) {
	s.mu.Lock()
	s.urls = append(s.urls, url)
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.body, s.status, s.err
}

func (s *stubSession) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

type recordingDelegate struct {
	pages chan *RatingsPage
	fails chan error
}

func newRecordingDelegate() *recordingDelegate {
	return &recordingDelegate{
		pages: make(chan *RatingsPage, 16),
		fails: make(chan error, 16),
	}
}

func (d *recordingDelegate) DidFetchPage(page *RatingsPage) { d.pages <- page }
func (d *recordingDelegate) FetchDidFail(pageIndex uint, err error) {
	d.fails <- err
}

var testApi = shakti.ApiContext{ApiRoot: "https://www.netflix.com/api/shakti/v1a2b3c4"}

func TestFetchPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:netflix/ratings")
	defer cleanup()

	session := &stubSession{body: []byte(smallPage), status: 200}
	delegate := newRecordingDelegate()

	fetcher := NewFetcher(session, testApi)
	fetcher.SetDelegate(delegate)
	fetcher.FetchPage(context.Background(), 5)

	page := <-delegate.pages
	require.Equal(t, "The Matrix", page.Items[0].Title)
	require.Equal(t,
		[]string{"https://www.netflix.com/api/shakti/v1a2b3c4/ratinghistory?pg=5"},
		session.urls,
	)
}

func TestFetchPageSuppressesDuplicates(t *testing.T) {
	session := &stubSession{
		body:    []byte(smallPage),
		status:  200,
		release: make(chan struct{}),
	}
	delegate := newRecordingDelegate()

	fetcher := NewFetcher(session, testApi)
	fetcher.SetDelegate(delegate)

	fetcher.FetchPage(context.Background(), 0)
	require.Eventually(t, func() bool { return session.callCount() == 1 },
		time.Second, time.Millisecond)

	// still in flight, so this must not hit the network again
	fetcher.FetchPage(context.Background(), 0)
	close(session.release)

	page := <-delegate.pages
	require.Equal(t, 0, page.PageIndex)
	require.Equal(t, 1, session.callCount())

	select {
	case <-delegate.pages:
		t.Fatal("duplicate fetch produced a second result")
	case <-time.After(50 * time.Millisecond):
	}

	// the in-flight marker is released on completion, a refetch works;
	// the release may land shortly after the delegate callback, so retry
	session.release = nil
	require.Eventually(t, func() bool {
		fetcher.FetchPage(context.Background(), 0)
		return session.callCount() == 2
	}, time.Second, 5*time.Millisecond)
	<-delegate.pages
}

func TestFetchPageBadStatus(t *testing.T) {
	session := &stubSession{body: []byte("redirected"), status: 302}
	delegate := newRecordingDelegate()

	fetcher := NewFetcher(session, testApi)
	fetcher.SetDelegate(delegate)
	fetcher.FetchPage(context.Background(), 2)

	err := <-delegate.fails
	require.ErrorContains(t, err, "status 302")
}

func TestFetchPageSessionError(t *testing.T) {
	session := &stubSession{err: errors.New("connection reset")}
	delegate := newRecordingDelegate()

	fetcher := NewFetcher(session, testApi)
	fetcher.SetDelegate(delegate)
	fetcher.FetchPage(context.Background(), 0)

	err := <-delegate.fails
	require.ErrorContains(t, err, "connection reset")
}

func TestFetchPageMalformedBody(t *testing.T) {
	session := &stubSession{body: []byte(`{"codeName":"x"}`), status: 200}
	delegate := newRecordingDelegate()

	fetcher := NewFetcher(session, testApi)
	fetcher.SetDelegate(delegate)
	fetcher.FetchPage(context.Background(), 0)

	err := <-delegate.fails
	require.ErrorContains(t, err, "required field missing")
}
