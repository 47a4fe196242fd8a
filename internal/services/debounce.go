package services

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/joshua/internal/jobs"
)

// SearchFunc runs one search.
type SearchFunc func(ctx context.Context, req SearchRequest) (*SearchResult, error)

// SearchResponse is emitted by QueryDebouncer for every search it runs.
type SearchResponse struct {
	Request SearchRequest
	Result  *SearchResult
	Err     error
}

// QueryDebouncer turns a stream of requests into searches. A request runs
// only after delay passed without a newer one, is dropped when equal to the
// previously run request, and cancels a search still in flight.
type QueryDebouncer struct {
	search   SearchFunc
	delay    time.Duration
	requests chan SearchRequest
	results  chan SearchResponse
	running  *jobs.Latest

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	stopped   chan struct{}
}

func NewQueryDebouncer(search SearchFunc, delay time.Duration) *QueryDebouncer {
	ctx, cancel := context.WithCancel(context.Background())
	d := &QueryDebouncer{
		search:   search,
		delay:    delay,
		requests: make(chan SearchRequest, 16),
		results:  make(chan SearchResponse, 1),
		running:  jobs.NewLatest(),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
	go d.loop()
	return d
}

// Submit queues a request. Requests submitted after Close are ignored.
func (d *QueryDebouncer) Submit(req SearchRequest) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.requests <- req:
	case <-d.ctx.Done():
	}
}

// Results is closed after Close once in-flight searches finished.
func (d *QueryDebouncer) Results() <-chan SearchResponse {
	return d.results
}

func (d *QueryDebouncer) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		d.cancel()
		<-d.stopped
	})
}

func (d *QueryDebouncer) loop() {
	defer close(d.stopped)
	defer close(d.results)

	var timer *time.Timer
	var fire <-chan time.Time

	var pending, last SearchRequest
	hasPending, hasLast := false, false

	for {
		select {
		case <-d.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			d.running.CancelAll()
			d.running.Wait()
			return

		case req := <-d.requests:
			pending, hasPending = req, true
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(d.delay)
			fire = timer.C

		case <-fire:
			fire = nil
			if !hasPending {
				continue
			}
			hasPending = false
			if hasLast && pending == last {
				continue
			}
			last, hasLast = pending, true

			req := pending
			d.running.Go(d.ctx, "search", func(ctx context.Context) {
				result, err := d.search(ctx, req)
				if ctx.Err() != nil {
					return
				}
				select {
				case d.results <- SearchResponse{Request: req, Result: result, Err: err}:
				case <-ctx.Done():
				}
			})
		}
	}
}
