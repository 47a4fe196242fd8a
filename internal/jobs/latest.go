// Package jobs coordinates concurrent work: Latest cancels the previous job
// started under the same key, Guard refuses a second job while one is in flight.
package jobs

import (
	"context"
	"sync"
)

// Latest runs at most one job per key. Starting a job cancels the one
// previously started under the same key.
type Latest struct {
	mu      sync.Mutex
	running map[string]*job
	wg      sync.WaitGroup
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLatest() *Latest {
	return &Latest{running: make(map[string]*job)}
}

// Go cancels the job running under key, waits for it to return and then
// starts fn in a new goroutine. The returned channel is closed when fn returns.
func (l *Latest) Go(ctx context.Context, key string, fn func(ctx context.Context)) <-chan struct{} {
	jobCtx, cancel := context.WithCancel(ctx)
	current := &job{cancel: cancel, done: make(chan struct{})}

	l.mu.Lock()
	previous := l.running[key]
	l.running[key] = current
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer close(current.done)
		defer cancel()
		defer l.release(key, current)

		if previous != nil {
			previous.cancel()
			<-previous.done
		}
		if jobCtx.Err() != nil {
			return
		}
		fn(jobCtx)
	}()

	return current.done
}

// Cancel cancels the job running under key, if any.
func (l *Latest) Cancel(key string) {
	l.mu.Lock()
	current := l.running[key]
	l.mu.Unlock()

	if current != nil {
		current.cancel()
	}
}

// CancelAll cancels every running job.
func (l *Latest) CancelAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, current := range l.running {
		current.cancel()
	}
}

// Wait blocks until every started job has returned.
func (l *Latest) Wait() {
	l.wg.Wait()
}

func (l *Latest) release(key string, current *job) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running[key] == current {
		delete(l.running, key)
	}
}
