// Package scheduler runs functions on a fixed pool of workers in FIFO order.
package scheduler

import (
	"context"
	"fmt"
	"sync"
)

type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future receives the result of one unit of work exactly once.
type Future[T any] struct {
	c      chan T
	cancel context.CancelFunc
}

func (f *Future[T]) C() <-chan T {
	return f.c
}

// Stop cancels the context handed to the work.
func (f *Future[T]) Stop() {
	f.cancel()
}

type request[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	fn     Work[T]
	c      chan Result[T]
}

// Scheduler owns the contexts of its work. A work context is canceled by
// Future.Stop or Close, never by the work completing.
type Scheduler[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*request[T]
	running map[*request[T]]struct{}
	closed  bool

	wg sync.WaitGroup
}

func NewScheduler[T any](nbWorkers int) *Scheduler[T] {
	s := &Scheduler[T]{running: make(map[*request[T]]struct{})}
	s.cond = sync.NewCond(&s.mu)

	for range max(nbWorkers, 1) {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// AddWork queues w. After Close the future resolves with context.Canceled.
func (s *Scheduler[T]) AddWork(w Work[T]) *Future[Result[T]] {
	ctx, cancel := context.WithCancel(context.Background())
	r := &request[T]{ctx: ctx, cancel: cancel, fn: w, c: make(chan Result[T], 1)}
	f := &Future[Result[T]]{c: r.c, cancel: cancel}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		r.c <- Result[T]{Err: context.Canceled}
		return f
	}
	s.queue = append(s.queue, r)
	s.mu.Unlock()

	s.cond.Signal()
	return f
}

// Close cancels running work, resolves queued work as canceled and waits
// for the workers to return.
func (s *Scheduler[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.queue
	s.queue = nil
	for r := range s.running {
		r.cancel()
	}
	s.mu.Unlock()

	s.cond.Broadcast()
	for _, r := range pending {
		r.cancel()
		r.c <- Result[T]{Err: context.Canceled}
	}
	s.wg.Wait()
}

func (s *Scheduler[T]) worker() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		r := s.queue[0]
		s.queue = s.queue[1:]
		s.running[r] = struct{}{}
		s.mu.Unlock()

		res := r.run()

		s.mu.Lock()
		delete(s.running, r)
		s.mu.Unlock()
		r.c <- res
	}
}

func (r *request[T]) run() (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: fmt.Errorf("worker panicked: %v", p)}
		}
	}()
	if err := r.ctx.Err(); err != nil {
		return Result[T]{Err: err}
	}
	v, err := r.fn(r.ctx)
	return Result[T]{Data: v, Err: err}
}
