package mainloop

import (
	"context"
	"sync"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/common/logger"
)

type source struct {
	id      api.SourceId
	fn      func()
	timer   *time.Timer
	removed bool
}

// MainLoop runs every callback on the goroutine that called Run.
type MainLoop struct {
	mux     sync.Mutex
	nextId  api.SourceId
	sources map[api.SourceId]*source
	queue   []*source
	wake    chan struct{}
	quit    chan struct{}
	once    sync.Once

	api.Scheduler
}

func New() *MainLoop {
	return &MainLoop{
		sources: map[api.SourceId]*source{},
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
}

func (s *MainLoop) register(fn func()) *source {
	s.nextId++
	src := &source{
		id: s.nextId,
		fn: fn,
	}
	s.sources[src.id] = src
	return src
}

func (s *MainLoop) TimeoutAddOnce(d time.Duration, fn func()) api.SourceId {
	s.mux.Lock()
	defer s.mux.Unlock()

	src := s.register(fn)
	src.timer = time.AfterFunc(d, func() {
		s.post(src)
	})
	return src.id
}

func (s *MainLoop) IdleAdd(fn func()) api.SourceId {
	s.mux.Lock()
	src := s.register(fn)
	s.mux.Unlock()

	s.post(src)
	return src.id
}

func (s *MainLoop) Remove(id api.SourceId) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	src, ok := s.sources[id]
	if !ok {
		return false
	}
	src.removed = true
	delete(s.sources, id)
	if src.timer != nil {
		src.timer.Stop()
	}
	return true
}

// Pending returns the number of callbacks that have not run yet.
func (s *MainLoop) Pending() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.sources)
}

func (s *MainLoop) post(src *source) {
	s.mux.Lock()
	if src.removed {
		s.mux.Unlock()
		return
	}
	s.queue = append(s.queue, src)
	s.mux.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run dispatches callbacks until ctx is done or Quit is called.
func (s *MainLoop) Run(ctx context.Context) error {
	logger.Debug.Print("Main loop started")
	defer logger.Debug.Print("Main loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.quit:
			return nil
		case <-s.wake:
			s.dispatch()
		}
	}
}

func (s *MainLoop) dispatch() {
	s.mux.Lock()
	queue := s.queue
	s.queue = nil
	s.mux.Unlock()

	for _, src := range queue {
		s.mux.Lock()
		removed := src.removed
		delete(s.sources, src.id)
		s.mux.Unlock()

		if !removed {
			src.fn()
		}
	}
}

func (s *MainLoop) Quit() {
	s.once.Do(func() {
		close(s.quit)
	})
}
