// Package sourcewatch reports changes to source images so that their cached
// thumbnails can be invalidated.
package sourcewatch

import (
	"context"
	"github.com/fsnotify/fsnotify"
	"path/filepath"
	"sync"
	"time"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/util"
)

// DefaultDebounce is how long a source has to stay quiet before a change is
// reported. Editors often write a file in several steps.
const DefaultDebounce = 50 * time.Millisecond

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)

	mux     sync.Mutex
	dirs    *util.Set[string]
	sources *util.Set[string]
	timers  map[string]*time.Timer
	closed  bool

	done chan struct{}
}

// New returns a watcher calling onChange on its own goroutine for every
// changed source. A negative debounce uses DefaultDebounce.
func New(debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		dirs:     util.NewSet[string](),
		sources:  util.NewSet[string](),
		timers:   map[string]*time.Timer{},
		done:     make(chan struct{}),
	}, nil
}

// Watch starts following path. The parent directory is watched so that
// replacing the file by rename is noticed.
func (s *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	s.mux.Lock()
	defer s.mux.Unlock()
	s.sources.Add(absPath)
	if s.dirs.Contains(dir) {
		return nil
	}
	if err := s.watcher.Add(dir); err != nil {
		return err
	}
	s.dirs.Add(dir)
	logger.Debug.Printf("Watching directory '%s'", dir)
	return nil
}

func (s *Watcher) Unwatch(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.sources.Remove(absPath)
}

// Directories returns the watched directories in order.
func (s *Watcher) Directories() []string {
	s.mux.Lock()
	defer s.mux.Unlock()
	return util.SortedStrings(s.dirs)
}

// Start processes events until ctx is done or Close is called.
func (s *Watcher) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.watcher.Events:
				if !ok {
					return
				}
				s.handle(event)
			case err, ok := <-s.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn.Printf("Watch error: %s", err)
			}
		}
	}()
}

func (s *Watcher) handle(event fsnotify.Event) {
	if event.Op&changeOps == 0 {
		return
	}
	path := filepath.Clean(event.Name)

	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed || !s.sources.Contains(path) {
		return
	}
	logger.Trace.Printf("Source event %s", event)

	if timer, ok := s.timers[path]; ok {
		timer.Reset(s.debounce)
		return
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.mux.Lock()
		delete(s.timers, path)
		closed := s.closed
		s.mux.Unlock()

		if !closed {
			logger.Debug.Printf("Source changed '%s'", path)
			s.onChange(path)
		}
	})
}

// Close stops watching. Pending changes are not reported.
func (s *Watcher) Close() error {
	s.mux.Lock()
	s.closed = true
	for path, timer := range s.timers {
		timer.Stop()
		delete(s.timers, path)
	}
	s.mux.Unlock()

	return s.watcher.Close()
}

// Wait blocks until the event goroutine started by Start has returned.
func (s *Watcher) Wait() {
	<-s.done
}
