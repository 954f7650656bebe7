package thumbnail

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"sync"
	"testing"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/backend/mainloop"
	"vincit.fi/image-viewer/common/event"
	"vincit.fi/image-viewer/internal/testimage"
)

type recordingSender struct {
	mux      sync.Mutex
	ready    []*api.ThumbnailReadyCommand
	progress []*api.UpdateProgressCommand
	errors   []string

	api.Sender
}

func (s *recordingSender) SendCommandToTopic(topic api.Topic, command apitype.Command) {
	s.mux.Lock()
	defer s.mux.Unlock()
	switch c := command.(type) {
	case *api.ThumbnailReadyCommand:
		s.ready = append(s.ready, c)
	case *api.UpdateProgressCommand:
		s.progress = append(s.progress, c)
	}
}

func (s *recordingSender) SendError(message string, err error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.errors = append(s.errors, message)
}

func (s *recordingSender) counts() (int, int) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.ready), len(s.progress)
}

func TestPopulator_Request(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	cache, _ := newCache(t, DefaultSettings())
	sender := &recordingSender{}
	populator := NewPopulator(cache, sender, 2)
	defer populator.Close()

	dir := t.TempDir()
	good := testimage.WriteFile(t, dir, "good.png", testimage.Png(t, testimage.Solid(40, 40, testimage.Red)))
	bad := testimage.WriteFile(t, dir, "bad.png", []byte("broken"))

	a.Equal(uint64(1), populator.Request(good))
	a.Equal(uint64(1), populator.Request(bad))

	r.Eventually(func() bool {
		ready, progress := sender.counts()
		return ready == 2 && progress == 2
	}, 5*time.Second, 10*time.Millisecond)

	results := map[string]*api.ThumbnailReadyCommand{}
	for _, command := range sender.ready {
		results[command.Path] = command
	}
	r.Contains(results, good)
	r.Contains(results, bad)

	a.NoError(results[good].Err)
	a.FileExists(results[good].CachePath)
	a.Equal(uint64(1), results[good].Generation)

	a.True(apitype.IsDecodeError(results[bad].Err))
	a.Empty(results[bad].CachePath)
	a.Equal([]string{"Could not create thumbnail for " + bad}, sender.errors)

	completed := 0
	for _, progress := range sender.progress {
		a.GreaterOrEqual(progress.Total, progress.Current)
		completed = max(completed, progress.Current)
	}
	a.Equal(2, completed)
}

func TestPopulator_Generations(t *testing.T) {
	a := assert.New(t)

	cache, _ := newCache(t, DefaultSettings())
	populator := NewPopulator(cache, &recordingSender{}, 1)
	defer populator.Close()

	path := filepath.Join(t.TempDir(), "missing.png")
	a.Equal(uint64(0), populator.Latest(path))
	a.Equal(uint64(1), populator.Request(path))
	a.Equal(uint64(2), populator.Request(path))
	a.Equal(uint64(2), populator.Latest(path))
}

func TestReadyFilter(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	cache, _ := newCache(t, DefaultSettings())
	broker := event.InitBus(100)
	loop := mainloop.NewManual()
	populator := NewPopulator(cache, broker, 1)
	defer populator.Close()

	source := testimage.WriteFile(t, t.TempDir(), "a.png", testimage.Png(t, testimage.Solid(10, 10, testimage.Blue)))

	var mux sync.Mutex
	var delivered []*api.ThumbnailReadyCommand
	received := 0
	broker.Subscribe(api.ThumbnailReady, func(*api.ThumbnailReadyCommand) {
		mux.Lock()
		defer mux.Unlock()
		received++
	})
	broker.ConnectToLoop(api.ThumbnailReady, loop, ReadyFilter(populator, func(command *api.ThumbnailReadyCommand) {
		delivered = append(delivered, command)
	}))

	first := populator.Request(source)
	second := populator.Request(source)
	a.Less(first, second)

	r.Eventually(func() bool {
		loop.RunIdle()
		return len(delivered) > 0
	}, 5*time.Second, 10*time.Millisecond)

	// Superseded results may or may not be produced but never reach fn
	for _, command := range delivered {
		a.Equal(second, command.Generation)
		a.NoError(command.Err)
	}
	mux.Lock()
	a.GreaterOrEqual(received, 1)
	mux.Unlock()
}

func TestPopulator_CloseIsIdempotent(t *testing.T) {
	cache, _ := newCache(t, DefaultSettings())
	populator := NewPopulator(cache, &recordingSender{}, 3)
	populator.Close()
	populator.Close()

	// Requests after close don't block
	populator.Request(filepath.Join(t.TempDir(), "a.png"))
}
