package event

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/backend/mainloop"
)

func TestBroker_Subscribe(t *testing.T) {
	a := assert.New(t)

	broker := InitBus(10)
	received := make(chan *api.SourceChangedCommand, 1)
	broker.Subscribe(api.SourceChanged, func(command *api.SourceChangedCommand) {
		received <- command
	})

	broker.SendCommandToTopic(api.SourceChanged, &api.SourceChangedCommand{Path: "/a.png"})

	select {
	case command := <-received:
		a.Equal("/a.png", command.Path)
	case <-time.After(5 * time.Second):
		a.Fail("command not received")
	}
}

func TestBroker_ConnectToLoop(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	broker := InitBus(10)
	loop := mainloop.NewManual()

	var paths []string
	broker.ConnectToLoop(api.SourceChanged, loop, func(command *api.SourceChangedCommand) {
		paths = append(paths, command.Path)
	})

	broker.SendCommandToTopic(api.SourceChanged, &api.SourceChangedCommand{Path: "/a.png"})
	broker.SendCommandToTopic(api.SourceChanged, &api.SourceChangedCommand{Path: "/b.png"})

	r.Eventually(func() bool { return loop.Pending() == 2 }, 5*time.Second, 10*time.Millisecond)
	a.Empty(paths)

	a.Equal(2, loop.RunIdle())
	a.Equal([]string{"/a.png", "/b.png"}, paths)
}

func TestBroker_SendToTopic(t *testing.T) {
	broker := InitBus(10)
	var wg sync.WaitGroup
	wg.Add(1)
	broker.Subscribe(api.ThumbnailInvalidated, func() {
		wg.Done()
	})

	broker.SendToTopic(api.ThumbnailInvalidated)
	wg.Wait()
}

func TestBroker_SendError(t *testing.T) {
	a := assert.New(t)

	broker := InitBus(10)
	received := make(chan *api.ErrorCommand, 1)
	broker.Subscribe(api.ShowError, func(command *api.ErrorCommand) {
		received <- command
	})

	broker.SendError("Could not load", assert.AnError)

	select {
	case command := <-received:
		a.Equal("Could not load: "+assert.AnError.Error(), command.Message)
	case <-time.After(5 * time.Second):
		a.Fail("error not received")
	}
}
