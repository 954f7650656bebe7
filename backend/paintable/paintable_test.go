package paintable

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"image"
	"runtime"
	"testing"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/backend/decoder"
	"vincit.fi/image-viewer/backend/mainloop"
	"vincit.fi/image-viewer/internal/testimage"
)

const defaultDelay = 100 * time.Millisecond

func newPaintable() (*Paintable, *mainloop.ManualLoop) {
	loop := mainloop.NewManual()
	return New(loop, decoder.New(), defaultDelay), loop
}

// Frames are 100 ms, 200 ms and 300 ms long
func loadAnimation(t *testing.T, paintable *Paintable) {
	require.NoError(t, paintable.Load(testimage.Gif(t, 6, 4, []int{10, 20, 30}), "gif"))
}

func TestPaintable_Interface(t *testing.T) {
	var _ api.Paintable = New(mainloop.NewManual(), decoder.New(), defaultDelay)
}

func TestPaintable_Empty(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()

	a.Equal(apitype.UnknownSize, paintable.IntrinsicWidth())
	a.Equal(apitype.UnknownSize, paintable.IntrinsicHeight())
	a.Equal(-1, paintable.CurrentIndex())
	a.Equal(0, paintable.FrameCount())
	a.False(paintable.IsPlaying())

	paintable.Resume()
	a.Equal(0, loop.Pending())
}

func TestPaintable_LoadStill(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	paintable, loop := newPaintable()
	invalidated := 0
	paintable.ConnectInvalidate(func() { invalidated++ })

	r.NoError(paintable.Load(testimage.Png(t, testimage.Solid(30, 20, testimage.Red)), "png"))

	a.Equal(30, paintable.IntrinsicWidth())
	a.Equal(20, paintable.IntrinsicHeight())
	a.Equal(0, paintable.CurrentIndex())
	a.Equal(1, invalidated)
	a.Equal(0, loop.Pending(), "still images never arm a timer")

	paintable.Resume()
	a.Equal(0, loop.Pending())
	a.Equal(0, loop.Advance(time.Minute))
}

func TestPaintable_LoadFailure(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	loadAnimation(t, paintable)
	a.Equal(1, loop.Pending())

	err := paintable.Load([]byte("garbage"), "gif")

	a.True(apitype.IsDecodeError(err))
	a.Equal(apitype.UnknownSize, paintable.IntrinsicWidth())
	a.Equal(0, paintable.FrameCount())
	a.Equal(0, loop.Pending(), "old timer is cancelled")

	rendered := paintable.Render(8, 4).(*image.NRGBA)
	a.Equal(image.Rect(0, 0, 8, 4), rendered.Bounds())
	a.Equal(placeholderColor, rendered.NRGBAAt(7, 3))
}

func TestPaintable_Playback(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	invalidated := 0
	paintable.ConnectInvalidate(func() { invalidated++ })

	loadAnimation(t, paintable)
	a.Equal(3, paintable.FrameCount())
	a.Equal(0, paintable.CurrentIndex())
	a.Equal(1, loop.Pending())

	t.Run("First frame only while paused", func(t *testing.T) {
		loop.Advance(100 * time.Millisecond)
		a.Equal(0, paintable.CurrentIndex())
		a.Equal(0, loop.Pending())
	})
	t.Run("Resume shows next frame", func(t *testing.T) {
		paintable.Resume()
		a.True(paintable.IsPlaying())
		a.Equal(1, paintable.CurrentIndex())
		a.Equal(1, loop.Pending())
	})
	t.Run("Resume while armed is a no-op", func(t *testing.T) {
		paintable.Resume()
		a.Equal(1, paintable.CurrentIndex())
		a.Equal(1, loop.Pending())
	})
	t.Run("Frame durations", func(t *testing.T) {
		loop.Advance(199 * time.Millisecond)
		a.Equal(1, paintable.CurrentIndex())
		loop.Advance(time.Millisecond)
		a.Equal(2, paintable.CurrentIndex())
		loop.Advance(300 * time.Millisecond)
		a.Equal(0, paintable.CurrentIndex(), "wraps around")
		loop.Advance(100 * time.Millisecond)
		a.Equal(1, paintable.CurrentIndex())
	})
	a.Equal(5, invalidated)
	a.Equal(1, loop.Pending(), "never more than one timer")
}

func TestPaintable_ZeroDurationUsesDefault(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	paintable, loop := newPaintable()
	r.NoError(paintable.Load(testimage.Gif(t, 4, 4, []int{0, 0}), "gif"))
	paintable.Resume()

	loop.Advance(defaultDelay - time.Millisecond)
	a.Equal(0, paintable.CurrentIndex())
	loop.Advance(time.Millisecond)
	a.Equal(1, paintable.CurrentIndex())
}

func TestPaintable_PauseResumeDoesNotDrift(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	loadAnimation(t, paintable)
	paintable.Resume()

	loop.Advance(100 * time.Millisecond)
	a.Equal(1, paintable.CurrentIndex())

	// Pausing in the middle of frame 1
	loop.Advance(50 * time.Millisecond)
	paintable.Pause()
	a.False(paintable.IsPlaying())

	loop.Advance(10 * time.Second)
	a.Equal(1, paintable.CurrentIndex(), "paused frame stays")
	a.Equal(0, loop.Pending())

	paintable.Resume()
	a.Equal(2, paintable.CurrentIndex(), "continues with the following frame")

	loop.Advance(300 * time.Millisecond)
	a.Equal(0, paintable.CurrentIndex())
}

func TestPaintable_PauseAndResumeBeforeTick(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	loadAnimation(t, paintable)
	paintable.Resume()

	paintable.Pause()
	paintable.Resume()
	a.Equal(1, loop.Pending())

	loop.Advance(100 * time.Millisecond)
	a.Equal(1, paintable.CurrentIndex())
	a.Equal(1, loop.Pending())
}

func TestPaintable_Restart(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	loadAnimation(t, paintable)
	paintable.Resume()
	loop.Advance(300 * time.Millisecond)
	a.Equal(2, paintable.CurrentIndex())

	paintable.Restart()
	a.Equal(0, paintable.CurrentIndex())
	a.Equal(1, loop.Pending())

	loop.Advance(100 * time.Millisecond)
	a.Equal(1, paintable.CurrentIndex())
}

func TestPaintable_ReloadInvalidatesOldTimer(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	paintable, loop := newPaintable()
	loadAnimation(t, paintable)
	paintable.Resume()

	r.NoError(paintable.Load(testimage.Gif(t, 8, 8, []int{10, 10}), "gif"))
	a.Equal(0, paintable.CurrentIndex())
	a.Equal(8, paintable.IntrinsicWidth())
	a.Equal(1, loop.Pending())

	loop.Advance(100 * time.Millisecond)
	a.Equal(1, paintable.CurrentIndex())
	a.Equal(2, paintable.FrameCount())
}

func TestPaintable_Destroy(t *testing.T) {
	a := assert.New(t)

	paintable, loop := newPaintable()
	invalidated := 0
	paintable.ConnectInvalidate(func() { invalidated++ })
	loadAnimation(t, paintable)
	paintable.Resume()
	invalidated = 0

	paintable.Destroy()
	paintable.Destroy()

	a.NotPanics(func() {
		loop.Advance(time.Minute)
	})
	a.Equal(0, invalidated)
	a.Equal(apitype.UnknownSize, paintable.IntrinsicWidth())
	a.ErrorIs(paintable.Load(testimage.Gif(t, 2, 2, []int{1, 1}), "gif"), ErrDestroyed)
	a.Equal(0, loop.Pending())
}

func TestPaintable_TimerDoesNotKeepPaintableAlive(t *testing.T) {
	a := assert.New(t)

	loop := mainloop.NewManual()
	func() {
		paintable := New(loop, decoder.New(), defaultDelay)
		loadAnimation(t, paintable)
		paintable.Resume()
	}()
	runtime.GC()
	runtime.GC()

	a.Equal(1, loop.Pending())
	a.NotPanics(func() {
		loop.Advance(time.Minute)
	})
}

func TestPaintable_RotateAndFlip(t *testing.T) {
	a := assert.New(t)

	paintable, _ := newPaintable()
	invalidated := 0
	paintable.ConnectInvalidate(func() { invalidated++ })

	paintable.Rotate(450)
	paintable.Flip(true)

	a.Equal(450, paintable.Rotation())
	a.True(paintable.IsFlipped())
	a.Equal(2, invalidated)

	paintable.Flip(false)
	a.False(paintable.IsFlipped())
}

func TestNewFactory(t *testing.T) {
	a := assert.New(t)

	factory := NewFactory(mainloop.NewManual(), decoder.New(), defaultDelay)
	first := factory()
	second := factory()

	a.NotSame(first, second)
	a.Equal(apitype.UnknownSize, first.IntrinsicWidth())
}
