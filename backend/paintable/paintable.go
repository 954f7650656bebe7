// Package paintable drives playback of decoded frame sets on a Scheduler and
// renders the current frame into a box.
package paintable

import (
	"errors"
	"image"
	"sync"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
	"weak"
)

var ErrDestroyed = errors.New("paintable is destroyed")

type Paintable struct {
	mux        sync.Mutex
	scheduler  api.Scheduler
	decoder    api.FrameDecoder
	frameDelay time.Duration

	frameSet *apitype.FrameSet
	current  *apitype.Frame
	shown    int
	index    int
	started  bool
	playing  bool
	pending  api.SourceId

	rotation int
	flipped  bool

	generation uint64
	destroyed  bool
	invalidate []func()

	api.Paintable
}

// New returns an empty paintable. frameDelay replaces zero frame durations
// of animations. Playback starts paused; the first frame is always shown.
func New(scheduler api.Scheduler, decoder api.FrameDecoder, frameDelay time.Duration) *Paintable {
	return &Paintable{
		scheduler:  scheduler,
		decoder:    decoder,
		frameDelay: frameDelay,
		shown:      -1,
	}
}

func NewFactory(scheduler api.Scheduler, decoder api.FrameDecoder, frameDelay time.Duration) api.PaintableFactory {
	return func() api.Paintable {
		return New(scheduler, decoder, frameDelay)
	}
}

// Load replaces the frames with the decoded data. On failure the paintable
// has no frames and renders a placeholder.
func (s *Paintable) Load(data []byte, formatHint string) error {
	frameSet, err := s.decoder.Decode(data, formatHint)
	return s.replace(frameSet, err)
}

func (s *Paintable) LoadFile(path string) error {
	frameSet, err := s.decoder.DecodeFile(path)
	return s.replace(frameSet, err)
}

func (s *Paintable) LoadFrameSet(frameSet *apitype.FrameSet) {
	_ = s.replace(frameSet, nil)
}

func (s *Paintable) replace(frameSet *apitype.FrameSet, loadErr error) error {
	s.mux.Lock()
	if s.destroyed {
		s.mux.Unlock()
		return ErrDestroyed
	}

	s.cancelTimer()
	s.generation++
	s.frameSet = nil
	s.current = nil
	s.shown = -1
	s.index = 0
	s.started = false

	if loadErr != nil {
		logger.Warn.Printf("Could not load image: %s", loadErr)
	} else {
		s.frameSet = frameSet
		s.advance()
	}
	callbacks := s.invalidate
	s.mux.Unlock()

	notify(callbacks)
	return loadErr
}

func (s *Paintable) cancelTimer() {
	if s.pending != api.NoSource {
		s.scheduler.Remove(s.pending)
		s.pending = api.NoSource
	}
}

// advance publishes the frame at the current index and arms the timer for the
// next one. Returns true if a frame was published.
func (s *Paintable) advance() bool {
	if s.frameSet == nil {
		return false
	}
	if !s.playing && s.started {
		return false
	}
	if s.pending != api.NoSource {
		return false
	}

	frame := s.frameSet.Frame(s.index)
	s.current = frame
	s.shown = s.index
	s.started = true

	if s.frameSet.Len() > 1 {
		delay := frame.Duration()
		if delay <= 0 {
			delay = s.frameDelay
		}
		s.armTimer(delay)
		s.index = (s.index + 1) % s.frameSet.Len()
	}
	return true
}

func (s *Paintable) armTimer(delay time.Duration) {
	self := weak.Make(s)
	generation := s.generation
	s.pending = s.scheduler.TimeoutAddOnce(delay, func() {
		if paintable := self.Value(); paintable != nil {
			paintable.tick(generation)
		}
	})
}

func (s *Paintable) tick(generation uint64) {
	s.mux.Lock()
	if s.destroyed || generation != s.generation {
		s.mux.Unlock()
		return
	}
	s.pending = api.NoSource
	published := s.advance()
	callbacks := s.invalidate
	s.mux.Unlock()

	if published {
		notify(callbacks)
	}
}

// Resume starts playback from the current index. Does nothing to a timer
// that is already armed.
func (s *Paintable) Resume() {
	s.mux.Lock()
	s.playing = true
	published := s.advance()
	callbacks := s.invalidate
	s.mux.Unlock()

	if published {
		notify(callbacks)
	}
}

// Pause stops playback at the next tick. The frame in flight stays visible.
func (s *Paintable) Pause() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.playing = false
}

func (s *Paintable) IsPlaying() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.playing
}

// Restart shows the first frame again.
func (s *Paintable) Restart() {
	s.mux.Lock()
	if s.destroyed || s.frameSet == nil {
		s.mux.Unlock()
		return
	}
	s.cancelTimer()
	s.generation++
	s.index = 0
	s.started = false
	published := s.advance()
	callbacks := s.invalidate
	s.mux.Unlock()

	if published {
		notify(callbacks)
	}
}

// Rotate sets the absolute clockwise rotation in degrees.
func (s *Paintable) Rotate(angle int) {
	s.mux.Lock()
	s.rotation = angle
	callbacks := s.invalidate
	s.mux.Unlock()

	notify(callbacks)
}

func (s *Paintable) Rotation() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.rotation
}

// Flip mirrors the rendered image around the vertical axis. Stored pixels are
// not touched.
func (s *Paintable) Flip(horizontal bool) {
	s.mux.Lock()
	s.flipped = horizontal
	callbacks := s.invalidate
	s.mux.Unlock()

	notify(callbacks)
}

func (s *Paintable) IsFlipped() bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.flipped
}

func (s *Paintable) Render(width int, height int) image.Image {
	s.mux.Lock()
	frame := s.current
	rotation := s.rotation
	flipped := s.flipped
	s.mux.Unlock()

	if frame == nil {
		return renderPlaceholder(width, height)
	}
	return renderFrame(frame.Image(), width, height, rotation, flipped)
}

// RenderOriented draws the shown frame at its intrinsic resolution. Quarter
// turns swap the output dimensions instead of clipping the frame.
func (s *Paintable) RenderOriented() image.Image {
	s.mux.Lock()
	frame := s.current
	rotation := s.rotation
	flipped := s.flipped
	s.mux.Unlock()

	if frame == nil {
		return renderPlaceholder(1, 1)
	}
	width, height := frame.Width(), frame.Height()
	if angle := normalizeAngle(rotation); angle == 90 || angle == 270 {
		width, height = height, width
	}
	return renderOrientedFrame(frame.Image(), width, height, rotation, flipped)
}

func (s *Paintable) IntrinsicWidth() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.current == nil {
		return apitype.UnknownSize
	}
	return s.current.Width()
}

func (s *Paintable) IntrinsicHeight() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.current == nil {
		return apitype.UnknownSize
	}
	return s.current.Height()
}

func (s *Paintable) FrameCount() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.frameSet == nil {
		return 0
	}
	return s.frameSet.Len()
}

// CurrentIndex returns the index of the shown frame or -1.
func (s *Paintable) CurrentIndex() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.shown
}

// ConnectInvalidate registers fn to be called whenever the rendered output
// changes. fn is called without internal locks held.
func (s *Paintable) ConnectInvalidate(fn func()) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.destroyed {
		return
	}
	s.invalidate = append(s.invalidate, fn)
}

// Destroy releases the frames and cancels the pending timer. Safe to call
// more than once.
func (s *Paintable) Destroy() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.destroyed {
		return
	}
	s.cancelTimer()
	s.generation++
	s.destroyed = true
	s.frameSet = nil
	s.current = nil
	s.shown = -1
	s.invalidate = nil
}

func notify(callbacks []func()) {
	for _, fn := range callbacks {
		fn()
	}
}
