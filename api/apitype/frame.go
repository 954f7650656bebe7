package apitype

import (
	"image"
	"time"
)

// Frame is one decoded picture. Pixels are never modified after decoding.
type Frame struct {
	image    *image.NRGBA
	duration time.Duration
}

func NewFrame(img *image.NRGBA, duration time.Duration) *Frame {
	return &Frame{
		image:    img,
		duration: duration,
	}
}

func (s *Frame) Image() *image.NRGBA {
	return s.image
}

// Duration is the declared display time. Zero means show forever for still
// images.
func (s *Frame) Duration() time.Duration {
	return s.duration
}

func (s *Frame) Size() Size {
	return SizeOfBounds(s.image.Bounds())
}

func (s *Frame) Width() int {
	return s.image.Bounds().Dx()
}

func (s *Frame) Height() int {
	return s.image.Bounds().Dy()
}

// FrameSet is a non-empty ordered sequence of frames from one decode.
type FrameSet struct {
	frames    []*Frame
	format    ImageFormat
	loopCount int
}

func NewFrameSet(format ImageFormat, frames []*Frame, loopCount int) (*FrameSet, error) {
	if len(frames) == 0 {
		return nil, NewDecodeError(format.String(), ErrNoFrames)
	}
	return &FrameSet{
		frames:    frames,
		format:    format,
		loopCount: loopCount,
	}, nil
}

func NewStillFrameSet(format ImageFormat, img *image.NRGBA) *FrameSet {
	return &FrameSet{
		frames: []*Frame{NewFrame(img, 0)},
		format: format,
	}
}

func (s *FrameSet) Len() int {
	return len(s.frames)
}

func (s *FrameSet) Frame(index int) *Frame {
	return s.frames[index]
}

func (s *FrameSet) Frames() []*Frame {
	return s.frames
}

func (s *FrameSet) First() *Frame {
	return s.frames[0]
}

func (s *FrameSet) IsAnimated() bool {
	return len(s.frames) > 1
}

func (s *FrameSet) Format() ImageFormat {
	return s.format
}

// LoopCount follows the GIF convention: 0 loops forever, -1 shows once.
func (s *FrameSet) LoopCount() int {
	return s.loopCount
}

func (s *FrameSet) Size() Size {
	return s.frames[0].Size()
}

// TotalDuration sums the declared durations of all frames.
func (s *FrameSet) TotalDuration() time.Duration {
	var total time.Duration
	for _, frame := range s.frames {
		total += frame.duration
	}
	return total
}
