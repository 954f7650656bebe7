package api

import (
	"image"
	"vincit.fi/image-viewer/api/apitype"
)

// Paintable is a possibly animated image that can be drawn into a box.
type Paintable interface {
	Load(data []byte, formatHint string) error
	LoadFile(path string) error
	LoadFrameSet(frameSet *apitype.FrameSet)

	Resume()
	Pause()
	IsPlaying() bool
	Restart()

	Rotate(angle int)
	Rotation() int
	Flip(horizontal bool)
	IsFlipped() bool

	Render(width int, height int) image.Image
	IntrinsicWidth() int
	IntrinsicHeight() int
	FrameCount() int
	CurrentIndex() int

	ConnectInvalidate(fn func())
	Destroy()
}

type PaintableFactory func() Paintable

type FrameDecoder interface {
	Decode(data []byte, formatHint string) (*apitype.FrameSet, error)
	DecodeFile(path string) (*apitype.FrameSet, error)
}
