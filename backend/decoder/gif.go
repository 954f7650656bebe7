package decoder

import (
	"bytes"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"image"
	"image/gif"
	"time"
	"vincit.fi/image-viewer/api/apitype"
)

const gifDelayUnit = 10 * time.Millisecond

// decodeGif decodes every frame and composites it onto the logical screen so
// that each frame is a complete picture.
func decodeGif(data []byte) (*apitype.FrameSet, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, apitype.NewDecodeError(apitype.FormatGif.String(), err)
	}
	if len(g.Image) == 0 {
		return nil, apitype.NewDecodeError(apitype.FormatGif.String(), apitype.ErrNoFrames)
	}

	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		for _, frame := range g.Image {
			screen = screen.Union(frame.Bounds())
		}
	}
	if screen.Empty() {
		return nil, apitype.NewDecodeError(apitype.FormatGif.String(), apitype.ErrNoFrames)
	}

	canvas := image.NewRGBA(screen)
	var previous *image.RGBA
	frames := make([]*apitype.Frame, 0, len(g.Image))
	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = imageCopy(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, apitype.NewFrame(imaging.Clone(canvas), gifDelay(g, i)))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, canvas.Bounds(), previous, canvas.Bounds().Min, draw.Src)
		}
	}

	if len(frames) == 1 {
		return apitype.NewStillFrameSet(apitype.FormatGif, frames[0].Image()), nil
	}
	return apitype.NewFrameSet(apitype.FormatGif, frames, g.LoopCount)
}

func gifDelay(g *gif.GIF, index int) time.Duration {
	if index < len(g.Delay) {
		return time.Duration(g.Delay[index]) * gifDelayUnit
	}
	return 0
}

func imageCopy(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
