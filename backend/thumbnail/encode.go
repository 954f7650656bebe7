package thumbnail

import (
	"bytes"
	"fmt"
	"github.com/pixiv/go-libjpeg/jpeg"
	"golang.org/x/image/draw"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"time"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
)

const jpegQuality = 85

var (
	pngEncoder  = &png.Encoder{CompressionLevel: png.DefaultCompression}
	jpegOptions = &jpeg.EncoderOptions{Quality: jpegQuality, OptimizeCoding: true}
	gifPalette  = append(color.Palette{color.Transparent}, palette.WebSafe...)
)

// Encode writes the frame set in format. Only gif keeps more than one frame.
func Encode(frameSet *apitype.FrameSet, format apitype.ImageFormat) ([]byte, error) {
	start := time.Now()
	buf := &bytes.Buffer{}

	var err error
	switch format {
	case apitype.FormatPng:
		err = pngEncoder.Encode(buf, frameSet.First().Image())
	case apitype.FormatJpeg:
		err = jpeg.Encode(buf, flatten(frameSet.First().Image()), jpegOptions)
	case apitype.FormatGif:
		err = gif.EncodeAll(buf, toGif(frameSet))
	default:
		err = fmt.Errorf("can't encode %s", format)
	}
	if err != nil {
		return nil, err
	}

	if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("Encoded %s (%d bytes) in %s", format, buf.Len(), time.Since(start))
	}
	return buf.Bytes(), nil
}

// flatten draws img over opaque black.
func flatten(img *image.NRGBA) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, image.Black, image.Point{}, draw.Src)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Over)
	return rgba
}

func toGif(frameSet *apitype.FrameSet) *gif.GIF {
	g := &gif.GIF{
		LoopCount: frameSet.LoopCount(),
	}
	for _, frame := range frameSet.Frames() {
		bounds := frame.Image().Bounds()
		paletted := image.NewPaletted(bounds, gifPalette)
		draw.Draw(paletted, bounds, frame.Image(), bounds.Min, draw.Src)

		g.Image = append(g.Image, paletted)
		g.Delay = append(g.Delay, int(frame.Duration()/(10*time.Millisecond)))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	return g
}
