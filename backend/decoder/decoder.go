// Package decoder turns encoded image bytes into frame sets. The format is
// taken from the caller's hint; content is never sniffed.
package decoder

import (
	"bytes"
	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
	"image"
	"image/png"
	"os"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
)

type stillDecodeFunc func(data []byte) (image.Image, error)

type Decoder struct {
	applyExif bool

	api.FrameDecoder
}

func New() *Decoder {
	return &Decoder{
		applyExif: true,
	}
}

// NewWithoutExif returns a decoder that keeps JPEG pixels in stored order.
func NewWithoutExif() *Decoder {
	return &Decoder{}
}

var defaultDecoder = New()

func Decode(data []byte, formatHint string) (*apitype.FrameSet, error) {
	return defaultDecoder.Decode(data, formatHint)
}

func DecodeFile(path string) (*apitype.FrameSet, error) {
	return defaultDecoder.DecodeFile(path)
}

// IsAnimatedFormat tells if the hint names a format that can hold more than
// one frame.
func IsAnimatedFormat(formatHint string) bool {
	return apitype.ImageFormatFromHint(formatHint).IsAnimated()
}

func (s *Decoder) Decode(data []byte, formatHint string) (*apitype.FrameSet, error) {
	format := apitype.ImageFormatFromHint(formatHint)
	if format == apitype.FormatUnknown {
		return nil, apitype.NewDecodeError(formatHint, apitype.ErrUnknownFormat)
	}

	start := time.Now()
	frameSet, err := s.decode(data, format)
	if err != nil {
		return nil, err
	}
	if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("Decoded %s with %d frames in %s", format, frameSet.Len(), time.Since(start))
	}
	return frameSet, nil
}

func (s *Decoder) decode(data []byte, format apitype.ImageFormat) (*apitype.FrameSet, error) {
	switch format {
	case apitype.FormatGif:
		return decodeGif(data)
	case apitype.FormatJpeg:
		return s.decodeJpeg(data)
	case apitype.FormatPng:
		return decodeStill(data, format, decodePng)
	case apitype.FormatWebp:
		return decodeStill(data, format, decodeWebp)
	case apitype.FormatBmp:
		return decodeStill(data, format, decodeBmp)
	case apitype.FormatTiff:
		return decodeStill(data, format, decodeTiff)
	default:
		return nil, apitype.NewDecodeError(format.String(), apitype.ErrUnknownFormat)
	}
}

// DecodeFile reads path and decodes it using the file extension as the hint.
func (s *Decoder) DecodeFile(path string) (*apitype.FrameSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apitype.NewIoError("read", path, err)
	}
	format := apitype.ImageFormatFromPath(path)
	if format == apitype.FormatUnknown {
		return nil, apitype.NewDecodeError(path, apitype.ErrUnknownFormat)
	}
	return s.Decode(data, format.Extension())
}

func decodeStill(data []byte, format apitype.ImageFormat, decodeFn stillDecodeFunc) (*apitype.FrameSet, error) {
	img, err := decodeFn(data)
	if err != nil {
		return nil, apitype.NewDecodeError(format.String(), err)
	}
	if img.Bounds().Empty() {
		return nil, apitype.NewDecodeError(format.String(), apitype.ErrNoFrames)
	}
	return apitype.NewStillFrameSet(format, toNRGBA(img)), nil
}

func decodePng(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

func decodeWebp(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}

func decodeBmp(data []byte) (image.Image, error) {
	return bmp.Decode(bytes.NewReader(data))
}

func decodeTiff(data []byte) (image.Image, error) {
	return tiff.Decode(bytes.NewReader(data))
}

// toNRGBA returns img as NRGBA with its origin at (0, 0). Images already in
// that layout are returned as is.
func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	return imaging.Clone(img)
}
