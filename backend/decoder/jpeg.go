package decoder

import (
	"bytes"
	"github.com/pixiv/go-libjpeg/jpeg"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
)

var jpegOptions = &jpeg.DecoderOptions{}

func (s *Decoder) decodeJpeg(data []byte) (*apitype.FrameSet, error) {
	img, err := jpeg.Decode(bytes.NewReader(data), jpegOptions)
	if err != nil {
		return nil, apitype.NewDecodeError(apitype.FormatJpeg.String(), err)
	}
	if img.Bounds().Empty() {
		return nil, apitype.NewDecodeError(apitype.FormatJpeg.String(), apitype.ErrNoFrames)
	}

	if !s.applyExif {
		return apitype.NewStillFrameSet(apitype.FormatJpeg, toNRGBA(img)), nil
	}

	exifData, err := apitype.ParseExifData(data)
	if err != nil {
		logger.Trace.Printf("No EXIF data: %s", err)
	}
	rotated := apitype.ExifRotateImage(img, exifData.GetRotation(), exifData.IsFlipped())
	return apitype.NewStillFrameSet(apitype.FormatJpeg, rotated), nil
}
