package apitype

import (
	"bytes"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"image"
	"time"
)

// ExifData holds the EXIF values that affect how a decoded frame is shown.
type ExifData struct {
	orientation uint8
	rotation    int
	flipped     bool
	created     time.Time
}

const exifUnchangedOrientation = 1

func (s *ExifData) GetExifOrientation() uint8 {
	return s.orientation
}

// GetRotation returns the counter-clockwise rotation in degrees.
func (s *ExifData) GetRotation() int {
	return s.rotation
}

func (s *ExifData) IsFlipped() bool {
	return s.flipped
}

func (s *ExifData) GetCreatedTime() time.Time {
	return s.created
}

func GetInt(decodedExif *exif.Exif, tagName exif.FieldName) (int, error) {
	if tag, err := decodedExif.Get(tagName); err != nil {
		return 0, err
	} else {
		return tag.Int(0)
	}
}

// ParseExifData reads EXIF from an encoded image. Missing tags fall back to
// the unchanged orientation; only an unreadable EXIF block is an error.
func ParseExifData(data []byte) (*ExifData, error) {
	decodedExif, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return NewDefaultExifData(), err
	}

	exifData := NewDefaultExifData()
	if orientation, err := GetInt(decodedExif, exif.Orientation); err == nil {
		angle, flip := ExifOrientationToAngleAndFlip(orientation)
		exifData.orientation = uint8(orientation)
		exifData.rotation = angle
		exifData.flipped = flip
	}
	if created, err := decodedExif.DateTime(); err == nil {
		exifData.created = created
	}
	return exifData, nil
}

func NewDefaultExifData() *ExifData {
	return &ExifData{
		orientation: exifUnchangedOrientation,
		created:     time.Unix(0, 0),
	}
}

const (
	noRotate  = 0
	rotate180 = 180
	left90    = 90
	right90   = 270

	noHorizontalFlip = false
	horizontalFlip   = true
)

func ExifOrientationToAngleAndFlip(orientation int) (int, bool) {
	switch orientation {
	case 1:
		return noRotate, noHorizontalFlip
	case 2:
		return noRotate, horizontalFlip
	case 3:
		return rotate180, noHorizontalFlip
	case 4:
		return rotate180, horizontalFlip
	case 5:
		return right90, horizontalFlip
	case 6:
		return right90, noHorizontalFlip
	case 7:
		return left90, horizontalFlip
	case 8:
		return left90, noHorizontalFlip
	default:
		return noRotate, noHorizontalFlip
	}
}

// ExifRotateImage turns a stored image into its display orientation. The
// rotation is counter-clockwise and happens before the flip.
func ExifRotateImage(loadedImage image.Image, rotation int, flipped bool) *image.NRGBA {
	var rotated *image.NRGBA
	switch rotation {
	case left90:
		rotated = imaging.Rotate90(loadedImage)
	case rotate180:
		rotated = imaging.Rotate180(loadedImage)
	case right90:
		rotated = imaging.Rotate270(loadedImage)
	default:
		rotated = imaging.Clone(loadedImage)
	}
	if flipped {
		return imaging.FlipH(rotated)
	}
	return rotated
}
