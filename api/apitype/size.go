package apitype

import (
	"image"
)

// UnknownSize is reported as intrinsic dimension when there is nothing to show.
const UnknownSize = -1

type Size struct {
	width  int
	height int
}

func (s Size) GetHeight() int {
	return s.height
}

func (s Size) GetWidth() int {
	return s.width
}

func (s Size) IsEmpty() bool {
	return s.width <= 0 || s.height <= 0
}

func SizeOf(width int, height int) Size {
	return Size{width, height}
}

func SizeOfBounds(bounds image.Rectangle) Size {
	return Size{
		width:  bounds.Dx(),
		height: bounds.Dy(),
	}
}

// ScaleToFit scales the source dimensions to fit inside the target box keeping
// the aspect ratio. The constrained side matches the box and the other side is
// truncated to whole pixels.
func ScaleToFit(sourceWidth int, sourceHeight int, targetWidth int, targetHeight int) (int, int) {
	sw, sh := int64(sourceWidth), int64(sourceHeight)
	tw, th := int64(targetWidth), int64(targetHeight)

	if sw*th >= sh*tw {
		return targetWidth, int(tw * sh / sw)
	}
	return int(th * sw / sh), targetHeight
}

// ThumbnailSizeFor returns the thumbnail dimensions for a source so that the
// longer side equals thumbnailSize. Neither side goes below 1.
func ThumbnailSizeFor(source Size, thumbnailSize int) Size {
	if source.IsEmpty() || thumbnailSize <= 0 {
		return SizeOf(1, 1)
	}
	width, height := ScaleToFit(source.width, source.height, thumbnailSize, thumbnailSize)
	return SizeOf(max(width, 1), max(height, 1))
}
