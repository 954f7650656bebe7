package paintable

import (
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"image"
	"image/color"
	"math"
)

var placeholderColor = color.NRGBA{A: 255}

func normalizeAngle(angle int) int {
	return ((angle % 360) + 360) % 360
}

func renderPlaceholder(width int, height int) *image.NRGBA {
	return imaging.New(max(width, 1), max(height, 1), placeholderColor)
}

// renderFrame scales img to the box, mirrors it if flipped and rotates it
// clockwise about the centre of the box. Corners rotated outside the box are
// clipped and uncovered areas are black.
func renderFrame(img image.Image, width int, height int, rotation int, flipped bool) *image.NRGBA {
	width = max(width, 1)
	height = max(height, 1)

	scaled := scale(img, width, height)
	if flipped {
		scaled = imaging.FlipH(scaled)
	}

	switch angle := normalizeAngle(rotation); angle {
	case 0:
		return scaled
	case 90:
		return imaging.PasteCenter(renderPlaceholder(width, height), imaging.Rotate270(scaled))
	case 180:
		return imaging.Rotate180(scaled)
	case 270:
		return imaging.PasteCenter(renderPlaceholder(width, height), imaging.Rotate90(scaled))
	default:
		return rotateAbout(scaled, float64(angle))
	}
}

// renderOrientedFrame works like renderFrame, but for quarter turns the frame
// is scaled to the unrotated box first so the rotated frame fills width x height.
func renderOrientedFrame(img image.Image, width int, height int, rotation int, flipped bool) *image.NRGBA {
	angle := normalizeAngle(rotation)
	if angle != 90 && angle != 270 {
		return renderFrame(img, width, height, rotation, flipped)
	}

	scaled := scale(img, max(height, 1), max(width, 1))
	if flipped {
		scaled = imaging.FlipH(scaled)
	}
	if angle == 90 {
		return imaging.Rotate270(scaled)
	}
	return imaging.Rotate90(scaled)
}

func scale(img image.Image, width int, height int) *image.NRGBA {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, imaging.Linear)
}

func rotateAbout(src *image.NRGBA, degrees float64) *image.NRGBA {
	bounds := src.Bounds()
	dst := renderPlaceholder(bounds.Dx(), bounds.Dy())

	radians := degrees * math.Pi / 180
	sin, cos := math.Sincos(radians)
	cx := float64(bounds.Dx()) / 2
	cy := float64(bounds.Dy()) / 2

	srcToDst := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	draw.BiLinear.Transform(dst, srcToDst, src, bounds, draw.Over, nil)
	return dst
}
