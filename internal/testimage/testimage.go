// Package testimage generates encoded image fixtures for tests.
package testimage

import (
	"bytes"
	"github.com/pixiv/go-libjpeg/jpeg"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

var (
	Red         = color.NRGBA{R: 255, A: 255}
	Green       = color.NRGBA{G: 255, A: 255}
	Blue        = color.NRGBA{B: 255, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
)

// Palette used by the GIF fixtures. Frame i of Gif is filled with
// Palette[i % 3].
var Palette = color.Palette{Red, Green, Blue, White, Transparent}

// Solid returns a width x height image filled with c.
func Solid(width int, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Quadrants returns an image with red, green, blue and white quadrants in
// reading order.
func Quadrants(width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = Red
			case y < height/2:
				c = Green
			case x < width/2:
				c = Blue
			default:
				c = White
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func Png(t *testing.T, img image.Image) []byte {
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func Jpeg(t *testing.T, width int, height int) []byte {
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rgba.Set(x, y, color.RGBA{R: uint8(x * 255 / width), G: uint8(y * 255 / height), B: 128, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, jpeg.Encode(buf, rgba, &jpeg.EncoderOptions{Quality: 90}))
	return buf.Bytes()
}

// Gif returns an animated GIF with one full-size frame per delay. Delays are
// in hundredths of a second.
func Gif(t *testing.T, width int, height int, delays []int) []byte {
	g := &gif.GIF{
		LoopCount: 0,
	}
	for i, delay := range delays {
		frame := image.NewPaletted(image.Rect(0, 0, width, height), Palette)
		index := uint8(i % 3)
		for p := range frame.Pix {
			frame.Pix[p] = index
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	return EncodeGif(t, g)
}

func EncodeGif(t *testing.T, g *gif.GIF) []byte {
	buf := &bytes.Buffer{}
	require.NoError(t, gif.EncodeAll(buf, g))
	return buf.Bytes()
}

func WriteFile(t *testing.T, dir string, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
