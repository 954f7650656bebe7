package apitype

import (
	"path/filepath"
	"strings"
)

type ImageFormat string

const (
	FormatUnknown ImageFormat = ""
	FormatGif     ImageFormat = "gif"
	FormatPng     ImageFormat = "png"
	FormatJpeg    ImageFormat = "jpeg"
	FormatWebp    ImageFormat = "webp"
	FormatBmp     ImageFormat = "bmp"
	FormatTiff    ImageFormat = "tiff"
)

var formatAliases = map[string]ImageFormat{
	"gif":  FormatGif,
	"png":  FormatPng,
	"jpg":  FormatJpeg,
	"jpeg": FormatJpeg,
	"jpe":  FormatJpeg,
	"webp": FormatWebp,
	"bmp":  FormatBmp,
	"tif":  FormatTiff,
	"tiff": FormatTiff,
}

var supportedFormats = []ImageFormat{FormatGif, FormatPng, FormatJpeg, FormatWebp, FormatBmp, FormatTiff}

// ImageFormatFromHint maps a format hint such as "JPG" or ".tif" to a format.
// Unknown hints return FormatUnknown.
func ImageFormatFromHint(hint string) ImageFormat {
	normalized := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hint)), ".")
	if format, ok := formatAliases[normalized]; ok {
		return format
	}
	return FormatUnknown
}

func ImageFormatFromPath(path string) ImageFormat {
	return ImageFormatFromHint(filepath.Ext(path))
}

func SupportedFormats() []ImageFormat {
	formats := make([]ImageFormat, len(supportedFormats))
	copy(formats, supportedFormats)
	return formats
}

func IsSupported(path string) bool {
	return ImageFormatFromPath(path) != FormatUnknown
}

func (s ImageFormat) IsAnimated() bool {
	return s == FormatGif
}

// CanEncode tells if the format can be used for cache output.
func (s ImageFormat) CanEncode() bool {
	return s == FormatPng || s == FormatJpeg || s == FormatGif
}

func (s ImageFormat) Extension() string {
	return string(s)
}

func (s ImageFormat) String() string {
	if s == FormatUnknown {
		return "unknown"
	}
	return string(s)
}
