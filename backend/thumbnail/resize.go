package thumbnail

import (
	"github.com/disintegration/imaging"
	"strings"
	"time"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
)

var resizeFilters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"gaussian":   imaging.Gaussian,
	"catmullrom": imaging.CatmullRom,
	"mitchell":   imaging.MitchellNetravali,
	"lanczos":    imaging.Lanczos,
}

func ResizeFilterFromName(name string) (imaging.ResampleFilter, bool) {
	filter, ok := resizeFilters[strings.ToLower(name)]
	return filter, ok
}

// ResizeFrameSet scales every frame into the box computed from the first
// frame so that the longer side equals thumbnailSize. Durations are kept.
func ResizeFrameSet(frameSet *apitype.FrameSet, thumbnailSize int, filter imaging.ResampleFilter) (*apitype.FrameSet, error) {
	start := time.Now()
	size := apitype.ThumbnailSizeFor(frameSet.Size(), thumbnailSize)

	frames := make([]*apitype.Frame, frameSet.Len())
	for i, frame := range frameSet.Frames() {
		resized := imaging.Resize(frame.Image(), size.GetWidth(), size.GetHeight(), filter)
		frames[i] = apitype.NewFrame(resized, frame.Duration())
	}

	if logger.IsLogLevel(logger.TRACE) {
		logger.Trace.Printf("Resized %d frames to %dx%d in %s",
			len(frames), size.GetWidth(), size.GetHeight(), time.Since(start))
	}
	return apitype.NewFrameSet(frameSet.Format(), frames, frameSet.LoopCount())
}

// FirstFrame drops all but the first frame.
func FirstFrame(frameSet *apitype.FrameSet) *apitype.FrameSet {
	if !frameSet.IsAnimated() {
		return frameSet
	}
	return apitype.NewStillFrameSet(frameSet.Format(), frameSet.First().Image())
}
