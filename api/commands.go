package api

import "vincit.fi/image-viewer/api/apitype"

type ErrorCommand struct {
	Message string

	apitype.NotThrottled
}

// ThumbnailReadyCommand carries the result of one population request.
// Generation identifies the request; older generations for the same path
// are superseded.
type ThumbnailReadyCommand struct {
	Path       string
	CachePath  string
	Generation uint64
	Err        error

	apitype.NotThrottled
}

type SourceChangedCommand struct {
	Path string

	apitype.NotThrottled
}

type UpdateProgressCommand struct {
	Name    string
	Current int
	Total   int

	apitype.Throttled
}
