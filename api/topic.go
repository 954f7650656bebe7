package api

type Topic string

const (
	ThumbnailReady       Topic = "event-thumbnail-ready"
	ThumbnailInvalidated Topic = "event-thumbnail-invalidated"
	SourceChanged        Topic = "event-source-changed"
	ProcessStatusUpdated Topic = "event-process-status-updated"
	ShowError            Topic = "event-show-error"
)
