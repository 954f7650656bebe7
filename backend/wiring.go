package backend

import (
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/backend/thumbnail"
	"vincit.fi/image-viewer/common/logger"
)

// ThumbnailListener is called on the scheduler loop once a thumbnail has been
// loaded into the library or could not be created.
type ThumbnailListener func(path string, thumbnail api.Paintable, err error)

// ConnectThumbnails delivers population results and source changes to the
// scheduler loop. Results superseded by a newer request are dropped.
func ConnectThumbnails(services *Services, brokers *Brokers, scheduler api.Scheduler, listener ThumbnailListener) {
	broker := brokers.Broker
	lib := services.Library

	broker.ConnectToLoop(api.ThumbnailReady, scheduler, thumbnail.ReadyFilter(services.Populator, func(command *api.ThumbnailReadyCommand) {
		if command.Err != nil {
			listener(command.Path, nil, command.Err)
			return
		}
		loaded, err := services.ThumbnailCache.LoadCached(command.Path)
		if err != nil {
			listener(command.Path, nil, err)
			return
		}
		lib.SetThumbnail(command.Path, loaded)
		listener(command.Path, loaded, nil)
	}))

	broker.ConnectToLoop(api.SourceChanged, scheduler, func(command *api.SourceChangedCommand) {
		if !lib.Contains(command.Path) {
			return
		}
		logger.Info.Printf("Refreshing thumbnail of '%s'", command.Path)
		if err := services.ThumbnailCache.Invalidate(command.Path); err != nil {
			broker.SendError("Could not invalidate thumbnail", err)
			return
		}
		lib.DropThumbnail(command.Path)
		broker.SendCommandToTopic(api.ThumbnailInvalidated, &api.SourceChangedCommand{Path: command.Path})
		services.Populator.Request(command.Path)
	})
}

// ConnectNotices delivers error messages and thumbnail invalidations to the
// scheduler loop.
func ConnectNotices(brokers *Brokers, scheduler api.Scheduler, onError func(message string), onInvalidated func(path string)) {
	brokers.Broker.ConnectToLoop(api.ShowError, scheduler, func(command *api.ErrorCommand) {
		onError(command.Message)
	})
	brokers.Broker.ConnectToLoop(api.ThumbnailInvalidated, scheduler, func(command *api.SourceChangedCommand) {
		onInvalidated(command.Path)
	})
}

// RequestThumbnails queues every library file for population and starts
// watching them when a watcher is configured.
func RequestThumbnails(services *Services) {
	for _, path := range services.Library.Files() {
		services.Populator.Request(path)
		if services.Watcher != nil {
			if err := services.Watcher.Watch(path); err != nil {
				logger.Warn.Printf("Could not watch '%s': %s", path, err)
			}
		}
	}
}
