package backend

import (
	"fmt"
	"path/filepath"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/backend/database"
	"vincit.fi/image-viewer/backend/decoder"
	"vincit.fi/image-viewer/backend/library"
	"vincit.fi/image-viewer/backend/paintable"
	"vincit.fi/image-viewer/backend/sourcewatch"
	"vincit.fi/image-viewer/backend/thumbnail"
	"vincit.fi/image-viewer/common"
	"vincit.fi/image-viewer/common/event"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/util"
)

type Stores struct {
	CacheIndex *database.CacheIndex
	cacheRoot  string
	cacheDb    *database.Database
}

func (s *Stores) Close() {
	s.cacheDb.Close()
}

func (s *Stores) CacheRoot() string {
	return s.cacheRoot
}

type Services struct {
	Decoder          api.FrameDecoder
	PaintableFactory api.PaintableFactory
	ThumbnailCache   *thumbnail.Cache
	Populator        *thumbnail.Populator
	Library          *library.Library
	Watcher          *sourcewatch.Watcher
}

func (s *Services) Close() {
	defer s.Library.Close()
	defer s.Populator.Close()
	if s.Watcher != nil {
		if err := s.Watcher.Close(); err != nil {
			logger.Warn.Printf("Could not close watcher: %s", err)
		}
	}
}

type Brokers struct {
	Broker *event.Broker
}

func InitializeEventBrokers(eventBusQueueSize int) *Brokers {
	logger.Debug.Printf("Initialize event brokers...")
	brokers := &Brokers{
		Broker: event.InitBus(eventBusQueueSize),
	}
	logger.Debug.Printf("Event brokers initialized")
	return brokers
}

// InitializeStores opens the cache index inside the cache root. An empty
// cacheDir resolves to the default cache root.
func InitializeStores(cacheDir string) (*Stores, error) {
	logger.Debug.Printf("Initialize databases...")
	var root string
	var err error
	if cacheDir != "" {
		root, err = thumbnail.ResolveRoot(cacheDir)
	} else {
		root, err = thumbnail.DefaultRoot()
	}
	if err != nil {
		return nil, err
	}

	if err := util.MakeDirectoriesIfNotExist(filepath.Dir(root), root); err != nil {
		return nil, apitype.NewIoError("create cache directory", root, err)
	}
	cacheDb := database.NewDatabase()
	if err := cacheDb.InitializeForDirectory(root, common.CacheIndexFileName); err != nil {
		return nil, apitype.NewIoError("open cache index", cacheDb.Path(), err)
	}
	if _, err := cacheDb.Migrate(); err != nil {
		cacheDb.Close()
		return nil, apitype.NewIoError("migrate cache index", cacheDb.Path(), err)
	}

	stores := &Stores{
		CacheIndex: database.NewCacheIndex(cacheDb),
		cacheRoot:  root,
		cacheDb:    cacheDb,
	}
	logger.Debug.Printf("Stores and databases initialized")
	return stores, nil
}

// ThumbnailSettings converts params into cache settings and rejects unknown
// formats and filters.
func ThumbnailSettings(params *common.Params) (thumbnail.Settings, error) {
	format := apitype.ImageFormatFromHint(params.Format())
	if !format.CanEncode() {
		return thumbnail.Settings{}, fmt.Errorf("unsupported thumbnail format '%s'", params.Format())
	}
	filter, ok := thumbnail.ResizeFilterFromName(params.ResizeFilter())
	if !ok {
		return thumbnail.Settings{}, fmt.Errorf("unknown resize filter '%s'", params.ResizeFilter())
	}
	return thumbnail.Settings{
		Size:               params.ThumbnailSize(),
		Format:             format,
		AnimatedThumbnails: params.AnimatedThumbnails(),
		Filter:             filter,
	}, nil
}

func InitializeServices(params *common.Params, stores *Stores, brokers *Brokers, scheduler api.Scheduler) (*Services, error) {
	logger.Debug.Printf("Initialize services...")
	settings, err := ThumbnailSettings(params)
	if err != nil {
		return nil, err
	}

	frameDecoder := decoder.New()
	factory := paintable.NewFactory(scheduler, frameDecoder, params.FrameDelay())
	cache, err := thumbnail.NewCache(stores.CacheRoot(), settings, stores.CacheIndex, frameDecoder, factory)
	if err != nil {
		return nil, err
	}

	services := &Services{
		Decoder:          frameDecoder,
		PaintableFactory: factory,
		ThumbnailCache:   cache,
		Populator:        thumbnail.NewPopulator(cache, brokers.Broker, params.Workers()),
		Library:          library.New(),
	}

	if params.Watch() {
		watcher, err := sourcewatch.New(sourcewatch.DefaultDebounce, func(path string) {
			brokers.Broker.SendCommandToTopic(api.SourceChanged, &api.SourceChangedCommand{Path: path})
		})
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Watcher = watcher
	}
	logger.Debug.Printf("Services initialized")
	return services, nil
}
